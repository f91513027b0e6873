package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"parla/internal/audio"
	"parla/internal/config"
	"parla/internal/gesture"
	"parla/internal/hub"
	"parla/internal/indicator"
	"parla/internal/ipc"
	"parla/internal/mutegate"
	"parla/internal/session"
	"parla/internal/textfilter"
	"parla/internal/transcriber"
	"parla/internal/trigger"
	"parla/internal/typer"
)

const (
	socketProbeTimeout = 180 * time.Millisecond
	socketRetries      = 8
)

// runDaemon owns the long-lived process: control socket, trigger sources,
// gesture pipeline, indicator, and the session orchestrator.
func (r Runner) runDaemon(ctx context.Context, loaded config.Loaded, logger *slog.Logger) int {
	cfg := loaded.Config

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, socketProbeTimeout, socketRetries)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: parla daemon already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	orch := buildOrchestrator(cfg, logger)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCtx, serverCancel := context.WithCancel(runCtx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, orch)
	}()

	if cfg.Hotkey.Enable {
		combo := strings.Join(append(append([]string{}, cfg.Hotkey.Mods...), cfg.Hotkey.Key), "+")
		hk, hkErr := trigger.NewGlobalHotkey(combo)
		if hkErr != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", hkErr)
			return 1
		}
		keyboard := trigger.NewKeyboard(logger, hk, trigger.Mode(cfg.Hotkey.Mode), orch)
		go func() {
			if runErr := keyboard.Run(runCtx); runErr != nil && !errors.Is(runErr, context.Canceled) {
				logger.Error("keyboard trigger stopped", "error", runErr.Error())
			}
		}()
		logger.Info("keyboard trigger active", "combo", combo, "mode", cfg.Hotkey.Mode)
	}

	gestureHub := r.startGesturePipeline(runCtx, cfg.Gesture, orch, logger)

	notifier := indicator.NewNotifier(cfg.Indicator, logger)
	go notifier.Run(runCtx, orch.Events(), gestureHub)

	logger.Info("daemon ready", "socket", socketPath)
	fmt.Fprintln(r.Stdout, "parla daemon listening on "+socketPath)

	<-runCtx.Done()
	logger.Info("daemon shutting down")

	drainCtx, drainCancel := context.WithTimeout(context.Background(), orchDrainTimeout(cfg))
	defer drainCancel()
	if closeErr := orch.Close(drainCtx); closeErr != nil {
		logger.Error("session drain failed", "error", closeErr.Error())
	}

	serverCancel()
	_ = listener.Close()
	if serverErr := <-serverErrCh; serverErr != nil && !errors.Is(serverErr, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: control socket server failed: %v\n", serverErr)
		return 1
	}

	return 0
}

// buildOrchestrator wires the capture/ASR/filter/typer chain from config.
func buildOrchestrator(cfg config.Config, logger *slog.Logger) *session.Orchestrator {
	recorder := audio.NewRecorder(logger, cfg.Audio.Input, cfg.Audio.Fallback)

	asrOpts := []transcriber.Option{}
	if cfg.ASR.Language != "" {
		asrOpts = append(asrOpts, transcriber.WithLanguage(cfg.ASR.Language))
	}
	asr := transcriber.NewWhisper(cfg.ASR.Endpoint, asrOpts...)

	filter := textfilter.New(textfilter.Options{
		TrailingSpace:       cfg.Filter.TrailingSpace,
		CapitalizeSentences: cfg.Filter.CapitalizeSentences,
	})

	injector := typer.NewCommand(logger, config.TyperArgv(cfg), cfg.Typer.ClipboardFallback)

	lockPath := cfg.Mute.LockPath
	if lockPath == "" {
		lockPath = mutegate.DefaultLockPath()
	}

	return session.NewOrchestrator(session.Options{
		Logger:            logger,
		Capture:           recorder,
		Transcriber:       asr,
		Filter:            filter,
		Typer:             injector,
		Gate:              mutegate.NewFile(lockPath),
		TranscribeTimeout: time.Duration(cfg.ASR.TimeoutMS) * time.Millisecond,
		DrainTimeout:      orchDrainTimeout(cfg),
	})
}

// startGesturePipeline dials the landmark stream and runs classification,
// stabilization, and the gesture toggle trigger. A dial failure disables the
// gesture source without taking the daemon down.
func (r Runner) startGesturePipeline(
	ctx context.Context,
	cfg config.GestureConfig,
	orch *session.Orchestrator,
	logger *slog.Logger,
) *hub.Hub[gesture.Event] {
	if !cfg.Enable {
		return nil
	}

	source, err := gesture.DialStreamSource(ctx, cfg.Socket)
	if err != nil {
		logger.Error("gesture source unavailable; continuing without gestures",
			"socket", cfg.Socket,
			"error", err.Error(),
		)
		return nil
	}

	events := hub.New[gesture.Event](16)
	stabilizer := gesture.NewStabilizer(gesture.StabilizerConfig{
		StableFrames: cfg.StableFrames,
		Cooldown:     time.Duration(cfg.CooldownMS) * time.Millisecond,
	})
	pipeline := gesture.NewPipeline(source, stabilizer, events, logger)

	go func() {
		defer source.Close()
		if runErr := pipeline.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.Error("gesture pipeline stopped", "error", runErr.Error())
		}
	}()

	toggle := trigger.NewGestureToggle(logger, events, gesture.Gesture(cfg.ToggleGesture), orch)
	go func() {
		if runErr := toggle.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.Error("gesture trigger stopped", "error", runErr.Error())
		}
	}()

	logger.Info("gesture trigger active",
		"socket", cfg.Socket,
		"toggle_gesture", cfg.ToggleGesture,
		"stable_frames", cfg.StableFrames,
		"cooldown_ms", cfg.CooldownMS,
	)
	return events
}

func orchDrainTimeout(cfg config.Config) time.Duration {
	if cfg.Daemon.DrainTimeoutMS > 0 {
		return time.Duration(cfg.Daemon.DrainTimeoutMS) * time.Millisecond
	}
	return 10 * time.Second
}
