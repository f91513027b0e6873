// Package session owns the single recording session and arbitrates trigger
// commands from keyboard, remote, and gesture sources into one mutually
// exclusive capture->transcribe->type pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"parla/internal/fsm"
	"parla/internal/history"
	"parla/internal/hub"
	"parla/internal/mutegate"
)

const (
	defaultTranscribeTimeout = 60 * time.Second
	defaultDrainTimeout      = 10 * time.Second
)

// ErrPipelineUnavailable indicates runtime capture/ASR wiring is missing.
var ErrPipelineUnavailable = errors.New("audio capture and ASR pipeline not implemented")

// Options carries the orchestrator's collaborators and tuning.
type Options struct {
	Logger      *slog.Logger
	Capture     AudioCapture
	Transcriber Transcriber
	Filter      TextFilter
	Typer       Typer
	Gate        mutegate.Gate
	History     *history.Store
	Events      *hub.Hub[Event]

	TranscribeTimeout time.Duration
	DrainTimeout      time.Duration
}

// Orchestrator is the session state machine. It is the only writer of session
// state; every observer goes through the read-only query surface.
type Orchestrator struct {
	logger  *slog.Logger
	capture AudioCapture
	asr     Transcriber
	filter  TextFilter
	typer   Typer
	gate    mutegate.Gate
	history *history.Store
	events  *hub.Hub[Event]

	transcribeTimeout time.Duration
	drainTimeout      time.Duration

	// cmdMu serializes the Start/Stop/Toggle decision point. TryLock semantics
	// reject, rather than queue, a command arriving mid-processing.
	cmdMu sync.Mutex

	mu        sync.RWMutex
	state     fsm.State
	startedAt time.Time

	inflight sync.WaitGroup
}

// NewOrchestrator constructs an orchestrator with safe default fallbacks for
// every absent collaborator.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	if opts.Capture == nil {
		opts.Capture = placeholderCapture{}
	}
	if opts.Transcriber == nil {
		opts.Transcriber = placeholderTranscriber{}
	}
	if opts.Filter == nil {
		opts.Filter = noopFilter{}
	}
	if opts.Typer == nil {
		opts.Typer = noopTyper{}
	}
	if opts.Gate == nil {
		opts.Gate = mutegate.NewMemory()
	}
	if opts.History == nil {
		opts.History = history.NewStore()
	}
	if opts.Events == nil {
		opts.Events = hub.New[Event](hub.DefaultBuffer)
	}
	if opts.TranscribeTimeout <= 0 {
		opts.TranscribeTimeout = defaultTranscribeTimeout
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaultDrainTimeout
	}

	return &Orchestrator{
		logger:            opts.Logger,
		capture:           opts.Capture,
		asr:               opts.Transcriber,
		filter:            opts.Filter,
		typer:             opts.Typer,
		gate:              opts.Gate,
		history:           opts.History,
		events:            opts.Events,
		transcribeTimeout: opts.TranscribeTimeout,
		drainTimeout:      opts.DrainTimeout,
		state:             fsm.StateIdle,
	}
}

// Events returns the lifecycle notification hub.
func (o *Orchestrator) Events() *hub.Hub[Event] {
	return o.events
}

// State returns the current session state snapshot.
func (o *Orchestrator) State() fsm.State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// IsRecording reports whether audio capture is active.
func (o *Orchestrator) IsRecording() bool {
	return o.State() == fsm.StateRecording
}

// IsTranscribing reports whether a stop has been issued and its transcription
// is still in flight.
func (o *Orchestrator) IsTranscribing() bool {
	return o.State() == fsm.StateTranscribing
}

// RecordingDuration reports elapsed time since the active session started, or
// zero when idle.
func (o *Orchestrator) RecordingDuration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.state == fsm.StateIdle || o.startedAt.IsZero() {
		return 0
	}
	return time.Since(o.startedAt)
}

// LastTranscript returns the stored history entry without consuming it.
func (o *Orchestrator) LastTranscript() (history.Entry, bool) {
	return o.history.Last()
}

// Start begins a new recording session. It returns ErrCommandInFlight when
// another command is mid-processing, ErrAlreadyActive outside idle, and
// ErrMuteGateBusy while a competing voice channel holds the mute gate.
func (o *Orchestrator) Start(ctx context.Context, cmd TriggerCommand) error {
	if !o.cmdMu.TryLock() {
		return ErrCommandInFlight
	}
	defer o.cmdMu.Unlock()
	return o.start(ctx, cmd)
}

// Stop ends the active recording and hands the captured audio to the
// transcription pipeline in the background.
func (o *Orchestrator) Stop(ctx context.Context, cmd TriggerCommand) error {
	if !o.cmdMu.TryLock() {
		return ErrCommandInFlight
	}
	defer o.cmdMu.Unlock()
	return o.stop(ctx, cmd)
}

// Toggle reduces to Start when idle and Stop when recording. A toggle during
// transcription is a no-op: the pipeline is mid-flight and not cancellable by
// a new trigger.
func (o *Orchestrator) Toggle(ctx context.Context, cmd TriggerCommand) error {
	if !o.cmdMu.TryLock() {
		return ErrCommandInFlight
	}
	defer o.cmdMu.Unlock()

	switch o.State() {
	case fsm.StateIdle:
		return o.start(ctx, cmd)
	case fsm.StateRecording:
		return o.stop(ctx, cmd)
	default:
		return ErrAlreadyActive
	}
}

// Repeat types the last completed transcription again without consuming it.
func (o *Orchestrator) Repeat(ctx context.Context) error {
	entry, ok := o.history.Last()
	if !ok {
		return ErrNoHistory
	}
	if err := o.typer.Type(ctx, entry.Text); err != nil {
		return fmt.Errorf("type repeated transcript: %w", err)
	}
	return nil
}

// Close shuts the orchestrator down. An in-flight recording is forced through
// stop-and-process so captured audio is never abandoned; an in-flight
// transcription is allowed to complete within the drain timeout.
func (o *Orchestrator) Close(ctx context.Context) error {
	// Shutdown blocks on the command lock instead of rejecting: it must win.
	o.cmdMu.Lock()
	if o.State() == fsm.StateRecording {
		if err := o.stop(ctx, NewCommand(CommandStop, SourceRemote)); err != nil {
			o.logger.Error("forced stop on shutdown failed", "error", err.Error())
		}
	}
	o.cmdMu.Unlock()

	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()

	timer := time.NewTimer(o.drainTimeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrDrainTimeout
	}
}

// start runs the idle -> recording transition. Callers hold cmdMu.
func (o *Orchestrator) start(ctx context.Context, cmd TriggerCommand) error {
	if o.State() != fsm.StateIdle {
		return ErrAlreadyActive
	}
	if o.gate.Held() {
		return ErrMuteGateBusy
	}

	if err := o.transition(fsm.EventStart); err != nil {
		return err
	}
	if err := o.capture.Start(ctx); err != nil {
		o.forceIdle()
		return fmt.Errorf("start audio capture: %w", err)
	}

	o.mu.Lock()
	o.startedAt = time.Now()
	o.mu.Unlock()

	o.publish(Event{Type: EventRecordingStarted, Source: cmd.Source, RequestID: cmd.RequestID})
	o.logger.Info("recording started", "source", cmd.Source, "request_id", cmd.RequestID.String())
	return nil
}

// stop runs the recording -> transcribing transition. Callers hold cmdMu.
func (o *Orchestrator) stop(ctx context.Context, cmd TriggerCommand) error {
	if o.State() != fsm.StateRecording {
		return ErrAlreadyActive
	}

	if err := o.transition(fsm.EventStop); err != nil {
		return err
	}

	// Stopped is published before the transcription task exists so listeners
	// get processing feedback independent of ASR latency.
	o.publish(Event{Type: EventRecordingStopped, Source: cmd.Source, RequestID: cmd.RequestID})

	buffer, err := o.capture.Stop(ctx)
	if err != nil {
		o.finishFailure(cmd, fmt.Errorf("stop audio capture: %w", err))
		return fmt.Errorf("stop audio capture: %w", err)
	}

	o.logger.Info("recording stopped",
		"source", cmd.Source,
		"bytes_captured", len(buffer.PCM),
		"device", buffer.Device,
	)

	o.inflight.Add(1)
	go o.transcribe(buffer, cmd)
	return nil
}

// transcribe runs ASR, filtering, history, and typing for one stopped session.
func (o *Orchestrator) transcribe(buffer AudioBuffer, cmd TriggerCommand) {
	defer o.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), o.transcribeTimeout)
	defer cancel()

	text, err := o.asr.Transcribe(ctx, buffer)
	if err != nil {
		o.finishFailure(cmd, fmt.Errorf("transcribe: %w", err))
		return
	}
	if strings.TrimSpace(text) == "" {
		o.finishFailure(cmd, ErrEmptyTranscript)
		return
	}

	filtered := o.filter.Apply(text)
	o.history.Put(filtered, time.Now())

	if err := o.typer.Type(ctx, filtered); err != nil {
		// The transcript survives in history, so a failed injection is a
		// warning and the session still completes.
		o.logger.Warn("typing transcript failed; text kept in history", "error", err.Error())
	}

	o.finishSuccess(cmd, filtered)
}

func (o *Orchestrator) finishSuccess(cmd TriggerCommand, text string) {
	if err := o.transition(fsm.EventTranscribed); err != nil {
		o.logger.Error("completion transition failed", "error", err.Error())
		o.forceIdle()
	}
	o.clearStartedAt()
	o.publish(Event{
		Type:      EventTranscriptionCompleted,
		Text:      text,
		Source:    cmd.Source,
		RequestID: cmd.RequestID,
	})
	o.logger.Info("transcription completed", "source", cmd.Source, "transcript_length", len(text))
}

func (o *Orchestrator) finishFailure(cmd TriggerCommand, cause error) {
	o.forceIdle()
	o.clearStartedAt()
	o.publish(Event{
		Type:      EventTranscriptionFailed,
		Error:     cause.Error(),
		Source:    cmd.Source,
		RequestID: cmd.RequestID,
	})
	o.logger.Error("session failed", "source", cmd.Source, "error", cause.Error())
}

// transition applies one FSM event to the session state.
func (o *Orchestrator) transition(event fsm.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	next, err := fsm.Transition(o.state, event)
	if err != nil {
		return err
	}
	o.state = next
	return nil
}

// forceIdle drives the machine back to idle unconditionally.
func (o *Orchestrator) forceIdle() {
	_ = o.transition(fsm.EventFail)
}

func (o *Orchestrator) clearStartedAt() {
	o.mu.Lock()
	o.startedAt = time.Time{}
	o.mu.Unlock()
}

func (o *Orchestrator) publish(event Event) {
	event.At = time.Now()
	o.events.Publish(event)
}

// placeholderCapture is the no-op capture used in tests/fallback wiring.
type placeholderCapture struct{}

func (placeholderCapture) Start(context.Context) error {
	return nil
}

func (placeholderCapture) Stop(context.Context) (AudioBuffer, error) {
	return AudioBuffer{}, nil
}

// placeholderTranscriber fails every request until real wiring is provided.
type placeholderTranscriber struct{}

func (placeholderTranscriber) Transcribe(context.Context, AudioBuffer) (string, error) {
	return "", ErrPipelineUnavailable
}
