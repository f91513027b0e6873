package indicator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"parla/internal/config"
	"parla/internal/gesture"
	"parla/internal/hub"
	"parla/internal/session"
)

const dispatchTimeout = 400 * time.Millisecond

// notifyFunc and dismissFunc are swappable for tests.
type notifyFunc func(ctx context.Context, appName string, replaceID uint32, icon, summary string, timeoutMS int) (uint32, error)

type dismissFunc func(ctx context.Context, id uint32) error

// Notifier mirrors session lifecycle and gesture feedback into a single
// replaceable desktop notification.
type Notifier struct {
	cfg     config.IndicatorConfig
	logger  *slog.Logger
	icons   gesture.IconTable
	notify  notifyFunc
	dismiss dismissFunc

	mu        sync.Mutex
	currentID uint32
}

// NewNotifier builds a notifier from indicator config.
func NewNotifier(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &Notifier{
		cfg:     cfg,
		logger:  logger,
		icons:   gesture.DefaultIconTable(),
		notify:  desktopNotify,
		dismiss: desktopDismiss,
	}
}

// Run consumes both hubs until ctx is done. A nil gesture hub disables
// gesture feedback without disabling session feedback.
func (n *Notifier) Run(ctx context.Context, sessions *hub.Hub[session.Event], gestures *hub.Hub[gesture.Event]) error {
	if !n.cfg.Enable {
		<-ctx.Done()
		return ctx.Err()
	}

	sessionEvents, cancelSessions := sessions.Subscribe()
	defer cancelSessions()

	var gestureEvents <-chan gesture.Event
	if gestures != nil {
		var cancelGestures func()
		gestureEvents, cancelGestures = gestures.Subscribe()
		defer cancelGestures()
	}

	for {
		select {
		case <-ctx.Done():
			n.dismissCurrent()
			return ctx.Err()
		case event, ok := <-sessionEvents:
			if !ok {
				return nil
			}
			n.showSession(ctx, event)
		case event, ok := <-gestureEvents:
			if !ok {
				gestureEvents = nil
				continue
			}
			n.showGesture(ctx, event)
		}
	}
}

// showSession maps one lifecycle event to notification content.
func (n *Notifier) showSession(ctx context.Context, event session.Event) {
	switch event.Type {
	case session.EventRecordingStarted:
		n.post(ctx, "audio-input-microphone", "Recording…", 0)
	case session.EventRecordingStopped:
		n.post(ctx, "system-run", "Transcribing…", 0)
	case session.EventTranscriptionCompleted:
		n.post(ctx, "emblem-ok", summarizeTranscript(event.Text), n.timeoutMS())
	case session.EventTranscriptionFailed:
		n.post(ctx, "dialog-error", event.Error, n.timeoutMS())
	}
}

// showGesture surfaces pending/confirmed gesture feedback with per-variant icons.
func (n *Notifier) showGesture(ctx context.Context, event gesture.Event) {
	icon := n.icons.IconFor(event)
	if icon == "" {
		return
	}
	text := fmt.Sprintf("Gesture: %s", event.Gesture)
	if event.Confirmed {
		text = fmt.Sprintf("Gesture confirmed: %s", event.Gesture)
	}
	n.post(ctx, icon, text, n.timeoutMS())
}

// post replaces the current notification, keeping a single surface on screen.
func (n *Notifier) post(ctx context.Context, icon, text string, timeoutMS int) {
	if text == "" {
		return
	}

	n.mu.Lock()
	replaceID := n.currentID
	n.mu.Unlock()

	postCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	id, err := n.notify(postCtx, n.appName(), replaceID, icon, text, timeoutMS)
	if err != nil {
		n.logger.Debug("indicator dispatch failed", "error", err.Error())
		return
	}

	n.mu.Lock()
	n.currentID = id
	n.mu.Unlock()
}

func (n *Notifier) dismissCurrent() {
	n.mu.Lock()
	id := n.currentID
	n.currentID = 0
	n.mu.Unlock()

	if id == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	if err := n.dismiss(ctx, id); err != nil {
		n.logger.Debug("indicator dismiss failed", "error", err.Error())
	}
}

func (n *Notifier) appName() string {
	if n.cfg.AppName != "" {
		return n.cfg.AppName
	}
	return "parla"
}

func (n *Notifier) timeoutMS() int {
	if n.cfg.TimeoutMS > 0 {
		return n.cfg.TimeoutMS
	}
	return 2000
}

// summarizeTranscript truncates long transcripts for notification display.
func summarizeTranscript(text string) string {
	const maxRunes = 120
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes-1]) + "…"
}
