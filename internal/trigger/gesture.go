package trigger

import (
	"context"
	"io"
	"log/slog"

	"parla/internal/gesture"
	"parla/internal/hub"
	"parla/internal/session"
)

// GestureToggle listens for confirmed gesture events and flips the session
// when the configured toggle gesture fires.
type GestureToggle struct {
	events  *hub.Hub[gesture.Event]
	toggle  gesture.Gesture
	session Session
	logger  *slog.Logger
}

// NewGestureToggle builds the gesture trigger source.
func NewGestureToggle(logger *slog.Logger, events *hub.Hub[gesture.Event], toggle gesture.Gesture, sess Session) *GestureToggle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &GestureToggle{events: events, toggle: toggle, session: sess, logger: logger}
}

// Run consumes gesture events until ctx is done. Only confirmed events of the
// configured gesture reach the session; everything else is feedback-only.
func (g *GestureToggle) Run(ctx context.Context) error {
	events, cancel := g.events.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !event.Confirmed || event.Gesture != g.toggle {
				continue
			}
			cmd := session.NewCommand(session.CommandToggle, session.SourceGesture)
			if err := g.session.Toggle(ctx, cmd); err != nil {
				g.logger.Debug("gesture trigger dropped", "gesture", event.Gesture, "reason", err.Error())
				continue
			}
			g.logger.Info("gesture toggled session", "gesture", event.Gesture, "confidence", event.Confidence)
		}
	}
}
