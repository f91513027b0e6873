package trigger

import (
	"context"
	"io"
	"log/slog"

	"parla/internal/session"
)

// Mode selects how the hotkey drives the session.
type Mode string

const (
	// ModePTT records while the key is held.
	ModePTT Mode = "ptt"
	// ModeToggle flips the session on each press.
	ModeToggle Mode = "toggle"
)

// Keyboard forwards hotkey edges to the session as keyboard-source commands.
type Keyboard struct {
	hk      Hotkey
	mode    Mode
	session Session
	logger  *slog.Logger
}

// NewKeyboard builds the keyboard trigger source.
func NewKeyboard(logger *slog.Logger, hk Hotkey, mode Mode, sess Session) *Keyboard {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &Keyboard{hk: hk, mode: mode, session: sess, logger: logger}
}

// Run registers the hotkey and pumps key edges until ctx is done. Rejected
// commands are logged and dropped; triggers never queue.
func (k *Keyboard) Run(ctx context.Context) error {
	if err := k.hk.Register(); err != nil {
		return err
	}
	defer k.hk.Unregister()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-k.hk.Keydown():
			if k.mode == ModeToggle {
				k.dispatch(ctx, "toggle", k.session.Toggle)
			} else {
				k.dispatch(ctx, "start", k.session.Start)
			}
		case <-k.hk.Keyup():
			if k.mode == ModePTT {
				k.dispatch(ctx, "stop", k.session.Stop)
			}
		}
	}
}

func (k *Keyboard) dispatch(ctx context.Context, name string, op func(context.Context, session.TriggerCommand) error) {
	cmd := session.NewCommand(session.CommandKind(name), session.SourceKeyboard)
	if err := op(ctx, cmd); err != nil {
		k.logger.Debug("keyboard trigger dropped", "command", name, "reason", err.Error())
	}
}
