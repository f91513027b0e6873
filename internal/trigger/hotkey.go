// Package trigger turns hotkey presses and confirmed hand gestures into
// session commands.
package trigger

import (
	"context"

	"parla/internal/session"
)

// Hotkey is a registered global key combination delivering edge events.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Session is the command surface triggers drive.
type Session interface {
	Start(context.Context, session.TriggerCommand) error
	Stop(context.Context, session.TriggerCommand) error
	Toggle(context.Context, session.TriggerCommand) error
}
