package session

import "github.com/google/uuid"

// Source identifies the originator of a trigger command.
type Source string

const (
	SourceKeyboard Source = "keyboard"
	SourceRemote   Source = "remote"
	SourceGesture  Source = "gesture"
)

// CommandKind is the requested session transition.
type CommandKind string

const (
	CommandStart  CommandKind = "start"
	CommandStop   CommandKind = "stop"
	CommandToggle CommandKind = "toggle"
)

// TriggerCommand is one edge-triggered command from a trigger source. Commands
// are ephemeral: a rejected command is dropped, never queued for replay.
type TriggerCommand struct {
	Kind      CommandKind
	Source    Source
	RequestID uuid.UUID
}

// NewCommand builds a command with a fresh request ID.
func NewCommand(kind CommandKind, source Source) TriggerCommand {
	return TriggerCommand{Kind: kind, Source: source, RequestID: uuid.New()}
}
