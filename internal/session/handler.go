package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parla/internal/fsm"
	"parla/internal/ipc"
)

// Handle routes one remote-control request onto the orchestrator. It is the
// daemon-side ipc.Handler.
func (o *Orchestrator) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	cmd := remoteCommand(req)

	switch req.Command {
	case "status":
		return o.statusResponse("")
	case "start":
		cmd.Kind = CommandStart
		return o.respond(o.Start(ctx, cmd))
	case "stop":
		cmd.Kind = CommandStop
		return o.respond(o.Stop(ctx, cmd))
	case "toggle":
		cmd.Kind = CommandToggle
		return o.respond(o.Toggle(ctx, cmd))
	case "repeat":
		return o.respond(o.Repeat(ctx))
	case "history":
		entry, ok := o.LastTranscript()
		if !ok {
			return ipc.Response{Error: ErrNoHistory.Error()}
		}
		return ipc.Response{
			OK:      true,
			State:   string(o.State()),
			Message: fmt.Sprintf("%s\t%s", entry.At.Format(time.RFC3339), entry.Text),
		}
	default:
		return ipc.Response{Error: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

func (o *Orchestrator) respond(err error) ipc.Response {
	if err == nil {
		return o.statusResponse(o.statusMessage())
	}
	return ipc.Response{State: string(o.State()), Error: err.Error()}
}

func (o *Orchestrator) statusResponse(message string) ipc.Response {
	return ipc.Response{
		OK:      true,
		State:   string(o.State()),
		Message: message,
	}
}

func (o *Orchestrator) statusMessage() string {
	switch o.State() {
	case fsm.StateRecording:
		return fmt.Sprintf("recording for %s", o.RecordingDuration().Round(time.Millisecond))
	case fsm.StateTranscribing:
		return "transcribing"
	default:
		return ""
	}
}

// remoteCommand tags a socket request as a remote-source trigger, reusing the
// request's correlation ID when it parses as a UUID.
func remoteCommand(req ipc.Request) TriggerCommand {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		id = uuid.New()
	}
	return TriggerCommand{Source: SourceRemote, RequestID: id}
}
