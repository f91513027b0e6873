package session

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyActive indicates a command that does not apply to the current
	// state; the command is rejected and state is unchanged.
	ErrAlreadyActive = errors.New("session is already in the requested state")
	// ErrCommandInFlight indicates another trigger command is being processed
	// right now; triggers are edge events and are never queued.
	ErrCommandInFlight = errors.New("another command is being processed")
	// ErrMuteGateBusy indicates recording was refused because a competing
	// voice channel holds the mute gate.
	ErrMuteGateBusy = errors.New("mute gate is held by another voice channel")
	// ErrEmptyTranscript indicates stop completed but no usable speech was
	// recognized.
	ErrEmptyTranscript = errors.New("no speech recognized; check microphone input or mute state")
	// ErrNoHistory indicates repeat was requested before any transcription
	// completed.
	ErrNoHistory = errors.New("no completed transcription to repeat")
	// ErrDrainTimeout indicates shutdown gave up waiting for an in-flight
	// transcription.
	ErrDrainTimeout = errors.New("timed out waiting for in-flight transcription")
)

// AudioBuffer is the captured PCM handed to the transcriber.
type AudioBuffer struct {
	PCM        []byte
	SampleRate int
	Channels   int
	Device     string
}

// AudioCapture abstracts microphone capture. Start opens the stream; Stop
// closes it and returns everything captured since Start.
type AudioCapture interface {
	Start(context.Context) error
	Stop(context.Context) (AudioBuffer, error)
}

// Transcriber converts one captured buffer to text.
type Transcriber interface {
	Transcribe(context.Context, AudioBuffer) (string, error)
}

// TextFilter post-processes a raw transcript. Implementations are
// deterministic and pure.
type TextFilter interface {
	Apply(text string) string
}

// Typer injects text into the focused window.
type Typer interface {
	Type(context.Context, string) error
}

// TyperFunc adapts a function to the Typer interface.
type TyperFunc func(context.Context, string) error

func (f TyperFunc) Type(ctx context.Context, text string) error {
	return f(ctx, text)
}

// noopFilter preserves orchestration flow when no filter is wired.
type noopFilter struct{}

func (noopFilter) Apply(text string) string { return text }

// noopTyper preserves orchestration flow when no typer is wired.
type noopTyper struct{}

func (noopTyper) Type(context.Context, string) error { return nil }
