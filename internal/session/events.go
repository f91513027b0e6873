package session

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates session lifecycle notifications.
type EventType string

const (
	EventRecordingStarted       EventType = "recording_started"
	EventRecordingStopped       EventType = "recording_stopped"
	EventTranscriptionCompleted EventType = "transcription_completed"
	EventTranscriptionFailed    EventType = "transcription_failed"
)

// Event is one immutable lifecycle notification fanned out to listeners.
// Text is set on completion, Error on failure; Source and RequestID identify
// the trigger command that drove the session.
type Event struct {
	Type      EventType
	Text      string
	Error     string
	Source    Source
	RequestID uuid.UUID
	At        time.Time
}
