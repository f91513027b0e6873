// Package ipc implements the unix-socket remote control surface of the daemon.
package ipc

import "github.com/google/uuid"

// Request is one remote trigger command. The ID lets the daemon correlate a
// command with the session events it caused.
type Request struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
}

// NewRequest builds a request with a fresh correlation ID.
func NewRequest(command string) Request {
	return Request{ID: uuid.NewString(), Command: command}
}

// Response is the daemon's reply to one request.
type Response struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id,omitempty"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
