// Package mutegate provides the exclusive flag that blocks recording while a
// competing voice channel (for example TTS playback) is active.
package mutegate

import (
	"errors"
	"sync"
)

// ErrHeld is returned by Acquire when another actor already holds the gate.
var ErrHeld = errors.New("mute gate is held")

// Gate is an exclusive acquire/release flag. Held reports whether any actor,
// including this process, currently holds the gate.
type Gate interface {
	Acquire() error
	Release() error
	Held() bool
}

// Memory is a process-local gate.
type Memory struct {
	mu   sync.Mutex
	held bool
}

// NewMemory returns an unheld in-process gate.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held {
		return ErrHeld
	}
	m.held = true
	return nil
}

func (m *Memory) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = false
	return nil
}

func (m *Memory) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}
