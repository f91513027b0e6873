package mutegate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// File is a cross-process gate backed by an advisory flock on a lock file.
// An external voice process (for example a TTS player) holds the gate by
// taking the same flock on the same path from its own process.
type File struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// DefaultLockPath resolves the runtime mute-lock location, preferring
// XDG_RUNTIME_DIR and falling back to the system temp directory.
func DefaultLockPath() string {
	if runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); runtimeDir != "" {
		return filepath.Join(runtimeDir, "parla-mute.lock")
	}
	return filepath.Join(os.TempDir(), "parla-mute.lock")
}

// NewFile returns a file-backed gate at path. An empty path uses DefaultLockPath.
func NewFile(path string) *File {
	if strings.TrimSpace(path) == "" {
		path = DefaultLockPath()
	}
	return &File{path: path}
}

// Path returns the lock file location.
func (g *File) Path() string {
	return g.path
}

// Acquire takes the flock non-blocking. ErrHeld means another actor holds it.
func (g *File) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.f != nil {
		return ErrHeld
	}

	f, err := os.OpenFile(g.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open mute lock %q: %w", g.path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrHeld
		}
		return fmt.Errorf("flock mute lock %q: %w", g.path, err)
	}

	g.f = f
	return nil
}

// Release drops the flock held by this process. Releasing an unheld gate is a no-op.
func (g *File) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.f == nil {
		return nil
	}
	if err := unix.Flock(int(g.f.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("unlock mute lock %q: %w", g.path, err)
	}
	err := g.f.Close()
	g.f = nil
	return err
}

// Held reports whether this process or any other currently holds the gate.
// For foreign holders it probes with a non-blocking flock and releases
// immediately on success.
func (g *File) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.f != nil {
		return true
	}

	f, err := os.OpenFile(g.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		// Unreadable lock path is treated as held so recording never starts
		// past a gate we cannot inspect.
		return true
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return true
	}
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return false
}
