package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcquireBindsFreshSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parla.sock")

	listener, err := Acquire(context.Background(), path, 100*time.Millisecond, 2)
	require.NoError(t, err)
	defer listener.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSocket)
}

func TestAcquireReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parla.sock")

	// A bound-then-abandoned socket file with no listener behind it.
	stale, err := net.Listen("unix", path)
	require.NoError(t, err)
	stale.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, stale.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	listener, err := Acquire(context.Background(), path, 100*time.Millisecond, 2)
	require.NoError(t, err)
	defer listener.Close()
}

func TestAcquireDetectsLiveDaemon(t *testing.T) {
	path, _ := startServer(t, HandlerFunc(func(context.Context, Request) Response {
		return Response{OK: true, State: "idle"}
	}))

	_, err := Acquire(context.Background(), path, time.Second, 1)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestRuntimeSocketPathRequiresXDGRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path, err := RuntimeSocketPath()
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/parla.sock", path)

	t.Setenv("XDG_RUNTIME_DIR", "")
	_, err = RuntimeSocketPath()
	require.Error(t, err)
}
