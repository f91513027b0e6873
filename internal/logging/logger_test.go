package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLinesUnderXDGStateHome(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	runtime, err := New()
	require.NoError(t, err)
	defer func() { _ = runtime.Close() }()

	require.Equal(t, filepath.Join(stateHome, "parla", "log.jsonl"), runtime.Path)

	runtime.Logger.Info("daemon start", "socket", "/run/parla.sock")
	require.NoError(t, runtime.Close())

	data, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "daemon start", record["msg"])
	require.Equal(t, "/run/parla.sock", record["socket"])
}

func TestResolveLogPathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Contains(t, path, filepath.Join(".local", "state", "parla"))
}
