package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringContainsComponents(t *testing.T) {
	s := String()
	require.Contains(t, s, "parla ")
	require.Contains(t, s, "commit=")
	require.Contains(t, s, "go=go")
}
