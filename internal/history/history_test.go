package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmptyStoreHasNoEntry(t *testing.T) {
	s := NewStore()
	_, ok := s.Last()
	require.False(t, ok)
}

func TestPutOverwritesPreviousEntry(t *testing.T) {
	s := NewStore()
	first := time.Now()
	second := first.Add(time.Second)

	s.Put("first take", first)
	s.Put("second take", second)

	entry, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, "second take", entry.Text)
	require.Equal(t, second, entry.At)
}

func TestLastDoesNotConsume(t *testing.T) {
	s := NewStore()
	s.Put("hello", time.Now())

	for i := 0; i < 3; i++ {
		entry, ok := s.Last()
		require.True(t, ok)
		require.Equal(t, "hello", entry.Text)
	}
}
