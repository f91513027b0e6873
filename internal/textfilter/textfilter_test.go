package textfilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyCollapsesWhitespace(t *testing.T) {
	filter := New(Options{})
	require.Equal(t, "one two three", filter.Apply("  one \t two\n three  "))
}

func TestApplyEmptyInput(t *testing.T) {
	filter := New(Options{TrailingSpace: true, CapitalizeSentences: true})
	require.Equal(t, "", filter.Apply(""))
	require.Equal(t, "", filter.Apply("   \n\t  "))
}

func TestApplyTrailingSpace(t *testing.T) {
	filter := New(Options{TrailingSpace: true})
	require.Equal(t, "ready to dictate ", filter.Apply("ready to dictate"))
}

func TestCapitalizeSentences(t *testing.T) {
	filter := New(Options{CapitalizeSentences: true})

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"first word", "hello there", "Hello there"},
		{"after period", "first point. second point", "First point. Second point"},
		{"after question", "ready? yes we are", "Ready? Yes we are"},
		{"after exclamation", "stop! wait a moment", "Stop! Wait a moment"},
		{"abbreviation preserved", "use wtype e.g. on wayland", "Use wtype e.g. on wayland"},
		{"honorific preserved", "ask dr. smith about it", "Ask dr. smith about it"},
		{"decimal preserved", "version 2.5 shipped. next is 3.0", "Version 2.5 shipped. Next is 3.0"},
		{"domain preserved", "visit example.com for details", "Visit example.com for details"},
		{"digit start ends capitalization", "3 items remain. done", "3 items remain. Done"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, filter.Apply(tc.in))
		})
	}
}

func TestPronounICapitalization(t *testing.T) {
	filter := New(Options{CapitalizeSentences: true})

	require.Equal(t, "Yes I think so", filter.Apply("yes i think so"))
	require.Equal(t, "I'm sure I'll go", capitalizeSentences("i'm sure i'll go"))
	require.Equal(t, "Sounds good, I'd say", filter.Apply("sounds good, i'd say"))
}

func TestPronounISkipsInitialisms(t *testing.T) {
	require.Equal(t, "see i.e. above", capitalizeStandalonePronounI("see i.e. above"))
}

func TestApplyIsPure(t *testing.T) {
	filter := New(Options{CapitalizeSentences: true, TrailingSpace: true})
	first := filter.Apply("same  input. twice")
	second := filter.Apply("same  input. twice")
	require.Equal(t, first, second)
	require.Equal(t, "Same input. Twice ", first)
}
