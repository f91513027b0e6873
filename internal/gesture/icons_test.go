package gesture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIconTableIsTotal(t *testing.T) {
	table := DefaultIconTable()

	for _, g := range classifiableGestures {
		for _, confirmed := range []bool{false, true} {
			for _, left := range []bool{false, true} {
				icon := table.IconFor(Event{Gesture: g, Confirmed: confirmed, LeftHand: left})
				require.NotEmpty(t, icon, "gesture=%s confirmed=%t left=%t", g, confirmed, left)
			}
		}
	}
}

func TestDefaultIconTableVariantsAreDistinct(t *testing.T) {
	table := DefaultIconTable()

	pending := table.IconFor(Event{Gesture: GestureFist})
	confirmed := table.IconFor(Event{Gesture: GestureFist, Confirmed: true})
	left := table.IconFor(Event{Gesture: GestureFist, LeftHand: true})

	require.NotEqual(t, pending, confirmed)
	require.NotEqual(t, pending, left)
}

func TestNewIconTableRejectsIncompleteMapping(t *testing.T) {
	icons := map[IconKey]string{
		{Gesture: GestureFist, Confirmed: false, LeftHand: false}: "hand-fist",
	}
	_, err := NewIconTable(icons)
	require.Error(t, err)
	require.Contains(t, err.Error(), "icon table is missing")
}

func TestIconForNoneIsEmpty(t *testing.T) {
	table := DefaultIconTable()
	require.Empty(t, table.IconFor(Event{Gesture: GestureNone}))
}
