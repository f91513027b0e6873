package gesture

import "fmt"

// IconKey identifies one visual feedback variant.
type IconKey struct {
	Gesture   Gesture
	Confirmed bool
	LeftHand  bool
}

// IconTable is a total mapping from (gesture, confirmed, hand) to an opaque
// icon identifier. Totality over every classifiable gesture and both flag
// combinations is checked at construction so a missing variant is a startup
// error, not a runtime lookup miss.
type IconTable struct {
	icons map[IconKey]string
}

// classifiableGestures are the labels the classifier can emit besides none.
var classifiableGestures = []Gesture{
	GestureFist,
	GesturePointingUp,
	GestureVictory,
	GestureOpenPalm,
	GestureOk,
}

// NewIconTable validates and wraps a complete icon mapping.
func NewIconTable(icons map[IconKey]string) (IconTable, error) {
	for _, g := range classifiableGestures {
		for _, confirmed := range []bool{false, true} {
			for _, left := range []bool{false, true} {
				key := IconKey{Gesture: g, Confirmed: confirmed, LeftHand: left}
				if name, ok := icons[key]; !ok || name == "" {
					return IconTable{}, fmt.Errorf(
						"icon table is missing %s confirmed=%t left=%t", g, confirmed, left)
				}
			}
		}
	}
	return IconTable{icons: icons}, nil
}

// DefaultIconTable returns the built-in freedesktop-themed mapping.
func DefaultIconTable() IconTable {
	icons := make(map[IconKey]string)
	base := map[Gesture]string{
		GestureFist:       "hand-fist",
		GesturePointingUp: "hand-point-up",
		GestureVictory:    "hand-victory",
		GestureOpenPalm:   "hand-open-palm",
		GestureOk:         "hand-ok",
	}
	for g, name := range base {
		for _, confirmed := range []bool{false, true} {
			for _, left := range []bool{false, true} {
				variant := name
				if left {
					variant += "-left"
				} else {
					variant += "-right"
				}
				if confirmed {
					variant += "-active"
				}
				icons[IconKey{Gesture: g, Confirmed: confirmed, LeftHand: left}] = variant
			}
		}
	}

	table, err := NewIconTable(icons)
	if err != nil {
		// The built-in table is generated over the same axes it is validated
		// against; failure here is a programming error.
		panic(err)
	}
	return table
}

// IconFor resolves the icon identifier for an event. Events carrying
// GestureNone resolve to the empty string.
func (t IconTable) IconFor(event Event) string {
	return t.icons[IconKey{
		Gesture:   event.Gesture,
		Confirmed: event.Confirmed,
		LeftHand:  event.LeftHand,
	}]
}
