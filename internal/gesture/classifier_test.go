package gesture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fingers selects which digits a test frame extends.
type fingers struct {
	thumb, index, middle, ring, pinky bool
}

// testFrame builds a synthetic hand in normalized top-left-origin coordinates.
// Proximal joints sit at y=0.5; an extended fingertip sits above them at
// y=0.3, a curled one below at y=0.7. The thumb extends horizontally.
func testFrame(f fingers) Frame {
	var frame Frame
	for i := range frame.Landmarks {
		frame.Landmarks[i] = Point{X: 0.5, Y: 0.5}
	}
	frame.Score = 0.9

	tipY := func(extended bool) float64 {
		if extended {
			return 0.3
		}
		return 0.7
	}

	frame.Landmarks[landmarkIndexTip] = Point{X: 0.30, Y: tipY(f.index)}
	frame.Landmarks[landmarkMiddleTip] = Point{X: 0.40, Y: tipY(f.middle)}
	frame.Landmarks[landmarkRingTip] = Point{X: 0.60, Y: tipY(f.ring)}
	frame.Landmarks[landmarkPinkyTip] = Point{X: 0.70, Y: tipY(f.pinky)}

	thumbX := 0.52
	if f.thumb {
		thumbX = 0.62
	}
	frame.Landmarks[landmarkThumbTip] = Point{X: thumbX, Y: 0.5}
	frame.Landmarks[landmarkThumbIP] = Point{X: 0.5, Y: 0.5}

	return frame
}

func TestClassifyByExtendedFingerCount(t *testing.T) {
	tests := []struct {
		name    string
		fingers fingers
		count   int
		want    Gesture
	}{
		{name: "fist", fingers: fingers{}, count: 0, want: GestureFist},
		{name: "pointing up", fingers: fingers{index: true}, count: 1, want: GesturePointingUp},
		{name: "victory", fingers: fingers{index: true, middle: true}, count: 2, want: GestureVictory},
		{name: "open palm", fingers: fingers{thumb: true, index: true, middle: true, ring: true, pinky: true}, count: 5, want: GestureOpenPalm},
		{name: "three fingers ambiguous", fingers: fingers{index: true, middle: true, ring: true}, count: 3, want: GestureNone},
		{name: "four fingers ambiguous", fingers: fingers{index: true, middle: true, ring: true, pinky: true}, count: 4, want: GestureNone},
	}

	c := NewClassifier()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sample := c.Classify(testFrame(tc.fingers))
			require.Equal(t, tc.want, sample.Gesture)
			require.Equal(t, tc.count, sample.ExtendedFingers)
			require.InDelta(t, 0.9, sample.Confidence, 1e-9)
		})
	}
}

func TestClassifyPinchWinsOverFingerCount(t *testing.T) {
	// An open-palm pose whose thumb tip touches the index tip must classify
	// as OK: the pinch rule is more specific than count dispatch.
	frame := testFrame(fingers{thumb: true, index: true, middle: true, ring: true, pinky: true})
	frame.Landmarks[landmarkThumbTip] = Point{X: 0.31, Y: 0.31}
	frame.Landmarks[landmarkIndexTip] = Point{X: 0.30, Y: 0.30}

	sample := NewClassifier().Classify(frame)
	require.Equal(t, GestureOk, sample.Gesture)
}

func TestClassifyPreservesHandedness(t *testing.T) {
	frame := testFrame(fingers{})
	frame.LeftHand = true
	sample := NewClassifier().Classify(frame)
	require.True(t, sample.LeftHand)
}

func TestThumbUsesHorizontalTest(t *testing.T) {
	// A thumb tip level with its IP joint vertically but spread horizontally
	// still counts as extended.
	frame := testFrame(fingers{thumb: true})
	require.Equal(t, 1, NewClassifier().extendedFingers(frame))
	require.Equal(t, GesturePointingUp, NewClassifier().Classify(frame).Gesture)
}
