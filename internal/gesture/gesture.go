// Package gesture turns noisy per-frame hand-pose estimates into discrete,
// debounced gesture events.
package gesture

import (
	"context"
	"time"
)

// Gesture is a discrete hand-pose label.
type Gesture string

const (
	GestureNone       Gesture = "none"
	GestureFist       Gesture = "fist"
	GesturePointingUp Gesture = "pointing_up"
	GestureVictory    Gesture = "victory"
	GestureOpenPalm   Gesture = "open_palm"
	GestureOk         Gesture = "ok"
)

// LandmarkCount is the number of hand landmarks per frame.
const LandmarkCount = 21

// Landmark indices for the subset of the 21-point hand model the classifier
// reads. Coordinates are normalized image coordinates with a top-left origin,
// so smaller Y means higher in the frame.
const (
	landmarkWrist     = 0
	landmarkThumbIP   = 3
	landmarkThumbTip  = 4
	landmarkIndexPIP  = 6
	landmarkIndexTip  = 8
	landmarkMiddlePIP = 10
	landmarkMiddleTip = 12
	landmarkRingPIP   = 14
	landmarkRingTip   = 16
	landmarkPinkyPIP  = 18
	landmarkPinkyTip  = 20
)

// Point is one normalized landmark coordinate.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Frame is one detected hand as produced by the external pose estimator.
type Frame struct {
	Landmarks [LandmarkCount]Point
	LeftHand  bool
	Score     float64
	At        time.Time
}

// Sample is one classified frame.
type Sample struct {
	Gesture         Gesture
	Confidence      float64
	LeftHand        bool
	ExtendedFingers int
	At              time.Time
}

// Event is a pending or confirmed gesture observation published to listeners.
type Event struct {
	Gesture    Gesture
	LeftHand   bool
	Confidence float64
	Confirmed  bool
	At         time.Time
}

// HandPoseSource produces hand frames from the external landmark engine.
// NextFrame blocks for at most timeout and returns ok=false when no hand was
// detected within the window.
type HandPoseSource interface {
	NextFrame(ctx context.Context, timeout time.Duration) (Frame, bool, error)
}
