package gesture

import "math"

const (
	// defaultPinchDistance is the max normalized thumb-tip to index-tip
	// distance still read as an OK pinch.
	defaultPinchDistance = 0.07
	// defaultThumbSpread is the min horizontal thumb-tip to thumb-IP distance
	// for the thumb to count as extended. The thumb joints are nearly
	// colinear, so the vertical test used for the other fingers does not work.
	defaultThumbSpread = 0.04
)

// Classifier maps one hand frame to a gesture label. It is pure: no state is
// carried between frames.
type Classifier struct {
	pinchDistance float64
	thumbSpread   float64
}

// NewClassifier returns a classifier with default thresholds.
func NewClassifier() Classifier {
	return Classifier{
		pinchDistance: defaultPinchDistance,
		thumbSpread:   defaultThumbSpread,
	}
}

// Classify labels a single frame. The OK pinch check runs before the
// count-based dispatch because it is the more specific rule: a pinch can
// present with any extended-finger count.
func (c Classifier) Classify(frame Frame) Sample {
	sample := Sample{
		Confidence:      frame.Score,
		LeftHand:        frame.LeftHand,
		ExtendedFingers: c.extendedFingers(frame),
		At:              frame.At,
	}

	if c.isPinch(frame) {
		sample.Gesture = GestureOk
		return sample
	}

	switch sample.ExtendedFingers {
	case 0:
		sample.Gesture = GestureFist
	case 1:
		sample.Gesture = GesturePointingUp
	case 2:
		sample.Gesture = GestureVictory
	case 5:
		sample.Gesture = GestureOpenPalm
	default:
		// 3 and 4 extended fingers are ambiguous poses, deliberately unlabeled.
		sample.Gesture = GestureNone
	}
	return sample
}

func (c Classifier) isPinch(frame Frame) bool {
	thumb := frame.Landmarks[landmarkThumbTip]
	index := frame.Landmarks[landmarkIndexTip]
	return math.Hypot(thumb.X-index.X, thumb.Y-index.Y) < c.pinchDistance
}

func (c Classifier) extendedFingers(frame Frame) int {
	count := 0
	if c.thumbExtended(frame) {
		count++
	}

	pairs := [4][2]int{
		{landmarkIndexTip, landmarkIndexPIP},
		{landmarkMiddleTip, landmarkMiddlePIP},
		{landmarkRingTip, landmarkRingPIP},
		{landmarkPinkyTip, landmarkPinkyPIP},
	}
	for _, pair := range pairs {
		if fingerExtended(frame.Landmarks[pair[0]], frame.Landmarks[pair[1]]) {
			count++
		}
	}
	return count
}

// fingerExtended reports whether a finger tip sits above its proximal joint.
// Above means numerically smaller Y in top-left-origin image coordinates.
func fingerExtended(tip, pip Point) bool {
	return tip.Y < pip.Y
}

func (c Classifier) thumbExtended(frame Frame) bool {
	tip := frame.Landmarks[landmarkThumbTip]
	ip := frame.Landmarks[landmarkThumbIP]
	return math.Abs(tip.X-ip.X) > c.thumbSpread
}
