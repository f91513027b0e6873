package gesture

import "time"

const (
	// DefaultStableFrames rejects single-frame misclassifications at typical
	// camera rates (>=10 fps) without adding perceptible latency.
	DefaultStableFrames = 3
	// DefaultCooldown keeps a held gesture from re-firing every stabilization
	// window.
	DefaultCooldown = 500 * time.Millisecond
)

// StabilizerConfig tunes the debounce and cooldown policy.
type StabilizerConfig struct {
	StableFrames int
	Cooldown     time.Duration
}

func (c StabilizerConfig) withDefaults() StabilizerConfig {
	if c.StableFrames <= 0 {
		c.StableFrames = DefaultStableFrames
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	return c
}

// Stabilizer debounces per-frame gesture samples into pending and confirmed
// events. A pending event fires immediately when a new label appears and is
// feedback only; a confirmed event fires once the label has held for
// StableFrames consecutive frames and the cooldown since the previous
// confirmation has elapsed.
type Stabilizer struct {
	cfg StabilizerConfig

	last          Gesture
	consecutive   int
	lastConfirmed time.Time

	now func() time.Time
}

// NewStabilizer builds a stabilizer; zero config fields use the defaults.
func NewStabilizer(cfg StabilizerConfig) *Stabilizer {
	return &Stabilizer{
		cfg: cfg.withDefaults(),
		now: time.Now,
	}
}

// Observe consumes one classified sample and returns zero, one, or two events
// (a pending event for a label change, plus a confirmed event when the
// stability threshold is crossed outside the cooldown window).
func (s *Stabilizer) Observe(sample Sample) []Event {
	if sample.Gesture == GestureNone {
		// Absence of signal is not itself debounced.
		s.Reset()
		return nil
	}

	var events []Event

	if sample.Gesture == s.last {
		s.consecutive++
	} else {
		s.last = sample.Gesture
		s.consecutive = 1
		events = append(events, Event{
			Gesture:    sample.Gesture,
			LeftHand:   sample.LeftHand,
			Confidence: sample.Confidence,
			Confirmed:  false,
			At:         sample.At,
		})
	}

	if s.consecutive >= s.cfg.StableFrames {
		// The counter restarts either way: a held gesture must survive another
		// full stability window before the next confirmation attempt.
		s.consecutive = 0

		now := s.now()
		if now.Sub(s.lastConfirmed) > s.cfg.Cooldown {
			s.lastConfirmed = now
			events = append(events, Event{
				Gesture:    sample.Gesture,
				LeftHand:   sample.LeftHand,
				Confidence: sample.Confidence,
				Confirmed:  true,
				At:         sample.At,
			})
		}
	}

	return events
}

// Reset clears the debounce window, as on an undetected hand.
func (s *Stabilizer) Reset() {
	s.last = GestureNone
	s.consecutive = 0
}
