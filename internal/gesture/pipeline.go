package gesture

import (
	"context"
	"io"
	"log/slog"
	"time"

	"parla/internal/hub"
)

const (
	// defaultFrameWait bounds each NextFrame call so the loop re-polls instead
	// of blocking indefinitely on a stalled camera.
	defaultFrameWait = 200 * time.Millisecond
	// defaultErrorBackoff is the pause after a frame error before resuming.
	defaultErrorBackoff = time.Second
)

// Pipeline runs the camera-facing loop: poll frames, classify, stabilize, and
// publish the resulting events. Frame errors
// are logged and backed off; they never terminate the loop.
type Pipeline struct {
	source     HandPoseSource
	classifier Classifier
	stabilizer *Stabilizer
	events     *hub.Hub[Event]
	logger     *slog.Logger

	frameWait    time.Duration
	errorBackoff time.Duration
}

// NewPipeline wires a pipeline; events are published to the given hub.
func NewPipeline(
	source HandPoseSource,
	stabilizer *Stabilizer,
	events *hub.Hub[Event],
	logger *slog.Logger,
) *Pipeline {
	if stabilizer == nil {
		stabilizer = NewStabilizer(StabilizerConfig{})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &Pipeline{
		source:       source,
		classifier:   NewClassifier(),
		stabilizer:   stabilizer,
		events:       events,
		logger:       logger,
		frameWait:    defaultFrameWait,
		errorBackoff: defaultErrorBackoff,
	}
}

// Run polls frames until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, ok, err := p.source.NextFrame(ctx, p.frameWait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("gesture frame read failed", "error", err.Error())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.errorBackoff):
			}
			continue
		}

		if !ok {
			// No hand in the window: drop the debounce state immediately.
			p.stabilizer.Reset()
			continue
		}

		sample := p.classifier.Classify(frame)
		for _, event := range p.stabilizer.Observe(sample) {
			p.events.Publish(event)
			if event.Confirmed {
				p.logger.Info("gesture confirmed",
					"gesture", event.Gesture,
					"left_hand", event.LeftHand,
					"confidence", event.Confidence,
				)
			}
		}
	}
}
