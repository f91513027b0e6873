package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"parla/internal/session"
)

const (
	sampleRateHz = 16000
	// 20ms @ 16kHz mono s16.
	fragmentSizeBytes = 640
)

// Recorder implements session capture over a resolved Pulse source. Start
// opens a fresh record stream each session; Stop returns everything captured.
type Recorder struct {
	logger   *slog.Logger
	input    string
	fallback string

	mu     sync.Mutex
	active *capture
}

// NewRecorder builds a recorder for the configured input/fallback preferences.
func NewRecorder(logger *slog.Logger, input, fallback string) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	return &Recorder{logger: logger, input: input, fallback: fallback}
}

// Start resolves the capture device and opens a 16kHz mono s16 record stream.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return errors.New("capture stream already open")
	}

	selection, err := SelectDevice(ctx, r.input, r.fallback)
	if err != nil {
		return err
	}
	if selection.Warning != "" {
		r.logger.Warn("audio device fallback", "warning", selection.Warning)
	}

	active, err := openCapture(selection.Device)
	if err != nil {
		return err
	}
	r.active = active

	r.logger.Info("capture stream opened", "device", selection.Device.ID)
	return nil
}

// Stop closes the stream and returns the captured buffer.
func (r *Recorder) Stop(_ context.Context) (session.AudioBuffer, error) {
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()

	if active == nil {
		return session.AudioBuffer{}, errors.New("no capture stream open")
	}

	pcm := active.stop()
	return session.AudioBuffer{
		PCM:        pcm,
		SampleRate: sampleRateHz,
		Channels:   1,
		Device:     active.device.ID,
	}, nil
}

// capture accumulates raw PCM from one Pulse record stream.
type capture struct {
	device Device
	client *pulse.Client
	stream *pulse.RecordStream

	mu      sync.Mutex
	pcm     []byte
	stopped bool

	bytes atomic.Int64
}

func openCapture(device Device) (*capture, error) {
	client, err := newPulseClient()
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	source, err := client.SourceByID(device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", device.ID, err)
	}

	c := &capture{device: device, client: client}

	writer := pulse.NewWriter(writerFunc(c.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(sampleRateHz),
		pulse.RecordBufferFragmentSize(fragmentSizeBytes),
		pulse.RecordMediaName("parla dictation"),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	c.stream = stream
	stream.Start()
	return c, nil
}

// stop halts the stream exactly once and returns the accumulated PCM.
func (c *capture) stop() []byte {
	c.mu.Lock()
	if c.stopped {
		pcm := append([]byte(nil), c.pcm...)
		c.mu.Unlock()
		return pcm
	}
	c.stopped = true
	c.mu.Unlock()

	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
	}
	if c.client != nil {
		c.client.Close()
	}

	c.mu.Lock()
	pcm := append([]byte(nil), c.pcm...)
	c.mu.Unlock()
	return pcm
}

// onPCM receives raw Pulse frames until the stream is stopped.
func (c *capture) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return 0, io.EOF
	}
	c.pcm = append(c.pcm, buffer...)
	c.mu.Unlock()

	c.bytes.Add(int64(len(buffer)))
	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
