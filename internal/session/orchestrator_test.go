package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parla/internal/fsm"
	"parla/internal/ipc"
	"parla/internal/mutegate"
)

type fakeCapture struct {
	startCalls atomic.Int64
	stopCalls  atomic.Int64
	startErr   error
	stopErr    error
	buffer     AudioBuffer
}

func (c *fakeCapture) Start(context.Context) error {
	c.startCalls.Add(1)
	return c.startErr
}

func (c *fakeCapture) Stop(context.Context) (AudioBuffer, error) {
	c.stopCalls.Add(1)
	if c.stopErr != nil {
		return AudioBuffer{}, c.stopErr
	}
	return c.buffer, nil
}

type fakeTranscriber struct {
	calls atomic.Int64
	text  string
	err   error
	// block, when non-nil, holds Transcribe until closed.
	block chan struct{}
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, _ AudioBuffer) (string, error) {
	t.calls.Add(1)
	if t.block != nil {
		select {
		case <-t.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return t.text, t.err
}

type fakeTyper struct {
	mu    sync.Mutex
	typed []string
	err   error
}

func (f *fakeTyper) Type(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeTyper) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.typed...)
}

func waitForEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == want {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func TestRoundTripCompletesExactlyOnce(t *testing.T) {
	capture := &fakeCapture{buffer: AudioBuffer{PCM: []byte{1, 2, 3, 4}, SampleRate: 16000, Channels: 1}}
	asr := &fakeTranscriber{text: "hello"}
	typer := &fakeTyper{}
	orch := NewOrchestrator(Options{Capture: capture, Transcriber: asr, Typer: typer})

	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.True(t, orch.IsRecording())

	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceKeyboard)))
	waitForEvent(t, events, EventRecordingStopped)

	done := waitForEvent(t, events, EventTranscriptionCompleted)
	require.Equal(t, "hello", done.Text)
	require.Equal(t, SourceKeyboard, done.Source)

	entry, ok := orch.LastTranscript()
	require.True(t, ok)
	require.Equal(t, "hello", entry.Text)
	require.Equal(t, []string{"hello"}, typer.all())
	require.Equal(t, fsm.StateIdle, orch.State())

	// No second completion arrives for the same session.
	select {
	case event := <-events:
		require.NotEqual(t, EventTranscriptionCompleted, event.Type)
	case <-time.After(100 * time.Millisecond):
	}

	require.EqualValues(t, 1, asr.calls.Load())
}

func TestStartWhileRecordingIsRejected(t *testing.T) {
	orch := NewOrchestrator(Options{Capture: &fakeCapture{}})

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	err := orch.Start(context.Background(), NewCommand(CommandStart, SourceRemote))
	require.ErrorIs(t, err, ErrAlreadyActive)
	require.True(t, orch.IsRecording())
}

func TestConcurrentStartsAdmitExactlyOne(t *testing.T) {
	capture := &fakeCapture{}
	orch := NewOrchestrator(Options{Capture: capture})

	const attempts = 16
	var wg sync.WaitGroup
	var succeeded atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)); err == nil {
				succeeded.Add(1)
			} else if !errors.Is(err, ErrAlreadyActive) && !errors.Is(err, ErrCommandInFlight) {
				t.Errorf("unexpected start error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, succeeded.Load())
	require.EqualValues(t, 1, capture.startCalls.Load())
	require.True(t, orch.IsRecording())
}

func TestMuteGateBlocksStart(t *testing.T) {
	gate := mutegate.NewMemory()
	orch := NewOrchestrator(Options{Capture: &fakeCapture{}, Gate: gate})

	require.NoError(t, gate.Acquire())
	err := orch.Start(context.Background(), NewCommand(CommandStart, SourceGesture))
	require.ErrorIs(t, err, ErrMuteGateBusy)
	require.Equal(t, fsm.StateIdle, orch.State())

	require.NoError(t, gate.Release())
	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceGesture)))
	require.True(t, orch.IsRecording())
}

func TestToggleCyclesAndIgnoresTranscribing(t *testing.T) {
	asr := &fakeTranscriber{text: "later", block: make(chan struct{})}
	orch := NewOrchestrator(Options{Capture: &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}}, Transcriber: asr})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Toggle(context.Background(), NewCommand(CommandToggle, SourceGesture)))
	require.True(t, orch.IsRecording())

	require.NoError(t, orch.Toggle(context.Background(), NewCommand(CommandToggle, SourceGesture)))
	require.True(t, orch.IsTranscribing())

	err := orch.Toggle(context.Background(), NewCommand(CommandToggle, SourceGesture))
	require.ErrorIs(t, err, ErrAlreadyActive)
	require.True(t, orch.IsTranscribing())

	close(asr.block)
	waitForEvent(t, events, EventTranscriptionCompleted)
	require.Equal(t, fsm.StateIdle, orch.State())
}

func TestEmptyTranscriptFailsSession(t *testing.T) {
	asr := &fakeTranscriber{text: "   "}
	orch := NewOrchestrator(Options{Capture: &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}}, Transcriber: asr})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceKeyboard)))

	failed := waitForEvent(t, events, EventTranscriptionFailed)
	require.Contains(t, failed.Error, "no speech recognized")
	require.Equal(t, fsm.StateIdle, orch.State())

	_, ok := orch.LastTranscript()
	require.False(t, ok)
}

func TestTranscribeErrorReturnsToIdle(t *testing.T) {
	asr := &fakeTranscriber{err: errors.New("asr backend down")}
	orch := NewOrchestrator(Options{Capture: &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}}, Transcriber: asr})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceRemote)))
	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceRemote)))

	failed := waitForEvent(t, events, EventTranscriptionFailed)
	require.Contains(t, failed.Error, "asr backend down")
	require.Equal(t, fsm.StateIdle, orch.State())

	// A fresh session starts cleanly after the failure.
	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceRemote)))
}

func TestCaptureStartErrorStaysIdle(t *testing.T) {
	capture := &fakeCapture{startErr: errors.New("no such device")}
	orch := NewOrchestrator(Options{Capture: capture})

	err := orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard))
	require.ErrorContains(t, err, "no such device")
	require.Equal(t, fsm.StateIdle, orch.State())
}

func TestTyperFailureStillCompletesSession(t *testing.T) {
	typer := &fakeTyper{err: errors.New("wtype not found")}
	orch := NewOrchestrator(Options{
		Capture:     &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}},
		Transcriber: &fakeTranscriber{text: "kept text"},
		Typer:       typer,
	})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceKeyboard)))

	done := waitForEvent(t, events, EventTranscriptionCompleted)
	require.Equal(t, "kept text", done.Text)

	entry, ok := orch.LastTranscript()
	require.True(t, ok)
	require.Equal(t, "kept text", entry.Text)
}

func TestRepeatTypesLastTranscript(t *testing.T) {
	typer := &fakeTyper{}
	orch := NewOrchestrator(Options{
		Capture:     &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}},
		Transcriber: &fakeTranscriber{text: "again"},
		Typer:       typer,
	})

	require.ErrorIs(t, orch.Repeat(context.Background()), ErrNoHistory)

	events, cancel := orch.Events().Subscribe()
	defer cancel()
	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceKeyboard)))
	waitForEvent(t, events, EventTranscriptionCompleted)

	require.NoError(t, orch.Repeat(context.Background()))
	require.Equal(t, []string{"again", "again"}, typer.all())
}

func TestCloseFlushesActiveRecording(t *testing.T) {
	orch := NewOrchestrator(Options{
		Capture:     &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}},
		Transcriber: &fakeTranscriber{text: "flushed"},
	})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.NoError(t, orch.Close(context.Background()))

	waitForEvent(t, events, EventRecordingStopped)
	done := waitForEvent(t, events, EventTranscriptionCompleted)
	require.Equal(t, "flushed", done.Text)
	require.Equal(t, fsm.StateIdle, orch.State())
}

func TestCloseTimesOutOnStuckTranscription(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	orch := NewOrchestrator(Options{
		Capture:      &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}},
		Transcriber:  &fakeTranscriber{text: "never", block: block},
		DrainTimeout: 50 * time.Millisecond,
	})

	require.NoError(t, orch.Start(context.Background(), NewCommand(CommandStart, SourceKeyboard)))
	require.NoError(t, orch.Stop(context.Background(), NewCommand(CommandStop, SourceKeyboard)))

	err := orch.Close(context.Background())
	require.ErrorIs(t, err, ErrDrainTimeout)
}

func TestHandleRoutesRemoteCommands(t *testing.T) {
	orch := NewOrchestrator(Options{
		Capture:     &fakeCapture{buffer: AudioBuffer{PCM: []byte{1}}},
		Transcriber: &fakeTranscriber{text: "over the wire"},
	})
	events, cancel := orch.Events().Subscribe()
	defer cancel()

	resp := orch.Handle(context.Background(), ipc.NewRequest("status"))
	require.True(t, resp.OK)
	require.Equal(t, "idle", resp.State)

	resp = orch.Handle(context.Background(), ipc.NewRequest("start"))
	require.True(t, resp.OK)
	require.Equal(t, "recording", resp.State)

	resp = orch.Handle(context.Background(), ipc.NewRequest("start"))
	require.False(t, resp.OK)
	require.NotEmpty(t, resp.Error)

	resp = orch.Handle(context.Background(), ipc.NewRequest("stop"))
	require.True(t, resp.OK)
	waitForEvent(t, events, EventTranscriptionCompleted)

	resp = orch.Handle(context.Background(), ipc.NewRequest("history"))
	require.True(t, resp.OK)
	require.Contains(t, resp.Message, "over the wire")

	resp = orch.Handle(context.Background(), ipc.NewRequest("bogus"))
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "unknown command")
}
