package indicator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parla/internal/config"
	"parla/internal/gesture"
	"parla/internal/hub"
	"parla/internal/session"
)

type notifyCall struct {
	replaceID uint32
	icon      string
	summary   string
}

type fakeBus struct {
	mu        sync.Mutex
	calls     []notifyCall
	dismissed []uint32
	nextID    uint32
}

func (b *fakeBus) notify(_ context.Context, _ string, replaceID uint32, icon, summary string, _ int) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.calls = append(b.calls, notifyCall{replaceID: replaceID, icon: icon, summary: summary})
	return b.nextID, nil
}

func (b *fakeBus) dismiss(_ context.Context, id uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed = append(b.dismissed, id)
	return nil
}

func (b *fakeBus) recorded() []notifyCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]notifyCall(nil), b.calls...)
}

func newTestNotifier(bus *fakeBus) *Notifier {
	n := NewNotifier(config.IndicatorConfig{Enable: true}, nil)
	n.notify = bus.notify
	n.dismiss = bus.dismiss
	return n
}

func waitForNotifications(t *testing.T, bus *fakeBus, want int) []notifyCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls := bus.recorded(); len(calls) >= want {
			return calls
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, have %v", want, bus.recorded())
	return nil
}

func TestNotifierMirrorsSessionLifecycle(t *testing.T) {
	sessions := hub.New[session.Event](8)
	bus := &fakeBus{}
	notifier := newTestNotifier(bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		notifier.Run(ctx, sessions, nil)
	}()
	time.Sleep(10 * time.Millisecond)

	sessions.Publish(session.Event{Type: session.EventRecordingStarted})
	sessions.Publish(session.Event{Type: session.EventRecordingStopped})
	sessions.Publish(session.Event{Type: session.EventTranscriptionCompleted, Text: "done deal"})

	calls := waitForNotifications(t, bus, 3)
	require.Equal(t, "Recording…", calls[0].summary)
	require.Equal(t, "Transcribing…", calls[1].summary)
	require.Equal(t, "done deal", calls[2].summary)

	// Later notifications replace the earlier surface.
	require.EqualValues(t, 0, calls[0].replaceID)
	require.EqualValues(t, 1, calls[1].replaceID)
	require.EqualValues(t, 2, calls[2].replaceID)

	cancel()
	<-done
	require.NotEmpty(t, bus.dismissed)
}

func TestNotifierShowsFailures(t *testing.T) {
	sessions := hub.New[session.Event](8)
	bus := &fakeBus{}
	notifier := newTestNotifier(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifier.Run(ctx, sessions, nil)
	time.Sleep(10 * time.Millisecond)

	sessions.Publish(session.Event{Type: session.EventTranscriptionFailed, Error: "asr backend down"})

	calls := waitForNotifications(t, bus, 1)
	require.Equal(t, "dialog-error", calls[0].icon)
	require.Equal(t, "asr backend down", calls[0].summary)
}

func TestNotifierShowsGestureFeedback(t *testing.T) {
	sessions := hub.New[session.Event](8)
	gestures := hub.New[gesture.Event](8)
	bus := &fakeBus{}
	notifier := newTestNotifier(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifier.Run(ctx, sessions, gestures)
	time.Sleep(10 * time.Millisecond)

	gestures.Publish(gesture.Event{Gesture: gesture.GestureFist, Confirmed: false})
	gestures.Publish(gesture.Event{Gesture: gesture.GestureFist, Confirmed: true})

	calls := waitForNotifications(t, bus, 2)
	require.Contains(t, calls[0].summary, "fist")
	require.NotContains(t, calls[0].summary, "confirmed")
	require.Contains(t, calls[1].summary, "confirmed")
	require.NotEqual(t, calls[0].icon, calls[1].icon)
}

func TestNotifierDisabledStaysQuiet(t *testing.T) {
	sessions := hub.New[session.Event](8)
	bus := &fakeBus{}
	notifier := NewNotifier(config.IndicatorConfig{Enable: false}, nil)
	notifier.notify = bus.notify

	ctx, cancel := context.WithCancel(context.Background())
	go notifier.Run(ctx, sessions, nil)
	time.Sleep(10 * time.Millisecond)

	sessions.Publish(session.Event{Type: session.EventRecordingStarted})
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, bus.recorded())
	cancel()
}

func TestParseNotifyReply(t *testing.T) {
	id, err := parseNotifyReply("u 42\n")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	_, err = parseNotifyReply("garbage")
	require.Error(t, err)

	_, err = parseNotifyReply("u notanumber")
	require.Error(t, err)
}

func TestSummarizeTranscript(t *testing.T) {
	require.Equal(t, "short", summarizeTranscript("short"))

	long := strings.Repeat("a", 300)
	summary := summarizeTranscript(long)
	require.Less(t, len([]rune(summary)), 130)
	require.True(t, strings.HasSuffix(summary, "…"))
}
