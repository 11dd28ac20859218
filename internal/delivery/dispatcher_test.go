package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Forom-ets/discord-forom/internal/delivery/mocks"
)

// fakeSender records calls without gomock, for tests that only need counts.
type fakeSender struct {
	mu    sync.Mutex
	calls []Notification
	err   error
	done  chan struct{}
}

func newFakeSender(expected int) *fakeSender {
	return &fakeSender{done: make(chan struct{}, expected)}
}

func (f *fakeSender) Send(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	f.calls = append(f.calls, Notification{ChannelID: channelID, Content: content})
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func runDispatcher(t *testing.T, d *Dispatcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Start(ctx) }()
	t.Cleanup(cancel)
	return cancel
}

func TestDispatcherDelivers(t *testing.T) {
	sender := newFakeSender(1)
	d := NewDispatcher(sender, 8, 2)
	runDispatcher(t, d)

	n := NewNotification("999", "hello", "push", []byte(`{"ref":"refs/heads/main"}`))
	assert.True(t, d.Enqueue(n))

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered")
	}

	assert.Equal(t, 1, sender.callCount())
	assert.Equal(t, "999", sender.calls[0].ChannelID)
	assert.Equal(t, "hello", sender.calls[0].Content)
}

func TestDispatcherFailureNotRetried(t *testing.T) {
	sender := newFakeSender(2)
	sender.err = errors.New("discord unavailable")
	d := NewDispatcher(sender, 8, 1)
	runDispatcher(t, d)

	assert.True(t, d.Enqueue(NewNotification("999", "a", "push", nil)))

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("send never attempted")
	}

	// A failed send is terminal: no retry shows up.
	select {
	case <-sender.done:
		t.Fatal("failed delivery was retried")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, sender.callCount())
}

func TestDispatcherQueueFullDrops(t *testing.T) {
	// No workers running: the queue fills and further enqueues drop.
	sender := newFakeSender(0)
	d := NewDispatcher(sender, 2, 1)

	assert.True(t, d.Enqueue(NewNotification("999", "a", "push", nil)))
	assert.True(t, d.Enqueue(NewNotification("999", "b", "push", nil)))
	assert.False(t, d.Enqueue(NewNotification("999", "c", "push", nil)))
	assert.Equal(t, uint64(1), d.Dropped())
}

func TestDispatcherZeroCallsWhenIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockSender(ctrl)
	// No EXPECT(): any Send call fails the test.

	d := NewDispatcher(sender, 8, 2)
	cancel := runDispatcher(t, d)

	time.Sleep(50 * time.Millisecond)
	cancel()
}

func TestDispatcherMockedSend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	delivered := make(chan struct{})
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), "999", "content").
		DoAndReturn(func(context.Context, string, string) error {
			close(delivered)
			return nil
		})

	d := NewDispatcher(sender, 8, 1)
	runDispatcher(t, d)

	assert.True(t, d.Enqueue(NewNotification("999", "content", "pull_request", []byte(`{}`))))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("mocked send never called")
	}
}

func TestNewNotificationFingerprint(t *testing.T) {
	a := NewNotification("999", "x", "push", []byte(`{"a":1}`))
	b := NewNotification("999", "x", "push", []byte(`{"a":1}`))
	c := NewNotification("999", "x", "push", []byte(`{"a":2}`))

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}
