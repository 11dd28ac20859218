package delivery

import (
	"context"
	"encoding/hex"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/Forom-ets/discord-forom/internal/log"
)

// Defaults for the bounded queue. The original fanned out one unawaited call
// per event with no bound at all; a fixed-depth queue makes burst behavior
// observable instead.
const (
	DefaultQueueDepth = 256
	DefaultWorkers    = 4
)

// Notification is one pending outbound message.
type Notification struct {
	ID          string
	ChannelID   string
	Content     string
	Event       string
	Fingerprint string
}

// NewNotification assigns a delivery id and a fingerprint of the raw webhook
// body that triggered the message, for log correlation.
func NewNotification(channelID, content, event string, rawBody []byte) Notification {
	sum := blake3.Sum256(rawBody)
	return Notification{
		ID:          uuid.NewString(),
		ChannelID:   channelID,
		Content:     content,
		Event:       event,
		Fingerprint: hex.EncodeToString(sum[:8]),
	}
}

// Dispatcher drains a bounded queue of notifications with a fixed worker
// pool. Failed sends are logged and dropped, never retried; the triggering
// HTTP response has already been committed by the time a send runs.
type Dispatcher struct {
	queue   chan Notification
	sender  Sender
	workers int
	logger  *slog.Logger
	dropped atomic.Uint64
}

// NewDispatcher builds a dispatcher. Non-positive depth or workers fall back
// to the defaults.
func NewDispatcher(sender Sender, depth, workers int) *Dispatcher {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{
		queue:   make(chan Notification, depth),
		sender:  sender,
		workers: workers,
		logger:  log.WithComponent("delivery"),
	}
}

// Enqueue offers a notification without blocking. Returns false when the
// queue is full; the caller logs the drop and moves on.
func (d *Dispatcher) Enqueue(n Notification) bool {
	select {
	case d.queue <- n:
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("delivery queue full, dropping notification",
			"delivery_id", n.ID,
			"channel_id", n.ChannelID,
			"event", n.Event,
			"dropped_total", d.dropped.Load(),
		)
		return false
	}
}

// Dropped returns the count of notifications dropped on a full queue.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Start runs the worker pool until ctx is cancelled, then drains whatever is
// already queued before returning. Blocking call.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("delivery dispatcher started", "workers", d.workers, "queue_depth", cap(d.queue))
	defer d.logger.Info("delivery dispatcher stopped")

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Drain without waiting for new work.
			for {
				select {
				case n := <-d.queue:
					d.deliver(context.Background(), n)
				default:
					return
				}
			}
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

// deliver performs one send. Failure is terminal: logged, never surfaced.
func (d *Dispatcher) deliver(ctx context.Context, n Notification) {
	logger := log.WithDelivery(n.ID).With(
		"channel_id", n.ChannelID,
		"event", n.Event,
		"fingerprint", n.Fingerprint,
	)

	if err := d.sender.Send(ctx, n.ChannelID, n.Content); err != nil {
		logger.Error("notification delivery failed", "error", err)
		return
	}
	logger.Info("notification delivered")
}
