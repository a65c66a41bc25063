package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Results reported to the observer.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// AsyncDispatcher queues messages in memory and delivers them from a fixed
// pool of workers.  When the queue is full the message is dropped.
type AsyncDispatcher struct {
	deliverer Deliverer
	logger    *slog.Logger
	observe   func(result string)
	timeout   time.Duration

	queue  chan Message
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// AsyncOption configures an AsyncDispatcher.
type AsyncOption func(*AsyncDispatcher)

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) AsyncOption {
	return func(d *AsyncDispatcher) { d.logger = l }
}

// WithObserver registers fn to be called with every delivery result.
func WithObserver(fn func(result string)) AsyncOption {
	return func(d *AsyncDispatcher) { d.observe = fn }
}

// WithDeliveryTimeout bounds a single delivery attempt.  Non-positive
// values keep the default.
func WithDeliveryTimeout(t time.Duration) AsyncOption {
	return func(d *AsyncDispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// NewAsyncDispatcher starts workers goroutines draining a queue of size
// queueSize into deliverer.  Call Close to stop them.
func NewAsyncDispatcher(deliverer Deliverer, workers, queueSize int, opts ...AsyncOption) *AsyncDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &AsyncDispatcher{
		deliverer: deliverer,
		logger:    slog.Default(),
		observe:   func(string) {},
		timeout:   30 * time.Second,
		queue:     make(chan Message, queueSize),
	}
	for _, o := range opts {
		o(d)
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}
	return d
}

// Dispatch enqueues msg without blocking.  The request context is not
// carried into delivery; its cancellation must not abort a send.
func (d *AsyncDispatcher) Dispatch(_ context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(msg, "dispatcher closed")
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.drop(msg, "queue full")
	}
}

func (d *AsyncDispatcher) drop(msg Message, reason string) {
	d.logger.Warn("notification dropped", "to", msg.To, "subject", msg.Subject, "reason", reason)
	d.observe(ResultDropped)
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.deliverer.Deliver(ctx, msg)
		cancel()
		if err != nil {
			d.logger.Error("notification failed", "to", msg.To, "subject", msg.Subject, "error", err)
			d.observe(ResultFailed)
			continue
		}
		d.observe(ResultSent)
	}
}

// Close stops accepting messages and waits for queued ones to be
// delivered, or for ctx to end.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
