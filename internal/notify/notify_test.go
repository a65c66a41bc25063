package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lalarentals/users-micro/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	msgs    []Message
	results []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (r *recorder) Deliver(_ context.Context, msg Message) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) observe(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recorder) snapshot() ([]Message, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...), append([]string(nil), r.results...)
}

func closeDispatcher(t *testing.T, d *AsyncDispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func TestAsyncDispatcher_DeliversQueuedMessages(t *testing.T) {
	rec := &recorder{}
	d := NewAsyncDispatcher(rec, 2, 10, WithObserver(rec.observe))

	for i := 0; i < 5; i++ {
		d.Dispatch(context.Background(), Message{To: "a@x.com", Subject: "hi"})
	}
	closeDispatcher(t, d)

	msgs, results := rec.snapshot()
	assert.Len(t, msgs, 5)
	assert.Equal(t, []string{ResultSent, ResultSent, ResultSent, ResultSent, ResultSent}, results)
}

func TestAsyncDispatcher_DropsWhenFull(t *testing.T) {
	rec := &recorder{started: make(chan struct{}, 1), release: make(chan struct{})}
	d := NewAsyncDispatcher(rec, 1, 1, WithObserver(rec.observe))

	d.Dispatch(context.Background(), Message{To: "1@x.com"})
	<-rec.started // the only worker is now busy
	d.Dispatch(context.Background(), Message{To: "2@x.com"})
	d.Dispatch(context.Background(), Message{To: "3@x.com"})

	_, results := rec.snapshot()
	assert.Equal(t, []string{ResultDropped}, results)

	close(rec.release) // started has room for the second message's signal
	closeDispatcher(t, d)

	msgs, _ := rec.snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "1@x.com", msgs[0].To)
	assert.Equal(t, "2@x.com", msgs[1].To)
}

func TestAsyncDispatcher_FailureIsObservedNotReturned(t *testing.T) {
	rec := &recorder{err: errors.New("smtp down")}
	d := NewAsyncDispatcher(rec, 1, 4, WithObserver(rec.observe))

	d.Dispatch(context.Background(), Message{To: "a@x.com"})
	closeDispatcher(t, d)

	_, results := rec.snapshot()
	assert.Equal(t, []string{ResultFailed}, results)
}

func TestAsyncDispatcher_DispatchAfterClose(t *testing.T) {
	rec := &recorder{}
	d := NewAsyncDispatcher(rec, 1, 4, WithObserver(rec.observe))
	closeDispatcher(t, d)

	assert.NotPanics(t, func() { d.Dispatch(context.Background(), Message{To: "late@x.com"}) })
	msgs, results := rec.snapshot()
	assert.Empty(t, msgs)
	assert.Equal(t, []string{ResultDropped}, results)

	closeDispatcher(t, d)
}

func TestAsyncDispatcher_CanceledRequestContextStillDelivers(t *testing.T) {
	rec := &recorder{}
	d := NewAsyncDispatcher(rec, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, Message{To: "a@x.com"})
	closeDispatcher(t, d)

	msgs, _ := rec.snapshot()
	assert.Len(t, msgs, 1)
}

// stuck blocks every delivery until its context ends.
type stuck struct{}

func (stuck) Deliver(ctx context.Context, _ Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestAsyncDispatcher_DeliveryTimeout(t *testing.T) {
	rec := &recorder{}
	d := NewAsyncDispatcher(stuck{}, 1, 4, WithObserver(rec.observe), WithDeliveryTimeout(20*time.Millisecond))

	d.Dispatch(context.Background(), Message{To: "a@x.com"})
	closeDispatcher(t, d)

	_, results := rec.snapshot()
	assert.Equal(t, []string{ResultFailed}, results)
}

func TestWithDeliveryTimeout_IgnoresZero(t *testing.T) {
	d := NewAsyncDispatcher(&recorder{}, 1, 1, WithDeliveryTimeout(0))
	defer closeDispatcher(t, d)
	assert.Equal(t, 30*time.Second, d.timeout)
}

func TestTemplates(t *testing.T) {
	w := Welcome("ann@x.com", "Ann")
	assert.Equal(t, "ann@x.com", w.To)
	assert.Equal(t, "Your account has been created successfully!", w.Subject)
	assert.Contains(t, w.HTMLBody, "Welcome to LALA Rentals")
	assert.Contains(t, w.HTMLBody, "Hi Ann,")

	b := BookingRequested("o@x.com", "Owen", "<script>x</script>", "Villa")
	assert.Equal(t, "New Booking Request", b.Subject)
	assert.NotContains(t, b.HTMLBody, "<script>")
	assert.True(t, strings.Contains(b.HTMLBody, "&lt;script&gt;"))

	s := BookingStatusChanged("r@x.com", "Rita", "Villa", "approved")
	assert.Equal(t, "Booking Status Update", s.Subject)
	assert.Contains(t, s.HTMLBody, "Your booking for Villa is now approved.")
}

func TestSMTPSender_RejectsBeforeDialing(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1, From: "x@y.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Deliver(ctx, Message{To: "a@x.com"}), context.Canceled)
	assert.Error(t, s.Deliver(context.Background(), Message{}))
}

func TestLogDeliverer(t *testing.T) {
	assert.NoError(t, LogDeliverer{}.Deliver(context.Background(), Message{To: "a@x.com"}))
}
