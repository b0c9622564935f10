package kernel

import (
	"context"
	"io"
	"sync"
	"time"
)

// Waiter is implemented by objects a guest thread can block on.
// A nil timeout waits forever; a zero timeout polls.
type Waiter interface {
	Object
	Wait(ctx context.Context, timeout *time.Duration) uint32
}

// Signaler is implemented by objects that can be put into the signaled
// state directly (events, semaphores).
type Signaler interface {
	Object
	Signal()
}

// ReadWriter is implemented by objects backed by a byte stream.
type ReadWriter interface {
	Object
	io.ReaderAt
	io.WriterAt
}

// waitQueue is the signal state shared by every waitable object. Waiters
// re-check their condition each time changed is closed.
type waitQueue struct {
	mu      sync.Mutex
	changed chan struct{}
	waiters int
	// idle runs with mu held when the last waiter leaves
	idle func()
}

func (d *waitQueue) notifyLocked() {
	if d.changed != nil {
		close(d.changed)
		d.changed = nil
	}
}

func (d *waitQueue) wakeup() <-chan struct{} {
	if d.changed == nil {
		d.changed = make(chan struct{})
	}
	return d.changed
}

// wait calls acquire with d.mu held until it returns true, the timeout
// expires or ctx is done.
func (d *waitQueue) wait(ctx context.Context, timeout *time.Duration, acquire func() (bool, uint32)) uint32 {
	var expired <-chan time.Time
	if timeout != nil {
		timer := time.NewTimer(*timeout)
		defer timer.Stop()
		expired = timer.C
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.Lock()
	d.waiters++
	defer func() {
		d.mu.Lock()
		d.waiters--
		if d.waiters == 0 && d.idle != nil {
			d.idle()
		}
		d.mu.Unlock()
	}()
	for {
		if ok, status := acquire(); ok {
			d.mu.Unlock()
			return status
		}
		if timeout != nil && *timeout <= 0 {
			d.mu.Unlock()
			return X_STATUS_TIMEOUT
		}
		ch := d.wakeup()
		d.mu.Unlock()

		select {
		case <-ch:
		case <-expired:
			return X_STATUS_TIMEOUT
		case <-ctx.Done():
			return X_STATUS_ALERTED
		}
		d.mu.Lock()
	}
}

// GuestTimeout converts an NT timeout (100ns units, negative is relative)
// into a duration. Absolute deadlines are treated as already expired.
func GuestTimeout(v int64) *time.Duration {
	var d time.Duration
	if v < 0 {
		d = time.Duration(-v) * 100 * time.Nanosecond
	}
	return &d
}

type threadKey struct{}

// WithThread marks ctx as running on behalf of t.
func WithThread(ctx context.Context, t *Thread) context.Context {
	return context.WithValue(ctx, threadKey{}, t)
}

func ThreadFromContext(ctx context.Context) *Thread {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(threadKey{}).(*Thread)
	return t
}

// callerID is the thread id used for mutant ownership. Host callers
// without a guest thread share id 0.
func callerID(ctx context.Context) uint32 {
	if t := ThreadFromContext(ctx); t != nil {
		return t.ID
	}
	return 0
}
