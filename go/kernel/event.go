package kernel

import (
	"context"
	"time"
)

type Event struct {
	ObjectBase
	waitQueue

	manual   bool
	signaled bool
	// pulses counts PulseEvent calls; waiters compare it against the value
	// seen when they started waiting
	pulses uint64
	pulse  bool
}

// NewEvent creates a notification (manual reset) or synchronization
// (auto reset) event.
func NewEvent(k *KernelState, manual, initial bool) *Event {
	e := &Event{manual: manual, signaled: initial}
	// a pulse nobody took does not carry over to later waiters
	e.idle = func() { e.pulse = false }
	e.Init(k, TypeEvent, nil)
	return e
}

func (e *Event) ManualReset() bool { return e.manual }

func (e *Event) Signaled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signaled
}

func (e *Event) state(prev bool) int32 {
	if prev {
		return 1
	}
	return 0
}

// Set signals the event and returns the previous state.
func (e *Event) Set() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.signaled
	e.signaled = true
	e.notifyLocked()
	return e.state(prev)
}

func (e *Event) Reset() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.signaled
	e.signaled = false
	return e.state(prev)
}

// Pulse releases the threads currently waiting (one of them for an auto
// reset event) and leaves the event unsignaled.
func (e *Event) Pulse() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.signaled
	e.signaled = false
	if e.waiters > 0 {
		if e.manual {
			e.pulses++
		} else {
			e.pulse = true
		}
		e.notifyLocked()
	}
	return e.state(prev)
}

func (e *Event) Signal() { e.Set() }

func (e *Event) Wait(ctx context.Context, timeout *time.Duration) uint32 {
	e.mu.Lock()
	start := e.pulses
	e.mu.Unlock()
	return e.wait(ctx, timeout, func() (bool, uint32) {
		switch {
		case e.signaled:
			if !e.manual {
				e.signaled = false
			}
		case e.manual && e.pulses != start:
		case !e.manual && e.pulse:
			e.pulse = false
		default:
			return false, 0
		}
		return true, X_STATUS_SUCCESS
	})
}
