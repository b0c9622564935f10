package xam

import (
	"context"
	"sync"
	"time"

	"github.com/lunixbochs/xecorn/go/kernel"
)

// notification ids
const (
	XN_SYS_UI                 = 0x00000009
	XN_SYS_SIGNINCHANGED      = 0x0000000A
	XN_SYS_STORAGECHANGED     = 0x0000000B
	XN_LIVE_CONNECTIONCHANGED = 0x02000001
)

// notification area masks
const (
	XNOTIFY_SYSTEM = 0x00000001
	XNOTIFY_LIVE   = 0x00000002
	XNOTIFY_ALL    = 0x000000EF
)

type notification struct {
	ID   uint32
	Data uint32
}

// NotifyListener queues system notifications for a title. It is signaled
// while notifications are pending.
type NotifyListener struct {
	kernel.ObjectBase

	Mask uint64

	mu      sync.Mutex
	pending []notification
	ready   *kernel.Event
}

func NewNotifyListener(k *kernel.KernelState, mask uint64) *NotifyListener {
	l := &NotifyListener{Mask: mask, ready: kernel.NewEvent(k, true, false)}
	l.Init(k, kernel.TypeNotifyListener, nil)
	return l
}

func notifyArea(id uint32) uint64 {
	return 1 << (id >> 25)
}

func (l *NotifyListener) Wants(id uint32) bool {
	return l.Mask&notifyArea(id) != 0
}

func (l *NotifyListener) Enqueue(id, data uint32) {
	if !l.Wants(id) {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, notification{id, data})
	l.mu.Unlock()
	l.ready.Set()
}

// Dequeue removes the next notification, or the first one with id match
// when match is non-zero.
func (l *NotifyListener) Dequeue(match uint32) (id, data uint32, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, n := range l.pending {
		if match == 0 || n.ID == match {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			if len(l.pending) == 0 {
				l.ready.Reset()
			}
			return n.ID, n.Data, true
		}
	}
	return 0, 0, false
}

func (l *NotifyListener) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *NotifyListener) Wait(ctx context.Context, timeout *time.Duration) uint32 {
	return l.ready.Wait(ctx, timeout)
}

// Broadcast delivers a notification to every live listener.
func Broadcast(k *kernel.KernelState, id, data uint32) {
	for _, obj := range k.Objects() {
		if l, ok := obj.(*NotifyListener); ok {
			l.Enqueue(id, data)
		}
	}
}
