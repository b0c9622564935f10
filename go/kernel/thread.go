package kernel

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/models"
)

// Thread is a guest thread. It becomes signaled when it exits.
type Thread struct {
	ObjectBase
	waitQueue

	ID        uint32
	Entry     uint32
	Param     uint32
	StackSize uint32

	started  bool
	exited   bool
	exitCode uint32
}

func NewThread(k *KernelState, entry, param, stackSize uint32) *Thread {
	t := &Thread{
		ID:        k.nextThreadID(),
		Entry:     entry,
		Param:     param,
		StackSize: stackSize,
	}
	t.Init(k, TypeThread, nil)
	return t
}

// Start hands the thread to the processor when it can run more than one
// guest thread. Otherwise the thread stays created but never runs.
func (t *Thread) Start(p models.Processor) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return errors.Errorf("thread %d already started", t.ID)
	}
	t.started = true
	t.mu.Unlock()

	starter, ok := p.(models.ThreadStarter)
	if !ok {
		log.L.Debug("processor cannot start threads", "thread", t.ID, "entry", t.Entry)
		return nil
	}
	return errors.Wrapf(starter.StartThread(t.ID, t.Entry, t.Param, t.StackSize), "starting thread %d", t.ID)
}

// Exit marks the thread finished, wakes its waiters and abandons any
// mutants it still owns.
func (t *Thread) Exit(code uint32) {
	t.mu.Lock()
	if t.exited {
		t.mu.Unlock()
		return
	}
	t.exited, t.exitCode = true, code
	t.notifyLocked()
	t.mu.Unlock()

	if k := t.Kernel(); k != nil {
		for _, obj := range k.Objects() {
			if m, ok := obj.(*Mutant); ok {
				m.Abandon(t.ID)
			}
		}
	}
}

func (t *Thread) ExitCode() (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exitCode, t.exited
}

func (t *Thread) Wait(ctx context.Context, timeout *time.Duration) uint32 {
	return t.wait(ctx, timeout, func() (bool, uint32) {
		return t.exited, X_STATUS_SUCCESS
	})
}
