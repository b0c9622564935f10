package kernel

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrMutantNotOwned = errors.New("mutant not owned by caller")

type Mutant struct {
	ObjectBase
	waitQueue

	owned     bool
	owner     uint32
	recursion int32
	abandoned bool
}

// NewMutant creates a mutant, owned by the thread in ctx when initialOwner
// is set.
func NewMutant(ctx context.Context, k *KernelState, initialOwner bool) *Mutant {
	m := &Mutant{}
	if initialOwner {
		m.owned, m.owner, m.recursion = true, callerID(ctx), 1
	}
	m.Init(k, TypeMutant, nil)
	return m
}

func (m *Mutant) Owner() (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner, m.owned
}

// ReleaseOwner drops one level of ownership held by the calling thread and
// returns the previous recursion count.
func (m *Mutant) ReleaseOwner(ctx context.Context) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owned || m.owner != callerID(ctx) {
		return 0, ErrMutantNotOwned
	}
	prev := m.recursion
	m.recursion--
	if m.recursion == 0 {
		m.owned = false
		m.notifyLocked()
	}
	return prev, nil
}

// Abandon releases the mutant on behalf of an exiting owner thread.
func (m *Mutant) Abandon(tid uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned && m.owner == tid {
		m.owned, m.recursion, m.abandoned = false, 0, true
		m.notifyLocked()
	}
}

func (m *Mutant) Wait(ctx context.Context, timeout *time.Duration) uint32 {
	tid := callerID(ctx)
	return m.wait(ctx, timeout, func() (bool, uint32) {
		if m.owned && m.owner != tid {
			return false, 0
		}
		m.owned, m.owner = true, tid
		m.recursion++
		if m.abandoned {
			m.abandoned = false
			return true, X_STATUS_ABANDONED_WAIT_0
		}
		return true, X_STATUS_SUCCESS
	})
}
