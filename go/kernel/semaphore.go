package kernel

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/log"
)

var ErrSemaphoreLimit = errors.New("semaphore limit exceeded")

type Semaphore struct {
	ObjectBase
	waitQueue

	count, limit int32
}

func NewSemaphore(k *KernelState, count, limit int32) (*Semaphore, error) {
	if limit <= 0 || count < 0 || count > limit {
		return nil, errors.Errorf("bad semaphore count %d / limit %d", count, limit)
	}
	s := &Semaphore{count: count, limit: limit}
	s.Init(k, TypeSemaphore, nil)
	return s, nil
}

func (s *Semaphore) Count() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Semaphore) Limit() int32 { return s.limit }

// ReleaseCount adds n to the count and returns the previous count. The count is
// left untouched if it would exceed the limit.
func (s *Semaphore) ReleaseCount(n int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.count
	if n <= 0 || s.count > s.limit-n {
		return prev, ErrSemaphoreLimit
	}
	s.count += n
	s.notifyLocked()
	return prev, nil
}

// Signal releases one count. A semaphore already at its limit stays there
// and the signal is dropped.
func (s *Semaphore) Signal() {
	if _, err := s.ReleaseCount(1); err != nil {
		log.L.Debug("semaphore signal dropped", "handle", s.Handle(), "limit", s.limit)
	}
}

func (s *Semaphore) Wait(ctx context.Context, timeout *time.Duration) uint32 {
	return s.wait(ctx, timeout, func() (bool, uint32) {
		if s.count > 0 {
			s.count--
			return true, X_STATUS_SUCCESS
		}
		return false, 0
	})
}
