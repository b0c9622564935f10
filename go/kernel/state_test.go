package kernel

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestHandleLifecycle(t *testing.T) {
	k := newKernel(t)

	ev := NewEvent(k, true, false)
	sem, err := NewSemaphore(k, 0, 1)
	require.NoError(t, err)

	destroyed := 0
	sem.onDestroy = func() {
		destroyed++
		require.Equal(t, 0, k.ObjectCount(), "table must be cleared before objects are destroyed")
	}

	require.Equal(t, Handle(0x1001), k.InsertObject(ev))
	require.Equal(t, Handle(0x1002), k.InsertObject(sem))
	require.Equal(t, ev, k.GetObject(0x1001))

	k.RemoveObject(ev)
	require.Nil(t, k.GetObject(0x1001))
	require.Equal(t, sem, k.GetObject(0x1002))

	k.Shutdown()
	require.Equal(t, 1, destroyed)
	require.Nil(t, k.GetObject(0x1002))

	k.Shutdown()
	sem.Destroy()
	require.Equal(t, 1, destroyed)
}

func TestRemoveIdempotent(t *testing.T) {
	k := newKernel(t)
	a := NewEvent(k, false, false)
	b := NewEvent(k, false, false)
	k.InsertObject(a)
	hb := k.InsertObject(b)

	k.RemoveObject(a)
	k.RemoveObject(a)
	require.Equal(t, 1, k.ObjectCount())
	require.Equal(t, b, k.GetObject(hb))
}

func TestUnknownHandle(t *testing.T) {
	k := newKernel(t)
	require.Nil(t, k.GetObject(0))
	require.Nil(t, k.GetObject(0x1001))
	require.Nil(t, k.GetObject(X_INVALID_HANDLE_VALUE))
	require.Equal(t, ErrInvalidHandle, k.CloseHandle(0x1234))
}

func TestInsertTwice(t *testing.T) {
	k := newKernel(t)
	ev := NewEvent(k, false, false)
	h := k.InsertObject(ev)
	require.Equal(t, h, k.InsertObject(ev))
	require.Equal(t, 1, k.ObjectCount())
}

func TestReinsertAfterRemove(t *testing.T) {
	k := newKernel(t)
	ev := NewEvent(k, false, false)
	h := k.InsertObject(ev)
	k.RemoveObject(ev)
	require.Nil(t, k.GetObject(h))

	require.Equal(t, h, k.InsertObject(ev))
	require.Equal(t, ev, k.GetObject(h))
	require.Equal(t, 1, k.ObjectCount())

	// the next fresh object still gets a new handle
	require.Equal(t, h+1, k.InsertObject(NewEvent(k, false, false)))
}

func TestInsertAfterShutdown(t *testing.T) {
	k := newKernel(t)
	k.Shutdown()

	ev := NewEvent(k, false, false)
	destroyed := 0
	ev.onDestroy = func() { destroyed++ }
	require.Equal(t, Handle(0), k.InsertObject(ev))
	require.Equal(t, 1, destroyed)
	require.Equal(t, 0, k.ObjectCount())

	_, err := k.ObjectForNative(scratch)
	require.Equal(t, ErrShutdown, errors.Cause(err))
}

func TestHandlesNotReused(t *testing.T) {
	k := newKernel(t)
	first := NewEvent(k, false, false)
	h1 := k.InsertObject(first)
	k.RemoveObject(first)
	h2 := k.InsertObject(NewEvent(k, false, false))
	require.NotEqual(t, h1, h2)
	require.Greater(t, uint32(h2), uint32(h1))
}

func TestConcurrentInsert(t *testing.T) {
	k := newKernel(t)
	const workers, each = 32, 200

	var wg sync.WaitGroup
	handles := make(chan Handle, workers*each)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				obj := NewEvent(k, false, false)
				h := k.InsertObject(obj)
				handles <- h
				if j%3 == 0 {
					k.GetObject(h)
					k.RemoveObject(obj)
				}
			}
		}()
	}
	wg.Wait()
	close(handles)

	seen := make(map[Handle]bool)
	for h := range handles {
		require.False(t, seen[h], "duplicate handle %s", h)
		require.GreaterOrEqual(t, uint32(h), uint32(HANDLE_BASE))
		seen[h] = true
	}
	require.Len(t, seen, workers*each)
}

func TestCloseHandleReleases(t *testing.T) {
	k := newKernel(t)
	ev := NewEvent(k, false, false)
	destroyed := 0
	ev.onDestroy = func() { destroyed++ }
	h := k.InsertObject(ev)

	// host code keeps its own reference
	ev.Retain()
	require.NoError(t, k.CloseHandle(h))
	require.Nil(t, k.GetObject(h))
	require.Equal(t, 0, destroyed)

	ev.Release()
	require.Equal(t, 1, destroyed)
	require.Equal(t, ErrInvalidHandle, k.CloseHandle(h))
}

func TestDestroyRemovesFromTable(t *testing.T) {
	k := newKernel(t)
	ev := NewEvent(k, false, false)
	h := k.InsertObject(ev)
	ev.Destroy()
	require.Nil(t, k.GetObject(h))
}

func TestShutdownReentrant(t *testing.T) {
	k := newKernel(t)
	a := NewEvent(k, false, false)
	b := NewEvent(k, false, false)
	k.InsertObject(a)
	k.InsertObject(b)

	calls := 0
	a.onDestroy = func() {
		calls++
		k.RemoveObject(b)
		b.Destroy()
	}
	b.onDestroy = func() { calls++ }

	k.Shutdown()
	require.Equal(t, 2, calls)
	require.Equal(t, 0, k.ObjectCount())
}

func TestGetObjectAs(t *testing.T) {
	k := newKernel(t)
	h := k.InsertObject(NewEvent(k, false, false))

	ev, err := GetObjectAs[*Event](k, h)
	require.NoError(t, err)
	require.NotNil(t, ev)

	_, err = GetObjectAs[*Semaphore](k, h)
	require.Equal(t, ErrTypeMismatch, err)
	require.Equal(t, uint32(X_STATUS_OBJECT_TYPE_MISMATCH), StatusFromError(err))

	_, err = GetObjectAs[*Event](k, h+1)
	require.Equal(t, uint32(X_STATUS_INVALID_HANDLE), StatusFromError(err))
}

func TestObjectsSnapshot(t *testing.T) {
	k := newKernel(t)
	for i := 0; i < 5; i++ {
		k.InsertObject(NewEvent(k, false, false))
	}
	objs := k.Objects()
	require.Len(t, objs, 5)
	for i, obj := range objs {
		require.Equal(t, HANDLE_BASE+Handle(i+1), obj.Handle())
	}
}
