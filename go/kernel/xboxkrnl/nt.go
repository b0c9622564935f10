package xboxkrnl

import (
	"context"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// NT event types
const (
	NotificationEvent    = 0
	SynchronizationEvent = 1
)

func insert(k *kernel.KernelState, obj kernel.Object, out cpu.Buf) uint32 {
	h := k.InsertObject(obj)
	if h == 0 {
		return kernel.StatusFromError(kernel.ErrShutdown)
	}
	if err := out.PutU32(uint32(h)); err != nil {
		k.CloseHandle(h)
		return kernel.StatusFromError(err)
	}
	return kernel.X_STATUS_SUCCESS
}

func registerNtExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	event := func(handle uint32) (*kernel.Event, uint32) {
		ev, err := kernel.GetObjectAs[*kernel.Event](k, kernel.Handle(handle))
		return ev, kernel.StatusFromError(err)
	}
	register(r,
		cpu.Func(0x00D2, "NtCreateEvent", func(out cpu.Buf, attrs, eventType, initial uint32) uint32 {
			return insert(k, kernel.NewEvent(k, eventType == NotificationEvent, initial != 0), out)
		}),
		cpu.Func(0x00F1, "NtSetEvent", func(handle uint32, prev cpu.Buf) uint32 {
			ev, status := event(handle)
			if ev == nil {
				return status
			}
			put(prev, uint32(ev.Set()))
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00C9, "NtClearEvent", func(handle uint32) uint32 {
			ev, status := event(handle)
			if ev == nil {
				return status
			}
			ev.Reset()
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00E4, "NtPulseEvent", func(handle uint32, prev cpu.Buf) uint32 {
			ev, status := event(handle)
			if ev == nil {
				return status
			}
			put(prev, uint32(ev.Pulse()))
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00D6, "NtCreateSemaphore", func(out cpu.Buf, attrs uint32, count, limit int32) uint32 {
			sem, err := kernel.NewSemaphore(k, count, limit)
			if err != nil {
				return kernel.X_STATUS_INVALID_PARAMETER
			}
			return insert(k, sem, out)
		}),
		cpu.Func(0x00EC, "NtReleaseSemaphore", func(handle uint32, count int32, prev cpu.Buf) uint32 {
			sem, err := kernel.GetObjectAs[*kernel.Semaphore](k, kernel.Handle(handle))
			if err != nil {
				return kernel.StatusFromError(err)
			}
			old, err := sem.ReleaseCount(count)
			if err != nil {
				return kernel.StatusFromError(err)
			}
			put(prev, uint32(old))
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00D5, "NtCreateMutant", func(ctx context.Context, out cpu.Buf, attrs, initialOwner uint32) uint32 {
			return insert(k, kernel.NewMutant(ctx, k, initialOwner != 0), out)
		}),
		cpu.Func(0x00EB, "NtReleaseMutant", func(ctx context.Context, handle uint32, prev cpu.Buf) uint32 {
			m, err := kernel.GetObjectAs[*kernel.Mutant](k, kernel.Handle(handle))
			if err != nil {
				return kernel.StatusFromError(err)
			}
			old, err := m.ReleaseOwner(ctx)
			if err != nil {
				return kernel.StatusFromError(err)
			}
			put(prev, uint32(old))
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00FB, "NtWaitForSingleObjectEx", func(ctx context.Context, handle, mode, alertable uint32, timeout cpu.Buf) uint32 {
			obj := k.GetObject(kernel.Handle(handle))
			if obj == nil && kernel.Handle(handle) == kernel.X_CURRENT_THREAD {
				if t := kernel.ThreadFromContext(ctx); t != nil {
					obj = t
				}
			}
			return waitOn(ctx, obj, timeout)
		}),
	)
}
