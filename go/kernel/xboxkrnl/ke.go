package xboxkrnl

import (
	"context"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

// Ke* functions take pointers to guest dispatcher structures rather than
// handles.
func nativeEvent(k *kernel.KernelState, ptr uint32) *kernel.Event {
	obj, err := k.ObjectForNative(ptr)
	if err != nil {
		log.L.Warn("bad native event", "ptr", ptr, "error", err)
		return nil
	}
	ev, _ := obj.(*kernel.Event)
	return ev
}

func registerKeExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x00AB, "KeSetEvent", func(ptr uint32, increment, wait uint32) int32 {
			if ev := nativeEvent(k, ptr); ev != nil {
				return ev.Set()
			}
			return 0
		}),
		cpu.Func(0x007D, "KeResetEvent", func(ptr uint32) int32 {
			if ev := nativeEvent(k, ptr); ev != nil {
				return ev.Reset()
			}
			return 0
		}),
		cpu.Func(0x00A7, "KePulseEvent", func(ptr uint32, increment, wait uint32) int32 {
			if ev := nativeEvent(k, ptr); ev != nil {
				return ev.Pulse()
			}
			return 0
		}),
		cpu.Func(0x00BB, "KeWaitForSingleObject", func(ctx context.Context, ptr, reason, mode, alertable uint32, timeout cpu.Buf) uint32 {
			obj, err := k.ObjectForNative(ptr)
			if err != nil {
				return kernel.StatusFromError(err)
			}
			return waitOn(ctx, obj, timeout)
		}),
		cpu.Func(0x0066, "KeGetCurrentProcessType", func() uint32 {
			// X_PROCTYPE_USER
			return 1
		}),
		cpu.Func(0x0078, "KeQueryPerformanceFrequency", func() uint64 {
			return 50000000
		}),
	)
}
