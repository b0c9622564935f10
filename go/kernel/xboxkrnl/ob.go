package xboxkrnl

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// objectForPointer accepts both handles and bound dispatcher header
// addresses, the two kinds of "object pointer" ObReferenceObjectByHandle
// hands out.
func objectForPointer(k *kernel.KernelState, ptr uint32) kernel.Object {
	if obj := k.NativeObject(ptr); obj != nil {
		return obj
	}
	return k.GetObject(kernel.Handle(ptr))
}

func registerObExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x00CF, "NtClose", func(handle uint32) uint32 {
			return kernel.StatusFromError(k.CloseHandle(kernel.Handle(handle)))
		}),
		cpu.Func(0x0107, "ObReferenceObjectByHandle", func(handle, objectType uint32, out cpu.Buf) uint32 {
			obj := k.GetObject(kernel.Handle(handle))
			if obj == nil {
				return kernel.X_STATUS_INVALID_HANDLE
			}
			obj.Retain()
			ptr := obj.Base().NativePtr()
			if ptr == 0 {
				ptr = uint32(obj.Handle())
			}
			put(out, ptr)
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x00FA, "ObDereferenceObject", func(ptr uint32) uint32 {
			if obj := objectForPointer(k, ptr); obj != nil {
				obj.Release()
			}
			return 0
		}),
	)
}
