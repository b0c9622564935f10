package xboxkrnl

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

const X_CREATE_SUSPENDED = 0x00000001

func registerExExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x000D, "ExCreateThread", func(out cpu.Buf, stackSize uint32, threadID cpu.Buf, xapiStartup, start, param, flags uint32) uint32 {
			if stackSize == 0 {
				stackSize = 0x10000
			}
			t := kernel.NewThread(k, start, param, stackSize)
			if status := insert(k, t, out); status != kernel.X_STATUS_SUCCESS {
				return status
			}
			put(threadID, t.ID)
			if flags&X_CREATE_SUSPENDED == 0 {
				if err := t.Start(k.Processor); err != nil {
					log.L.Warn("ExCreateThread", "thread", t.ID, "error", err)
				}
			}
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x000E, "ExFreePool", func(ptr uint32) {
			// the system heap never frees
		}),
		cpu.Func(0x0009, "ExAllocatePool", func(size uint32) uint32 {
			addr, err := k.Mem.Alloc(size, 0x10)
			if err != nil {
				log.L.Warn("ExAllocatePool", "size", size, "error", err)
				return 0
			}
			return addr
		}),
	)
}
