package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

func registerAvatarExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		// returning success makes titles skip avatar rendering
		cpu.Func(0x0A20, "XamAvatarInitialize", func(unk1, unk2, processorNumber, unk4, unk5, unk6 uint32) uint32 {
			return kernel.X_ERROR_SUCCESS
		}),
		cpu.Func(0x0A21, "XamAvatarShutdown", func() {}),
	)
}
