package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

func registerVoiceExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0AA2, "XamVoiceIsActiveProcess", func() uint32 { return 0 }),
		cpu.Func(0x0AA0, "XamVoiceCreate", func(unk1, unk2 uint32, out cpu.Buf) uint32 {
			put(out, 0)
			return kernel.X_ERROR_ACCESS_DENIED
		}),
		cpu.Func(0x0AA1, "XamVoiceClose", func(handle uint32) uint32 { return 1 }),
		cpu.Func(0x0AA3, "XamVoiceHeadsetPresent", func(handle uint32) uint32 { return 0 }),
	)
}
