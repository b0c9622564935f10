package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

type nuiDeviceStatus struct {
	Unk0       uint32
	Unk1       uint32
	StatusCode uint32
	Unk3       uint32
}

// No Kinect is attached.
func registerNuiExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0A42, "XamNuiGetDeviceStatus", func(status cpu.Buf) {
			// E_FAIL
			status.Pack(&nuiDeviceStatus{StatusCode: 0x8007048F})
		}),
		cpu.Func(0x0A43, "XamNuiIsDeviceReady", func() uint32 { return 0 }),
		cpu.Func(0x0A44, "XamNuiHudGetInitializeFlags", func() uint32 { return 0 }),
	)
}
