package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// X_VIDEO_MODE
type videoMode struct {
	DisplayWidth  uint32
	DisplayHeight uint32
	IsInterlaced  uint32
	IsWidescreen  uint32
	IsHiDef       uint32
	RefreshRate   float32
	VideoStandard uint32
	Unknown4A     uint32
	Unknown01     uint32
	Reserved      [3]uint32
}

// 720p60 NTSC
var defaultVideoMode = videoMode{
	DisplayWidth:  1280,
	DisplayHeight: 720,
	IsWidescreen:  1,
	IsHiDef:       1,
	RefreshRate:   60,
	VideoStandard: 1,
	Unknown4A:     0x4A,
	Unknown01:     0x01,
}

func registerVideoExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x02E1, "XGetVideoMode", func(mode cpu.Buf) {
			vm := defaultVideoMode
			mode.Pack(&vm)
		}),
		cpu.Func(0x02E2, "XGetVideoCapabilities", func() uint32 { return 0 }),
	)
}
