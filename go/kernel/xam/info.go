package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	X_AV_PACK_HDMI     = 6
	X_GAME_REGION_ALL  = 0xFFFF
	X_LANGUAGE_ENGLISH = 1
)

func registerInfoExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0193, "XGetAVPack", func() uint32 { return X_AV_PACK_HDMI }),
		cpu.Func(0x0194, "XGetGameRegion", func() uint32 { return X_GAME_REGION_ALL }),
		cpu.Func(0x0195, "XGetLanguage", func() uint32 { return X_LANGUAGE_ENGLISH }),
		cpu.Func(0x01CF, "XamGetExecutionId", func(out cpu.Buf) uint32 {
			// no execution info for titles started outside the dashboard
			put(out, 0)
			return kernel.X_STATUS_UNSUCCESSFUL
		}),
		cpu.Func(0x01D0, "XamLoaderGetLaunchDataSize", func(out cpu.Buf) uint32 {
			put(out, 0)
			return kernel.X_ERROR_NOT_FOUND
		}),
	)
}
