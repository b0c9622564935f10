package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

// No system applications are running, so every message is undelivered.
func registerMsgExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x02C5, "XMsgInProcessCall", func(app, message, param1, param2 uint32) uint32 {
			log.L.Debug("XMsgInProcessCall", "app", app, "message", message)
			return kernel.X_ERROR_NOT_FOUND
		}),
		cpu.Func(0x02C6, "XMsgSystemProcessCall", func(app, message, buffer, size uint32) uint32 {
			log.L.Debug("XMsgSystemProcessCall", "app", app, "message", message)
			return kernel.X_ERROR_NOT_FOUND
		}),
		cpu.Func(0x02C7, "XMsgStartIORequest", func(app, message, ov, buffer, size uint32) uint32 {
			log.L.Debug("XMsgStartIORequest", "app", app, "message", message)
			return complete(k, ov, kernel.X_ERROR_NOT_FOUND, 0)
		}),
	)
}
