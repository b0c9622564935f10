package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

const X_MB_RESULT_OK = 0

// showUI delivers the open/close pair of XN_SYS_UI notifications a real
// dashboard would send around a modal dialog.
func showUI(k *kernel.KernelState) {
	Broadcast(k, XN_SYS_UI, 1)
	Broadcast(k, XN_SYS_UI, 0)
}

func registerUIExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x02CA, "XamShowMessageBoxUI", func(user uint32, title, text cpu.Ptr, buttonCount, buttons, active, flags uint32, result cpu.Buf) uint32 {
			log.L.Info("XamShowMessageBoxUI", "title", readWide(k, uint32(title)), "text", readWide(k, uint32(text)))
			showUI(k)
			put(result, X_MB_RESULT_OK)
			return kernel.X_ERROR_SUCCESS
		}),
		cpu.Func(0x02B4, "XamShowSigninUI", func(panes, flags uint32) uint32 {
			showUI(k)
			Broadcast(k, XN_SYS_SIGNINCHANGED, 1)
			return kernel.X_ERROR_SUCCESS
		}),
		cpu.Func(0x02B6, "XamShowDirtyDiscErrorUI", func(user uint32) {
			log.L.Error("XamShowDirtyDiscErrorUI: title reported corrupt content")
		}),
	)
}
