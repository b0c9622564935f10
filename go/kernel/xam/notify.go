package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

func registerNotifyExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	create := func(mask uint64) uint32 {
		l := NewNotifyListener(k, mask)
		h := k.InsertObject(l)
		// titles expect the current sign-in state right away
		l.Enqueue(XN_SYS_SIGNINCHANGED, 1)
		return uint32(h)
	}
	register(r,
		cpu.Func(0x0028, "XamNotifyCreateListener", func(mask uint64, maxVersion uint32) uint32 {
			return create(mask)
		}),
		cpu.Func(0x0292, "XamNotifyCreateListenerInternal", func(mask uint64, one, maxVersion uint32) uint32 {
			return create(mask)
		}),
		cpu.Func(0x0290, "XNotifyGetNext", func(handle, match uint32, id, param cpu.Buf) uint32 {
			l, err := kernel.GetObjectAs[*NotifyListener](k, kernel.Handle(handle))
			if err != nil {
				return 0
			}
			nid, data, ok := l.Dequeue(match)
			if !ok {
				return 0
			}
			put(id, nid)
			put(param, data)
			return 1
		}),
		cpu.Func(0x0291, "XNotifyPositionUI", func(position uint32) {}),
		cpu.Func(0x0293, "XNotifyDelayUI", func(delay uint32) uint32 { return 0 }),
	)
}
