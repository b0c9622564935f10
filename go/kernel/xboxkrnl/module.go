// Package xboxkrnl implements the exports of xboxkrnl.exe.
package xboxkrnl

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	ModuleName     = "xboxkrnl.exe"
	ModulePath     = `xe:\xboxkrnl.exe`
	ExportCapacity = 1024
)

// NewModule registers every xboxkrnl export group, then the stub table,
// which only fills ordinals no group implemented.
func NewModule(k *kernel.KernelState) *kernel.Module {
	m := kernel.NewModule(k, ModuleName, ModulePath, ExportCapacity)
	m.Activate(
		registerDbgExports,
		registerExExports,
		registerHwExports,
		registerIoExports,
		registerKeExports,
		registerNtExports,
		registerObExports,
		registerRtlExports,
		registerStubExports,
	)
	return m
}

func register(r *cpu.ExportResolver, exports ...*cpu.Export) {
	r.RegisterTable(ModuleName, exports)
}

// outputs a handle or status through an optional guest pointer
func put(b cpu.Buf, val uint32) {
	if !b.IsNull() {
		b.PutU32(val)
	}
}
