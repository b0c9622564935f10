// Package xam implements the exports of xam.xex, the title-facing system
// library.
package xam

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	ModuleName     = "xam.xex"
	ModulePath     = `xe:\xam.xex`
	ExportCapacity = 4096
)

func NewModule(k *kernel.KernelState) *kernel.Module {
	m := kernel.NewModule(k, ModuleName, ModulePath, ExportCapacity)
	m.Activate(
		registerAvatarExports,
		registerContentExports,
		registerInfoExports,
		registerInputExports,
		registerMsgExports,
		registerNetExports,
		registerNotifyExports,
		registerNuiExports,
		registerUIExports,
		registerUserExports,
		registerVideoExports,
		registerVoiceExports,
		registerStubExports,
	)
	return m
}

func register(r *cpu.ExportResolver, exports ...*cpu.Export) {
	r.RegisterTable(ModuleName, exports)
}

func put(b cpu.Buf, val uint32) {
	if !b.IsNull() {
		b.PutU32(val)
	}
}

// xam reports failures as Win32 error codes
func win32(err error) uint32 {
	switch kernel.StatusFromError(err) {
	case kernel.X_STATUS_SUCCESS:
		return kernel.X_ERROR_SUCCESS
	case kernel.X_STATUS_INVALID_HANDLE, kernel.X_STATUS_OBJECT_TYPE_MISMATCH, kernel.X_STATUS_INVALID_PARAMETER:
		return kernel.X_ERROR_INVALID_PARAMETER
	}
	return kernel.X_ERROR_FUNCTION_FAILED
}

// readWide reads a NUL-terminated big-endian UTF-16 string.
func readWide(k *kernel.KernelState, addr uint32) string {
	if addr == 0 {
		return ""
	}
	mem, err := k.Mem.TranslateVirtual(addr)
	if err != nil {
		return ""
	}
	var units []uint16
	for i := 0; i+1 < len(mem); i += 2 {
		u := binary.BigEndian.Uint16(mem[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
