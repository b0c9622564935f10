package xboxkrnl

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

type hardwareInfo struct {
	Flags               uint32
	NumberOfProcessors  uint8
	PCIBridgeRevisionID uint8
	Reserved            [6]uint8
	BldrMagic           uint16
	BldrFlags           uint16
}

// allocVar places v in the system heap and returns its guest address, or
// 0 if the heap is unavailable. The export is then registered as a stub.
func allocVar(k *kernel.KernelState, name string, size uint32, v interface{}) uint32 {
	addr, err := k.Mem.Alloc(size, 0x10)
	if err == nil && v != nil {
		err = k.Mem.StrucAt(addr).Pack(v)
	}
	if err != nil {
		log.L.Warn("cannot allocate export variable", "name", name, "error", err)
		return 0
	}
	return addr
}

func registerHwExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	hw := &hardwareInfo{
		Flags:              0x00000020,
		NumberOfProcessors: 6,
		BldrMagic:          0x4E4E,
		BldrFlags:          0x9B00,
	}
	register(r,
		cpu.Var(0x0156, "XboxHardwareInfo", allocVar(k, "XboxHardwareInfo", 16, hw)),
		// pointer to the debug monitor's data block; zero means no debugger
		cpu.Var(0x0059, "KeDebugMonitorData", allocVar(k, "KeDebugMonitorData", 0x100, nil)),
	)
}
