package models

// register enums for the guest register file
const (
	REG_R0  = 0
	REG_R3  = 3
	REG_R10 = 10
	REG_R31 = 31
	REG_PC  = 32
	REG_LR  = 33
	REG_CTR = 34

	REG_COUNT = 35
)

// argument registers, in calling convention order
var ArgRegs = []int{3, 4, 5, 6, 7, 8, 9, 10}

type Registers interface {
	RegRead(reg int) (uint64, error)
	RegWrite(reg int, val uint64) error
}

// The instruction emulator, as far as the kernel is concerned.
type Processor interface {
	Registers

	// OnSyscall installs the handler run when guest code executes `sc`.
	OnSyscall(cb func(regs Registers))

	Start(begin, until uint64) error
	Stop() error
	Close() error
}

// Implemented by processors able to run additional guest threads.
type ThreadStarter interface {
	StartThread(id, entry, param, stackSize uint32) error
}
