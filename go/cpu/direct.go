package cpu

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

var ErrNoExecution = errors.New("direct processor does not execute guest code")

// Direct is a Processor with a register file but no instruction emulation.
// Syscall runs the installed `sc` handler as if a thunk had been executed,
// which is how the REPL and tests drive exports.
type Direct struct {
	ThreadState
	onSyscall func(models.Registers)
	closed    bool
}

var _ models.Processor = (*Direct)(nil)

func NewDirect() *Direct {
	return &Direct{}
}

func (d *Direct) OnSyscall(cb func(regs models.Registers)) {
	d.onSyscall = cb
}

func (d *Direct) Syscall() error {
	if d.closed {
		return errors.New("processor closed")
	}
	if d.onSyscall == nil {
		return errors.New("no syscall handler installed")
	}
	d.onSyscall(&d.ThreadState)
	return nil
}

func (d *Direct) Start(begin, until uint64) error { return ErrNoExecution }
func (d *Direct) Stop() error                    { return nil }

func (d *Direct) Close() error {
	d.closed = true
	return nil
}
