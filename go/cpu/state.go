package cpu

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

var ErrInvalidRegister = errors.New("invalid register")

// ThreadState is a guest register file: r0-r31, pc, lr and ctr.
type ThreadState struct {
	mu   sync.Mutex
	regs [models.REG_COUNT]uint64
}

var _ models.Registers = (*ThreadState)(nil)

func (s *ThreadState) RegRead(reg int) (uint64, error) {
	if reg < 0 || reg >= models.REG_COUNT {
		return 0, ErrInvalidRegister
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg], nil
}

func (s *ThreadState) RegWrite(reg int, val uint64) error {
	if reg < 0 || reg >= models.REG_COUNT {
		return ErrInvalidRegister
	}
	s.mu.Lock()
	s.regs[reg] = val
	s.mu.Unlock()
	return nil
}

// ReadArgs returns the argument registers of any register file, in order.
func ReadArgs(regs models.Registers) ([]uint64, error) {
	args := make([]uint64, len(models.ArgRegs))
	for i, reg := range models.ArgRegs {
		val, err := regs.RegRead(reg)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// WriteArgs loads args into the argument registers.
func WriteArgs(regs models.Registers, args ...uint64) error {
	if len(args) > len(models.ArgRegs) {
		return errors.Errorf("too many arguments: %d > %d", len(args), len(models.ArgRegs))
	}
	for i, val := range args {
		if err := regs.RegWrite(models.ArgRegs[i], val); err != nil {
			return err
		}
	}
	return nil
}
