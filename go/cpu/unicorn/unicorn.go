package unicorn

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/memory"
	"github.com/lunixbochs/xecorn/go/models"
)

// Processor runs PPC32 big-endian guest code on Unicorn. Guest memory is
// shared with the Memory it was built from, so kernel writes are visible to
// the emulator without copying.
type Processor struct {
	uc.Unicorn

	mem *memory.Memory

	mu        sync.Mutex
	mapped    map[uint32]bool
	onSyscall func(models.Registers)
}

var _ models.Processor = (*Processor)(nil)

func New(mem *memory.Memory) (*Processor, error) {
	u, err := uc.NewUnicorn(uc.ARCH_PPC, uc.MODE_PPC32|uc.MODE_BIG_ENDIAN)
	if err != nil {
		return nil, errors.Wrap(err, "NewUnicorn() failed")
	}
	p := &Processor{Unicorn: u, mem: mem, mapped: make(map[uint32]bool)}
	if _, err := u.HookAdd(uc.HOOK_INTR, p.intr, 1, 0); err != nil {
		u.Close()
		return nil, errors.Wrap(err, "failed to hook interrupts")
	}
	if _, err := u.HookAdd(uc.HOOK_MEM_INVALID, p.fault, 1, 0); err != nil {
		u.Close()
		return nil, errors.Wrap(err, "failed to hook memory faults")
	}
	if err := p.Sync(); err != nil {
		u.Close()
		return nil, err
	}
	return p, nil
}

// Sync maps any guest regions created since the last call.
func (p *Processor) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.mem.Regions() {
		if p.mapped[r.Base] {
			continue
		}
		err := p.Unicorn.MemMapPtr(uint64(r.Base), uint64(r.Size), uc.PROT_ALL, unsafe.Pointer(&r.Data[0]))
		if err != nil {
			return errors.Wrapf(err, "mapping %s", r)
		}
		p.mapped[r.Base] = true
	}
	return nil
}

func ucReg(reg int) (int, error) {
	switch {
	case reg >= models.REG_R0 && reg <= models.REG_R31:
		return uc.PPC_REG_0 + reg, nil
	case reg == models.REG_PC:
		return uc.PPC_REG_PC, nil
	case reg == models.REG_LR:
		return uc.PPC_REG_LR, nil
	case reg == models.REG_CTR:
		return uc.PPC_REG_CTR, nil
	}
	return 0, errors.Errorf("invalid register %d", reg)
}

func (p *Processor) RegRead(reg int) (uint64, error) {
	r, err := ucReg(reg)
	if err != nil {
		return 0, err
	}
	val, err := p.Unicorn.RegRead(r)
	return uint64(uint32(val)), err
}

func (p *Processor) RegWrite(reg int, val uint64) error {
	r, err := ucReg(reg)
	if err != nil {
		return err
	}
	return p.Unicorn.RegWrite(r, uint64(uint32(val)))
}

func (p *Processor) OnSyscall(cb func(regs models.Registers)) {
	p.mu.Lock()
	p.onSyscall = cb
	p.mu.Unlock()
}

// The only interrupt thunks raise is `sc`. The handler returns to lr itself,
// completing the thunk's blr.
func (p *Processor) intr(_ uc.Unicorn, intno uint32) {
	p.mu.Lock()
	cb := p.onSyscall
	p.mu.Unlock()
	if cb == nil {
		log.L.Error("guest syscall with no handler", "intno", intno)
		p.Stop()
		return
	}
	cb(p)
	lr, err := p.RegRead(models.REG_LR)
	if err == nil {
		err = p.RegWrite(models.REG_PC, lr)
	}
	if err != nil {
		log.L.Error("returning from syscall", "error", err)
		p.Stop()
	}
}

func (p *Processor) fault(_ uc.Unicorn, access int, addr uint64, size int, value int64) bool {
	pc, _ := p.RegRead(models.REG_PC)
	log.L.Error("guest memory fault", "access", access, "addr", addr, "size", size, "pc", pc)
	return false
}

func (p *Processor) Start(begin, until uint64) error {
	if err := p.Sync(); err != nil {
		return err
	}
	return errors.Wrap(p.Unicorn.Start(begin, until), "emulation stopped")
}
