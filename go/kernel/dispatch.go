package kernel

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/models"
)

type importKey struct {
	Module  string
	Ordinal uint32
}

// Import is one bound (module, ordinal) pair.
type Import struct {
	importKey
	Slot  uint32
	Thunk uint32
}

// Dispatcher binds guest imports to thunks and runs the export behind a
// thunk when guest code executes its `sc`.
type Dispatcher struct {
	Kernel *KernelState
	Caller *cpu.Caller
	Tracer *cpu.Tracer

	mu      sync.RWMutex
	imports []*Import
	byKey   map[importKey]*Import

	warned *lru.ARCCache
}

func NewDispatcher(k *KernelState) *Dispatcher {
	warned, _ := lru.NewARC(1000)
	return &Dispatcher{
		Kernel: k,
		Caller: cpu.NewCaller(k.Mem),
		byKey:  make(map[importKey]*Import),
		warned: warned,
	}
}

// Bind returns the address a guest import of (module, ordinal) should be
// patched with: the variable's storage for variable exports, otherwise a
// thunk. Unresolved ordinals are bound too and fail when called.
func (d *Dispatcher) Bind(module string, ordinal uint32) (uint32, error) {
	if e := d.Kernel.Resolver.Resolve(module, ordinal); e != nil && e.Type == cpu.ExportVariable {
		if e.VariablePtr == 0 {
			return 0, errors.Errorf("%s!%s has no storage", module, e.Name)
		}
		return e.VariablePtr, nil
	}
	key := importKey{module, ordinal}

	d.mu.Lock()
	defer d.mu.Unlock()
	if imp, ok := d.byKey[key]; ok {
		return imp.Thunk, nil
	}
	slot := uint32(len(d.imports))
	if slot > cpu.MAX_SLOT {
		return 0, errors.Errorf("out of import slots binding %s:%#x", module, ordinal)
	}
	addr, err := d.Kernel.Mem.Alloc(cpu.THUNK_SIZE, cpu.THUNK_SIZE)
	if err != nil {
		return 0, errors.Wrap(err, "allocating thunk")
	}
	if err := cpu.WriteThunk(d.Kernel.Mem, addr, slot); err != nil {
		return 0, err
	}
	imp := &Import{importKey: key, Slot: slot, Thunk: addr}
	d.imports = append(d.imports, imp)
	d.byKey[key] = imp
	log.L.Trace("bind import", "module", module, "ordinal", ordinal, "thunk", addr)
	return addr, nil
}

// BindName binds by export name; the export must be registered.
func (d *Dispatcher) BindName(module, name string) (uint32, error) {
	e := d.Kernel.Resolver.ResolveName(module, name)
	if e == nil {
		return 0, errors.Errorf("unresolved import %s!%s", module, name)
	}
	return d.Bind(module, e.Ordinal)
}

func (d *Dispatcher) Imports() []*Import {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Import(nil), d.imports...)
}

func (d *Dispatcher) slot(n uint32) *Import {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(n) < len(d.imports) {
		return d.imports[n]
	}
	return nil
}

// Invoke handles a syscall from a thunk: r0 holds the slot, r3..r10 the
// arguments, and the result is written to r3. Missing or stub exports and
// arguments that cannot be decoded turn into guest status codes.
func (d *Dispatcher) Invoke(ctx context.Context, regs models.Registers) error {
	r0, err := regs.RegRead(models.REG_R0)
	if err != nil {
		return err
	}
	imp := d.slot(uint32(r0))
	if imp == nil {
		return errors.Errorf("syscall with unbound slot %#x", r0)
	}
	args, err := cpu.ReadArgs(regs)
	if err != nil {
		return err
	}
	ret := d.Call(ctx, imp.Module, imp.Ordinal, args)
	return regs.RegWrite(models.REG_R3, ret)
}

// Call runs (module, ordinal) with raw register arguments and returns the
// value destined for r3.
func (d *Dispatcher) Call(ctx context.Context, module string, ordinal uint32, args []uint64) uint64 {
	e := d.Kernel.Resolver.Resolve(module, ordinal)
	if e == nil || e.IsStub() || e.Type != cpu.ExportFunction {
		d.warnOnce(module, ordinal, e)
		if d.Tracer != nil {
			d.Tracer.Unresolved(module, ordinal, e)
		}
		return X_STATUS_NOT_IMPLEMENTED
	}
	ret, err := d.Caller.Call(ctx, e, args)
	if d.Tracer != nil && (d.Kernel.Config.TraceCalls || e.Flags&cpu.ExportLog != 0) {
		d.Tracer.Call(module, e, args, ret, err)
	}
	if err != nil {
		log.L.Warn("export call failed", "module", module, "export", e.Name, "error", err)
		return X_STATUS_INVALID_PARAMETER
	}
	return ret
}

func (d *Dispatcher) warnOnce(module string, ordinal uint32, e *cpu.Export) {
	key := importKey{module, ordinal}
	if d.warned.Contains(key) {
		return
	}
	d.warned.Add(key, struct{}{})
	if e != nil {
		log.L.Warn("unimplemented export", "module", module, "ordinal", ordinal, "name", e.Name)
	} else {
		log.L.Warn("unresolved export", "module", module, "ordinal", ordinal)
	}
}

// Attach routes the processor's syscalls through Invoke.
func (d *Dispatcher) Attach(ctx context.Context, p models.Processor) {
	p.OnSyscall(func(regs models.Registers) {
		if err := d.Invoke(ctx, regs); err != nil {
			log.L.Error("syscall", "error", err)
			p.Stop()
		}
	})
}
