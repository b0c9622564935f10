package xecorn

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/kernel/xam"
	"github.com/lunixbochs/xecorn/go/kernel/xboxkrnl"
	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/memory"
	"github.com/lunixbochs/xecorn/go/models"
)

type Runtime struct {
	Config     *models.Config
	Mem        *memory.Memory
	Processor  models.Processor
	Resolver   *cpu.ExportResolver
	Kernel     *kernel.KernelState
	Dispatcher *kernel.Dispatcher

	Xboxkrnl *kernel.Module
	Xam      *kernel.Module

	ctx      context.Context
	cancel   context.CancelFunc
	shutdown sync.Once
}

type Option func(r *Runtime) error

// WithProcessor replaces the default register-file processor. The
// processor receives the runtime's memory through newProc.
func WithProcessor(newProc func(mem *memory.Memory) (models.Processor, error)) Option {
	return func(r *Runtime) error {
		p, err := newProc(r.Mem)
		if err != nil {
			return errors.Wrap(err, "failed to create processor")
		}
		r.Processor = p
		return nil
	}
}

func NewRuntime(config *models.Config, opts ...Option) (*Runtime, error) {
	config = config.Init()
	r := &Runtime{Config: config, Mem: memory.New()}
	if _, err := r.Mem.SetHeap(config.HeapBase, config.HeapSize); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Mem.Release()
			return nil, err
		}
	}
	if r.Processor == nil {
		r.Processor = cpu.NewDirect()
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.Resolver = cpu.NewExportResolver()
	r.Kernel = kernel.NewKernelState(r.Mem, r.Processor, r.Resolver, config)
	r.Xboxkrnl = xboxkrnl.NewModule(r.Kernel)
	r.Xam = xam.NewModule(r.Kernel)

	r.Dispatcher = kernel.NewDispatcher(r.Kernel)
	if config.TraceCalls {
		r.Dispatcher.Tracer = &cpu.Tracer{
			W:       config.Output,
			Mem:     r.Mem,
			Color:   config.Color,
			Strsize: config.Strsize,
		}
	}
	r.Dispatcher.Attach(r.ctx, r.Processor)
	log.L.Debug("runtime ready", "modules", len(r.Kernel.Modules()), "heap", config.HeapBase)
	return r, nil
}

// Context is cancelled by Shutdown, which alerts any export blocked in a wait.
func (r *Runtime) Context() context.Context { return r.ctx }

// Call runs an export by name with raw argument values.
func (r *Runtime) Call(module, name string, args ...uint64) (uint64, error) {
	e := r.Resolver.ResolveName(module, name)
	if e == nil {
		return 0, errors.Errorf("unresolved export %s!%s", module, name)
	}
	return r.Dispatcher.Call(r.ctx, module, e.Ordinal, args), nil
}

// Shutdown destroys kernel objects, then closes the processor, then drops
// guest memory. Later calls do nothing.
func (r *Runtime) Shutdown() error {
	var err error
	r.shutdown.Do(func() {
		r.cancel()
		r.Kernel.Shutdown()
		err = errors.Wrap(r.Processor.Close(), "closing processor")
		r.Mem.Release()
	})
	return err
}
