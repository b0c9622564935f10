package kernel

import (
	"sort"
	"sync/atomic"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/log"
)

type ModuleState int32

const (
	ModuleUninitialized ModuleState = iota
	ModuleActive
)

func (s ModuleState) String() string {
	if s == ModuleActive {
		return "active"
	}
	return "uninitialized"
}

// ExportGroup registers one functional area of a module into the resolver.
type ExportGroup func(r *cpu.ExportResolver, k *KernelState)

// Module is a guest module image whose exports are provided by the kernel.
type Module struct {
	Name     string
	Path     string
	Capacity int

	kernel *KernelState
	state  atomic.Int32
}

func NewModule(k *KernelState, name, path string, capacity int) *Module {
	return &Module{Name: name, Path: path, Capacity: capacity, kernel: k}
}

func (m *Module) Kernel() *KernelState { return m.kernel }
func (m *Module) State() ModuleState   { return ModuleState(m.state.Load()) }

// Activate runs groups in order against the module's export table and
// makes the module visible to the kernel. A group registering an ordinal
// past the table capacity panics, leaving the module uninitialized.
func (m *Module) Activate(groups ...ExportGroup) {
	if m.State() == ModuleActive {
		panic("module " + m.Name + " activated twice")
	}
	r := m.kernel.Resolver
	r.DeclareModule(m.Name, m.Capacity)
	for _, g := range groups {
		g(r, m.kernel)
	}
	m.kernel.addModule(m)
	m.state.Store(int32(ModuleActive))
	log.L.Debug("module active", "name", m.Name, "exports", r.Table(m.Name).Len())
}

func (k *KernelState) addModule(m *Module) {
	k.modMu.Lock()
	k.modules[m.Name] = m
	k.modMu.Unlock()
}

func (k *KernelState) GetModule(name string) *Module {
	k.modMu.Lock()
	defer k.modMu.Unlock()
	return k.modules[name]
}

func (k *KernelState) Modules() []*Module {
	k.modMu.Lock()
	out := make([]*Module, 0, len(k.modules))
	for _, m := range k.modules {
		out = append(out, m)
	}
	k.modMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
