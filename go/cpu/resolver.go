package cpu

import (
	"sort"
	"sync"

	"github.com/lunixbochs/fvbommel-util/sortorder"
)

// ExportResolver maps module names to their export tables.
//
// Tables are filled during module construction and only read afterwards, but
// registration and lookup share a lock so guest code that starts early still
// sees consistent tables.
type ExportResolver struct {
	mu     sync.RWMutex
	tables map[string]*ExportTable
}

func NewExportResolver() *ExportResolver {
	return &ExportResolver{tables: make(map[string]*ExportTable)}
}

// DeclareModule creates the table for module with a fixed capacity.
// It has no effect if the table already exists.
func (r *ExportResolver) DeclareModule(module string, capacity int) *ExportTable {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table(module, capacity)
}

// caller holds r.mu
func (r *ExportResolver) table(module string, capacity int) *ExportTable {
	t, ok := r.tables[module]
	if !ok {
		t = NewExportTable(module, capacity)
		r.tables[module] = t
	}
	return t
}

// RegisterTable merges exports into module's table. The first export
// registered for an ordinal wins; later ones for the same ordinal are
// ignored, so re-registering is harmless. Returns the number inserted.
// Panics if any ordinal is out of range for the module, before any
// export is inserted.
func (r *ExportResolver) RegisterTable(module string, exports []*Export) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.table(module, DefaultExportCapacity)
	for _, e := range exports {
		t.check(e)
	}
	inserted := 0
	for _, e := range exports {
		if t.merge(e) {
			inserted++
		}
	}
	return inserted
}

// Resolve returns nil if the module or ordinal is unknown.
func (r *ExportResolver) Resolve(module string, ordinal uint32) *Export {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tables[module]; ok {
		return t.Get(ordinal)
	}
	return nil
}

// ResolveName returns nil if the module or symbol is unknown.
func (r *ExportResolver) ResolveName(module, name string) *Export {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tables[module]; ok {
		return t.Lookup(name)
	}
	return nil
}

func (r *ExportResolver) Table(module string) *ExportTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables[module]
}

func (r *ExportResolver) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
	return names
}

// Exports lists a module's populated ordinals, or nil for an unknown module.
func (r *ExportResolver) Exports(module string) []*Export {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tables[module]; ok {
		return t.Exports()
	}
	return nil
}
