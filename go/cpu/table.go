package cpu

import (
	"fmt"
)

const DefaultExportCapacity = 4096

// ExportTable is the ordinal-indexed export list of one guest module.
// Its capacity bounds the ordinals it can hold.
type ExportTable struct {
	Module string

	slots  []*Export
	byName map[string]*Export
	count  int
}

func NewExportTable(module string, capacity int) *ExportTable {
	if capacity <= 0 {
		panic(fmt.Sprintf("export table %s: invalid capacity %d", module, capacity))
	}
	return &ExportTable{
		Module: module,
		slots:  make([]*Export, capacity),
		byName: make(map[string]*Export),
	}
}

func (t *ExportTable) Capacity() int { return len(t.slots) }
func (t *ExportTable) Len() int      { return t.count }

// check panics on a nil export or an out-of-range ordinal, both of which
// are broken export definitions.
func (t *ExportTable) check(e *Export) {
	if e == nil {
		panic(fmt.Sprintf("export table %s: nil export", t.Module))
	}
	if uint64(e.Ordinal) >= uint64(len(t.slots)) {
		panic(fmt.Sprintf("export table %s: ordinal %#x (%s) exceeds capacity %#x",
			t.Module, e.Ordinal, e.Name, len(t.slots)))
	}
}

// merge inserts e unless its ordinal is already populated, and reports
// whether e was inserted.
func (t *ExportTable) merge(e *Export) bool {
	t.check(e)
	if t.slots[e.Ordinal] != nil {
		return false
	}
	t.slots[e.Ordinal] = e
	t.count++
	if e.Name != "" {
		if _, ok := t.byName[e.Name]; !ok {
			t.byName[e.Name] = e
		}
	}
	return true
}

func (t *ExportTable) Get(ordinal uint32) *Export {
	if uint64(ordinal) >= uint64(len(t.slots)) {
		return nil
	}
	return t.slots[ordinal]
}

func (t *ExportTable) Lookup(name string) *Export {
	return t.byName[name]
}

// Exports lists populated slots in ordinal order.
func (t *ExportTable) Exports() []*Export {
	out := make([]*Export, 0, t.count)
	for _, e := range t.slots {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
