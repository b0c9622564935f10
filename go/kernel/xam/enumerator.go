package xam

import (
	"sync"

	"github.com/lunixbochs/xecorn/go/kernel"
)

// Enumerator hands out fixed-size records to XamEnumerate.
type Enumerator struct {
	kernel.ObjectBase

	ItemSize uint32

	mu    sync.Mutex
	items [][]byte
	pos   int
}

func NewEnumerator(k *kernel.KernelState, itemSize uint32, items [][]byte) *Enumerator {
	e := &Enumerator{ItemSize: itemSize, items: items}
	e.Init(k, kernel.TypeEnumerator, nil)
	return e
}

// Next returns up to max records, each padded to ItemSize.
func (e *Enumerator) Next(max int) [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out [][]byte
	for ; e.pos < len(e.items) && len(out) < max; e.pos++ {
		rec := make([]byte, e.ItemSize)
		copy(rec, e.items[e.pos])
		out = append(out, rec)
	}
	return out
}

func (e *Enumerator) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items) - e.pos
}
