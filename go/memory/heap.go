package memory

import (
	"sync"

	"github.com/pkg/errors"
)

// Heap is a bump allocator. Kernel structures placed here (import thunks,
// exported variables) live as long as the runtime, so nothing is freed.
type Heap struct {
	mu   sync.Mutex
	base uint32
	size uint32
	next uint64
}

func NewHeap(base, size uint32) *Heap {
	return &Heap{base: base, size: size, next: uint64(base)}
}

func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 4
	}
	if align&(align-1) != 0 {
		return 0, errors.Errorf("alignment %#x is not a power of two", align)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	addr := AlignUp(h.next, uint64(align))
	end := addr + uint64(size)
	if end > uint64(h.base)+uint64(h.size) {
		return 0, errors.Wrapf(ErrNoMemory, "alloc(%#x)", size)
	}
	h.next = end
	return uint32(addr), nil
}

func (h *Heap) Used() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return uint32(h.next - uint64(h.base))
}
