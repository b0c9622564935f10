package memory

import (
	"bytes"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

// Memory is a sparse 32-bit big-endian guest address space.
// Host-side accesses ignore page protections, the same way a CPU backend's
// MemRead/MemWrite do.
type Memory struct {
	mu       sync.RWMutex
	regions  regionList
	heap     *Heap
	released bool
}

var _ models.Memory = (*Memory)(nil)

func New() *Memory {
	return &Memory{}
}

func (m *Memory) Map(base, size uint32, prot int, desc string) (*Region, error) {
	if base%PAGE_SIZE != 0 {
		return nil, errors.Errorf("unaligned mapping base %#x", base)
	}
	if size == 0 {
		return nil, errors.New("zero-sized mapping")
	}
	size64 := AlignUp(uint64(size), PAGE_SIZE)
	if uint64(base)+size64 > 1<<32 {
		return nil, errors.Errorf("mapping %#x+%#x outside address space", base, size64)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, ErrReleased
	}
	for _, r := range m.regions {
		if r.Overlaps(base, uint32(size64)) {
			return nil, errors.Wrapf(ErrOverlap, "map %#x+%#x (%s)", base, size64, r)
		}
	}
	r := &Region{Base: base, Size: uint32(size64), Prot: prot, Desc: desc, Data: make([]byte, size64)}
	m.regions = append(m.regions, r)
	sort.Sort(m.regions)
	return r, nil
}

func (m *Memory) Unmap(base uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.regions {
		if r.Base == base {
			m.regions = append(m.regions[:i], m.regions[i+1:]...)
			return nil
		}
	}
	return errors.Errorf("no mapping at %#x", base)
}

func (m *Memory) Regions() []*Region {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Region(nil), m.regions...)
}

// caller holds m.mu
func (m *Memory) find(addr uint32) *Region {
	i := sort.Search(len(m.regions), func(i int) bool {
		return m.regions[i].End() > uint64(addr)
	})
	if i < len(m.regions) && m.regions[i].Contains(addr) {
		return m.regions[i]
	}
	return nil
}

func (m *Memory) span(addr uint32, n int, enum int) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.released {
		return nil, ErrReleased
	}
	r := m.find(addr)
	if r == nil || uint64(addr)+uint64(n) > r.End() {
		return nil, &MemError{Addr: addr, Size: n, Enum: enum}
	}
	off := addr - r.Base
	return r.Data[off : off+uint32(n)], nil
}

func (m *Memory) TranslateVirtual(addr uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.released {
		return nil, ErrReleased
	}
	r := m.find(addr)
	if r == nil {
		return nil, &MemError{Addr: addr, Size: 0, Enum: MEM_READ_UNMAPPED}
	}
	return r.Data[addr-r.Base:], nil
}

func (m *Memory) Read(addr uint32, p []byte) error {
	mem, err := m.span(addr, len(p), MEM_READ_UNMAPPED)
	if err != nil {
		return err
	}
	copy(p, mem)
	return nil
}

func (m *Memory) Write(addr uint32, p []byte) error {
	mem, err := m.span(addr, len(p), MEM_WRITE_UNMAPPED)
	if err != nil {
		return err
	}
	copy(mem, p)
	return nil
}

func (m *Memory) ReadU32(addr uint32) (uint32, error) {
	mem, err := m.span(addr, 4, MEM_READ_UNMAPPED)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(mem), nil
}

func (m *Memory) WriteU32(addr uint32, val uint32) error {
	mem, err := m.span(addr, 4, MEM_WRITE_UNMAPPED)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(mem, val)
	return nil
}

// Reads a NUL-terminated string. An unterminated string runs to the end of its mapping.
func (m *Memory) ReadStrAt(addr uint32) (string, error) {
	mem, err := m.TranslateVirtual(addr)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(mem, 0); i >= 0 {
		mem = mem[:i]
	}
	return string(mem), nil
}

func (m *Memory) StrucAt(addr uint32) *models.StrucStream {
	return &models.StrucStream{Stream: &Cursor{Mem: m, Addr: addr}, Order: binary.BigEndian}
}

// SetHeap maps the system heap used by Alloc.
func (m *Memory) SetHeap(base, size uint32) (*Heap, error) {
	r, err := m.Map(base, size, PROT_READ|PROT_WRITE, "system heap")
	if err != nil {
		return nil, errors.Wrap(err, "failed to map system heap")
	}
	h := NewHeap(r.Base, r.Size)
	m.mu.Lock()
	m.heap = h
	m.mu.Unlock()
	return h, nil
}

func (m *Memory) Heap() *Heap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heap
}

func (m *Memory) Alloc(size, align uint32) (uint32, error) {
	h := m.Heap()
	if h == nil {
		return 0, errors.New("no system heap mapped")
	}
	return h.Alloc(size, align)
}

// Release drops every mapping. Any later access fails with ErrReleased.
func (m *Memory) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	m.regions = nil
	m.heap = nil
}

// Cursor is a sequential reader/writer over guest memory.
type Cursor struct {
	Mem  *Memory
	Addr uint32
}

func (c *Cursor) Read(p []byte) (int, error) {
	if err := c.Mem.Read(c.Addr, p); err != nil {
		return 0, err
	}
	c.Addr += uint32(len(p))
	return len(p), nil
}

func (c *Cursor) Write(p []byte) (int, error) {
	if err := c.Mem.Write(c.Addr, p); err != nil {
		return 0, err
	}
	c.Addr += uint32(len(p))
	return len(p), nil
}
