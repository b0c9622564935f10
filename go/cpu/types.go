package cpu

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

// Parameter types understood by the argument codec.
type (
	Ptr   uint32
	Dword uint32
	// Buf is a guest pointer that can be written through.
	Buf struct {
		Addr uint32
		Mem  models.Memory
	}
)

var ErrNullPointer = errors.New("null guest pointer")

func NewBuf(mem models.Memory, addr uint32) Buf {
	return Buf{Addr: addr, Mem: mem}
}

func (b Buf) IsNull() bool { return b.Addr == 0 }

func (b Buf) Struc() *models.StrucStream {
	return b.Mem.StrucAt(b.Addr)
}

func (b Buf) Pack(i interface{}) error {
	if b.IsNull() {
		return ErrNullPointer
	}
	return errors.Wrap(b.Struc().Pack(i), "struc.Pack() failed")
}

func (b Buf) Unpack(i interface{}) error {
	if b.IsNull() {
		return ErrNullPointer
	}
	return errors.Wrap(b.Struc().Unpack(i), "struc.Unpack() failed")
}

func (b Buf) PutU32(val uint32) error {
	if b.IsNull() {
		return ErrNullPointer
	}
	return b.Mem.WriteU32(b.Addr, val)
}

func (b Buf) U32() (uint32, error) {
	if b.IsNull() {
		return 0, ErrNullPointer
	}
	return b.Mem.ReadU32(b.Addr)
}

// Bytes returns a host view of n bytes at b.
func (b Buf) Bytes(n uint32) ([]byte, error) {
	if b.IsNull() {
		return nil, ErrNullPointer
	}
	mem, err := b.Mem.TranslateVirtual(b.Addr)
	if err != nil {
		return nil, err
	}
	if uint32(len(mem)) < n {
		return nil, errors.Errorf("buffer %#x+%#x crosses the end of its mapping", b.Addr, n)
	}
	return mem[:n], nil
}
