package cpu

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

// Import thunks are four PPC instructions:
//
//	li  r0, slot
//	sc
//	blr
//	nop
//
// The `sc` handler finds the bound export from r0; blr returns to the caller
// with the result already in r3.
const (
	THUNK_SIZE = 16
	MAX_SLOT   = 0x7fff

	ppcLi  = 0x38000000
	ppcSc  = 0x44000002
	ppcBlr = 0x4e800020
	ppcNop = 0x60000000
)

type thunk struct {
	Li, Sc, Blr, Nop uint32
}

func WriteThunk(mem models.Memory, addr uint32, slot uint32) error {
	if slot > MAX_SLOT {
		return errors.Errorf("thunk slot %#x out of range", slot)
	}
	t := &thunk{Li: ppcLi | slot, Sc: ppcSc, Blr: ppcBlr, Nop: ppcNop}
	return errors.Wrapf(mem.StrucAt(addr).Pack(t), "writing thunk at %#x", addr)
}

// ReadThunk decodes the slot of the thunk at addr.
func ReadThunk(mem models.Memory, addr uint32) (uint32, error) {
	var t thunk
	if err := mem.StrucAt(addr).Unpack(&t); err != nil {
		return 0, errors.Wrapf(err, "reading thunk at %#x", addr)
	}
	if t.Li&0xffff0000 != ppcLi || t.Sc != ppcSc || t.Blr != ppcBlr {
		return 0, errors.Errorf("no thunk at %#x", addr)
	}
	return t.Li & 0xffff, nil
}
