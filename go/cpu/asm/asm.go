package asm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	ks "github.com/keystone-engine/keystone/bindings/go/keystone"
	cs "github.com/lunixbochs/capstr"
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

type Ins interface {
	Addr() uint64
	Bytes() []byte
	Mnemonic() string
	OpStr() string
}

// Assembler assembles PPC32 big-endian code with Keystone.
type Assembler struct {
	mu sync.Mutex
	ks *ks.Keystone
}

func (a *Assembler) open() (err error) {
	a.ks, err = ks.New(ks.ARCH_PPC, ks.MODE_PPC32|ks.MODE_BIG_ENDIAN)
	return errors.Wrap(err, "ks.New() failed")
}

func (a *Assembler) Asm(src string, addr uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ks == nil {
		if err := a.open(); err != nil {
			return nil, err
		}
	}
	out, _, ok := a.ks.Assemble(src, uint64(addr))
	if !ok {
		return nil, errors.Wrap(a.ks.LastError(), "ks.Assemble() failed")
	}
	return out, nil
}

func (a *Assembler) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ks == nil {
		return nil
	}
	err := a.ks.Close()
	a.ks = nil
	return err
}

type disEntry struct {
	mem []byte
	dis []Ins
}

// Disassembler disassembles PPC32 big-endian code with Capstone. Results
// are cached by address and invalidated when the bytes change.
type Disassembler struct {
	mu    sync.Mutex
	cs    *cs.Engine
	cache *lru.Cache
}

func (d *Disassembler) open() error {
	engine, err := cs.New(cs.ARCH_PPC, cs.MODE_32|cs.MODE_BIG_ENDIAN)
	if err != nil {
		return errors.Wrap(err, "cs.New() failed")
	}
	d.cs = engine
	d.cache, _ = lru.New(256)
	return nil
}

func (d *Disassembler) Dis(mem []byte, addr uint32) ([]Ins, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cs == nil {
		if err := d.open(); err != nil {
			return nil, err
		}
	}
	if v, ok := d.cache.Get(addr); ok {
		if ent := v.(*disEntry); bytes.Equal(ent.mem, mem) {
			return ent.dis, nil
		}
	}
	dis, err := d.cs.Dis(mem, uint64(addr), 0)
	if err != nil {
		return nil, errors.Wrap(err, "capstone disassembly failed")
	}
	ret := make([]Ins, len(dis))
	for i, v := range dis {
		ret[i] = v
	}
	d.cache.Add(addr, &disEntry{mem: append([]byte(nil), mem...), dis: ret})
	return ret, nil
}

// Listing disassembles size bytes of guest memory at addr as
// `0xaddr: bytes mnemonic operands` lines.
func (d *Disassembler) Listing(mem models.Memory, addr, size uint32) (string, error) {
	buf := make([]byte, size)
	if err := mem.Read(addr, buf); err != nil {
		return "", err
	}
	dis, err := d.Dis(buf, addr)
	if err != nil {
		return "", err
	}
	out := make([]string, len(dis))
	for i, ins := range dis {
		out[i] = fmt.Sprintf("0x%08x: %s %s %s", ins.Addr(), hex.EncodeToString(ins.Bytes()), ins.Mnemonic(), ins.OpStr())
	}
	return strings.Join(out, "\n"), nil
}
