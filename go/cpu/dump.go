package cpu

import (
	"io"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// export map format:
// header (uncompressed): magic "XEXM", uint32 version, uint32 module count
// remainder is snappy-compressed:
//
//	per module: uint8 name length, name, uint32 capacity, uint32 export count
//	per export: uint32 ordinal, uint8 type, uint32 flags, uint16 name length, name
//
// All integers are big-endian.

var MAP_MAGIC = "XEXM"

const MAP_VERSION = 1

type mapHeader struct {
	Magic   string `struc:"[4]byte"`
	Version uint32
	Modules uint32
}

type mapModule struct {
	NameLen  uint8 `struc:"sizeof=Name"`
	Name     string
	Capacity uint32
	Count    uint32
}

type mapExport struct {
	Ordinal uint32
	Type    uint8
	Flags   uint32
	NameLen uint16 `struc:"sizeof=Name"`
	Name    string
}

// WriteMap writes every registered module and export to w.
func (r *ExportResolver) WriteMap(w io.Writer) error {
	modules := r.Modules()
	header := &mapHeader{Magic: MAP_MAGIC, Version: MAP_VERSION, Modules: uint32(len(modules))}
	if err := struc.Pack(w, header); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}
	zw := snappy.NewBufferedWriter(w)
	for _, name := range modules {
		t := r.Table(name)
		exports := r.Exports(name)
		mod := &mapModule{Name: name, Capacity: uint32(t.Capacity()), Count: uint32(len(exports))}
		if err := struc.Pack(zw, mod); err != nil {
			return errors.Wrapf(err, "failed to pack module %s", name)
		}
		for _, e := range exports {
			ent := &mapExport{Ordinal: e.Ordinal, Type: uint8(e.Type), Flags: uint32(e.Flags), Name: e.Name}
			if err := struc.Pack(zw, ent); err != nil {
				return errors.Wrapf(err, "failed to pack %s!%s", name, e.Name)
			}
		}
	}
	return errors.Wrap(zw.Close(), "failed to flush export map")
}

// ReadMap loads an export map as tables of stubs.
func ReadMap(rd io.Reader) ([]*ExportTable, error) {
	var header mapHeader
	if err := struc.Unpack(rd, &header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if header.Magic != MAP_MAGIC {
		return nil, errors.New("invalid export map magic")
	}
	if header.Version != MAP_VERSION {
		return nil, errors.Errorf("unsupported export map version %d", header.Version)
	}
	zr := snappy.NewReader(rd)
	tables := make([]*ExportTable, 0, header.Modules)
	for i := uint32(0); i < header.Modules; i++ {
		var mod mapModule
		if err := struc.Unpack(zr, &mod); err != nil {
			return nil, errors.Wrap(err, "failed to unpack module")
		}
		if mod.Capacity == 0 {
			return nil, errors.Errorf("module %s has no capacity", mod.Name)
		}
		t := NewExportTable(mod.Name, int(mod.Capacity))
		for j := uint32(0); j < mod.Count; j++ {
			var ent mapExport
			if err := struc.Unpack(zr, &ent); err != nil {
				return nil, errors.Wrapf(err, "failed to unpack export of %s", mod.Name)
			}
			if ent.Ordinal >= mod.Capacity {
				return nil, errors.Errorf("%s: ordinal %#x exceeds capacity %#x", mod.Name, ent.Ordinal, mod.Capacity)
			}
			t.merge(&Export{
				Ordinal: ent.Ordinal,
				Name:    ent.Name,
				Type:    ExportType(ent.Type),
				Flags:   ExportFlags(ent.Flags),
			})
		}
		tables = append(tables, t)
	}
	return tables, nil
}
