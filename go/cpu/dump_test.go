package cpu

import (
	"bytes"
	"testing"
)

func TestExportMap(t *testing.T) {
	r := NewExportResolver()
	r.DeclareModule("xboxkrnl.exe", 1024)
	r.RegisterTable("xboxkrnl.exe", []*Export{
		{Ordinal: 0x3, Name: "DbgPrint", Fn: func() {}, Flags: ExportImplemented},
		{Ordinal: 0x156, Name: "XboxHardwareInfo", Type: ExportVariable, VariablePtr: 0x70000000},
	})
	r.RegisterTable("xam.xex", []*Export{{Ordinal: 0x190, Name: "XamInputGetCapabilities"}})

	var buf bytes.Buffer
	if err := r.WriteMap(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte(MAP_MAGIC)) {
		t.Fatalf("missing magic: % x", buf.Bytes()[:8])
	}
	tables, err := ReadMap(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 || tables[0].Module != "xam.xex" || tables[1].Module != "xboxkrnl.exe" {
		t.Fatalf("tables = %v", tables)
	}
	krnl := tables[1]
	if krnl.Capacity() != 1024 || krnl.Len() != 2 {
		t.Fatalf("xboxkrnl capacity %d, len %d", krnl.Capacity(), krnl.Len())
	}
	dbg := krnl.Lookup("DbgPrint")
	if dbg == nil || dbg.Ordinal != 3 || dbg.Flags != ExportImplemented || !dbg.IsStub() {
		t.Fatalf("DbgPrint = %+v", dbg)
	}
	if v := krnl.Get(0x156); v == nil || v.Type != ExportVariable {
		t.Fatalf("XboxHardwareInfo = %+v", v)
	}

	if _, err := ReadMap(bytes.NewReader([]byte("NOPE\x00\x00\x00\x01\x00\x00\x00\x00"))); err == nil {
		t.Error("accepted a bad magic")
	}
}
