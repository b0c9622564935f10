package cpu

import (
	"strings"
	"sync"
	"testing"
)

func expectPanic(t *testing.T, contains string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, contains) {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	f()
}

func TestFirstRegistrationWins(t *testing.T) {
	r := NewExportResolver()
	foo := &Export{Ordinal: 5, Name: "Foo"}
	bar := &Export{Ordinal: 5, Name: "Bar"}
	if n := r.RegisterTable("M", []*Export{foo}); n != 1 {
		t.Fatalf("inserted %d", n)
	}
	if n := r.RegisterTable("M", []*Export{bar}); n != 0 {
		t.Fatalf("second registration inserted %d", n)
	}
	if e := r.Resolve("M", 5); e != foo {
		t.Fatalf("Resolve(M, 5) = %v, want Foo", e)
	}
	if e := r.ResolveName("M", "Bar"); e != nil {
		t.Fatalf("shadowed export resolvable by name: %v", e)
	}
	if e := r.ResolveName("M", "Foo"); e != foo {
		t.Fatalf("ResolveName(M, Foo) = %v", e)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewExportResolver()
	exports := []*Export{{Ordinal: 1, Name: "A"}, {Ordinal: 2, Name: "B"}}
	r.RegisterTable("M", exports)
	r.RegisterTable("M", exports)
	if l := r.Table("M").Len(); l != 2 {
		t.Fatalf("table has %d entries", l)
	}
	got := r.Exports("M")
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("Exports = %v", got)
	}
}

func TestCapacityEnforced(t *testing.T) {
	r := NewExportResolver()
	r.DeclareModule("small", 16)
	r.RegisterTable("small", []*Export{{Ordinal: 15, Name: "Last"}})
	expectPanic(t, "exceeds capacity", func() {
		r.RegisterTable("small", []*Export{{Ordinal: 16, Name: "TooFar"}})
	})
	expectPanic(t, "exceeds capacity", func() {
		r.RegisterTable("small", []*Export{{Ordinal: 3, Name: "Fine"}, {Ordinal: 99, Name: "TooFar"}})
	})
	if r.Table("small").Len() != 1 || r.Resolve("small", 16) != nil || r.Resolve("small", 3) != nil {
		t.Fatal("table changed by a rejected registration")
	}
	// undeclared modules get the default capacity
	expectPanic(t, "exceeds capacity", func() {
		r.RegisterTable("big", []*Export{{Ordinal: DefaultExportCapacity}})
	})
}

func TestUnresolved(t *testing.T) {
	r := NewExportResolver()
	r.RegisterTable("M", []*Export{{Ordinal: 1, Name: "One"}})
	if e := r.Resolve("Unknown", 1); e != nil {
		t.Errorf("unknown module resolved to %v", e)
	}
	if e := r.Resolve("M", 99999); e != nil {
		t.Errorf("out of range ordinal resolved to %v", e)
	}
	if e := r.Resolve("M", 2); e != nil {
		t.Errorf("empty slot resolved to %v", e)
	}
	if e := r.ResolveName("M", "Two"); e != nil {
		t.Errorf("unknown name resolved to %v", e)
	}
	if e := r.ResolveName("Unknown", "One"); e != nil {
		t.Errorf("unknown module resolved by name to %v", e)
	}
}

func TestResolveDuringRegistration(t *testing.T) {
	r := NewExportResolver()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 256; i++ {
				r.RegisterTable("M", []*Export{{Ordinal: uint32(i), Name: "E"}})
				r.Resolve("M", uint32(255-i))
			}
		}(g)
	}
	wg.Wait()
	if r.Table("M").Len() != 256 {
		t.Fatalf("table has %d entries", r.Table("M").Len())
	}
}

func TestModulesSorted(t *testing.T) {
	r := NewExportResolver()
	for _, name := range []string{"xboxkrnl.exe", "mod10.xex", "mod2.xex"} {
		r.DeclareModule(name, 8)
	}
	got := strings.Join(r.Modules(), ",")
	if got != "mod2.xex,mod10.xex,xboxkrnl.exe" {
		t.Fatalf("Modules() = %s", got)
	}
}

func TestStub(t *testing.T) {
	fn := &Export{Name: "Fn", Fn: func() {}}
	stub := &Export{Name: "Stub"}
	v := &Export{Name: "Var", Type: ExportVariable, VariablePtr: 0x1000}
	if fn.IsStub() || !stub.IsStub() || v.IsStub() {
		t.Fatal("IsStub")
	}
	if !strings.HasSuffix(stub.String(), "(stub)") {
		t.Errorf("stub String() = %s", stub)
	}
}
