package cpu

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/memory"
)

type ctxKey struct{}

func newTestMem(t *testing.T) *memory.Memory {
	mem := memory.New()
	if _, err := mem.Map(0x10000, 0x1000, memory.PROT_READ|memory.PROT_WRITE, "test"); err != nil {
		t.Fatal(err)
	}
	return mem
}

func TestCallConvertsArgs(t *testing.T) {
	mem := newTestMem(t)
	mem.Write(0x10100, []byte("game:\\default.xex\x00"))

	var (
		gotPath  string
		gotCount int32
		gotFlags uint32
		gotPtr   Ptr
	)
	e := &Export{Name: "Open", Fn: func(path string, count int32, flags uint32, p Ptr, out Buf) uint32 {
		gotPath, gotCount, gotFlags, gotPtr = path, count, flags, p
		out.PutU32(0x1234)
		return 0xc0000001
	}}
	caller := NewCaller(mem)
	args := []uint64{0x10100, 0xffffffff, 0x100000007, 0x10200, 0x10300, 0, 0, 0}
	ret, err := caller.Call(context.Background(), e, args)
	if err != nil {
		t.Fatal(err)
	}
	if ret != 0xc0000001 {
		t.Errorf("ret = %#x", ret)
	}
	if gotPath != "game:\\default.xex" || gotCount != -1 || gotFlags != 7 || gotPtr != 0x10200 {
		t.Errorf("converted args: %q %d %#x %#x", gotPath, gotCount, gotFlags, gotPtr)
	}
	if v, _ := mem.ReadU32(0x10300); v != 0x1234 {
		t.Errorf("out param = %#x", v)
	}
}

func TestCallContext(t *testing.T) {
	var got interface{}
	e := &Export{Name: "Wait", Fn: func(ctx context.Context, h uint32) uint32 {
		got = ctx.Value(ctxKey{})
		return h + 1
	}}
	in, wantsCtx := Params(e.Fn)
	if !wantsCtx || len(in) != 1 {
		t.Fatalf("Params = %v, %v", in, wantsCtx)
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "thread")
	ret, err := NewCaller(newTestMem(t)).Call(ctx, e, []uint64{0x1001, 0, 0, 0, 0, 0, 0, 0})
	if err != nil || ret != 0x1002 || got != "thread" {
		t.Fatalf("ret = %#x, err = %v, ctx value = %v", ret, err, got)
	}
}

func TestCallFailures(t *testing.T) {
	caller := NewCaller(newTestMem(t))
	args := make([]uint64, 8)
	if _, err := caller.Call(context.TODO(), &Export{Name: "Stub"}, args); errors.Cause(err) != ErrStub {
		t.Errorf("stub call: %v", err)
	}
	tooMany := &Export{Name: "Nine", Fn: func(a, b, c, d, e, f, g, h, i uint32) {}}
	if _, err := caller.Call(context.TODO(), tooMany, args); err == nil {
		t.Error("called a function with more parameters than argument registers")
	}
	badStr := &Export{Name: "Str", Fn: func(s string) {}}
	if _, err := caller.Call(context.TODO(), badStr, []uint64{0x90000000}); err == nil {
		t.Error("converted a string from unmapped memory")
	}
	boom := &Export{Name: "Boom", Fn: func() uint32 { panic("boom") }}
	if _, err := caller.Call(context.TODO(), boom, args); err == nil {
		t.Error("panic in export escaped as success")
	}
	noRet := &Export{Name: "Void", Fn: func() {}}
	if ret, err := caller.Call(context.TODO(), noRet, args); err != nil || ret != 0 {
		t.Errorf("void call = %#x, %v", ret, err)
	}
}

func TestBuf(t *testing.T) {
	mem := newTestMem(t)
	b := NewBuf(mem, 0x10010)
	if err := b.Pack(&struct{ A, B uint32 }{1, 2}); err != nil {
		t.Fatal(err)
	}
	raw, err := b.Bytes(8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, []byte{0, 0, 0, 1, 0, 0, 0, 2}) {
		t.Fatalf("packed % x", raw)
	}
	if _, err := NewBuf(mem, 0x10ff0).Bytes(0x20); err == nil {
		t.Error("Bytes crossed the end of a mapping")
	}
	null := NewBuf(mem, 0)
	if err := null.PutU32(1); err != ErrNullPointer {
		t.Errorf("PutU32 through NULL: %v", err)
	}
}
