package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/xecorn/go/cpu"
)

func TestModuleActivate(t *testing.T) {
	k := newKernel(t)
	m := NewModule(k, "test.xex", `xe:\test.xex`, 16)
	require.Equal(t, ModuleUninitialized, m.State())
	require.Nil(t, k.GetModule("test.xex"))

	var order []string
	group := func(name string, exports ...*cpu.Export) ExportGroup {
		return func(r *cpu.ExportResolver, gk *KernelState) {
			require.Equal(t, k, gk)
			order = append(order, name)
			r.RegisterTable("test.xex", exports)
		}
	}
	m.Activate(
		group("a", cpu.Func(1, "Foo", func() uint32 { return 1 })),
		group("b", cpu.Func(1, "Bar", func() uint32 { return 2 }), cpu.Stub(2, "Baz")),
	)
	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, ModuleActive, m.State())
	require.Equal(t, m, k.GetModule("test.xex"))
	require.Equal(t, "Foo", k.Resolver.Resolve("test.xex", 1).Name)
	require.True(t, k.Resolver.Resolve("test.xex", 2).IsStub())
	require.Equal(t, 16, k.Resolver.Table("test.xex").Capacity())

	require.Panics(t, func() { m.Activate() })
}

func TestModuleOrdinalOverflow(t *testing.T) {
	k := newKernel(t)
	m := NewModule(k, "small.xex", `xe:\small.xex`, 4)
	require.Panics(t, func() {
		m.Activate(func(r *cpu.ExportResolver, _ *KernelState) {
			r.RegisterTable("small.xex", []*cpu.Export{cpu.Stub(4, "TooFar")})
		})
	})
	require.Equal(t, ModuleUninitialized, m.State())
	require.Nil(t, k.GetModule("small.xex"))
	require.Empty(t, k.Modules())
}
