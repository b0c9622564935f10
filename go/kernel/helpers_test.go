package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/memory"
	"github.com/lunixbochs/xecorn/go/models"
)

const scratch = 0x10000

func newKernel(t *testing.T) *KernelState {
	mem := memory.New()
	_, err := mem.Map(scratch, 0x10000, memory.PROT_ALL, "scratch")
	require.NoError(t, err)
	_, err = mem.SetHeap(models.DEFAULT_HEAP_BASE, 0x10000)
	require.NoError(t, err)
	k := NewKernelState(mem, cpu.NewDirect(), cpu.NewExportResolver(), &models.Config{ContentRoot: t.TempDir()})
	t.Cleanup(k.Shutdown)
	return k
}
