package kernel

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/memory"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err    error
		status uint32
	}{
		{nil, X_STATUS_SUCCESS},
		{ErrInvalidHandle, X_STATUS_INVALID_HANDLE},
		{errors.Wrap(ErrTypeMismatch, "NtSetEvent"), X_STATUS_OBJECT_TYPE_MISMATCH},
		{ErrSemaphoreLimit, X_STATUS_SEMAPHORE_LIMIT_EXCEEDED},
		{ErrMutantNotOwned, X_STATUS_MUTANT_NOT_OWNED},
		{cpu.ErrNullPointer, X_STATUS_INVALID_PARAMETER},
		{errors.Wrap(memory.ErrNoMemory, "alloc"), X_STATUS_NO_MEMORY},
		{&memory.MemError{Addr: 0x1000, Size: 4, Enum: memory.MEM_READ_UNMAPPED}, X_STATUS_ACCESS_VIOLATION},
		{errors.Wrap(&os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, "open"), X_STATUS_NO_SUCH_FILE},
		{errors.New("other"), X_STATUS_UNSUCCESSFUL},
	}
	for _, c := range cases {
		require.Equal(t, c.status, StatusFromError(c.err), "%v", c.err)
	}
	require.True(t, XSucceeded(X_STATUS_TIMEOUT))
	require.False(t, XSucceeded(X_STATUS_UNSUCCESSFUL))
}
