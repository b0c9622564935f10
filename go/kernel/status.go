package kernel

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/memory"
)

// NTSTATUS values returned to guest code
const (
	X_STATUS_SUCCESS                  = 0x00000000
	X_STATUS_ABANDONED_WAIT_0         = 0x00000080
	X_STATUS_USER_APC                 = 0x000000C0
	X_STATUS_ALERTED                  = 0x00000101
	X_STATUS_TIMEOUT                  = 0x00000102
	X_STATUS_PENDING                  = 0x00000103
	X_STATUS_UNSUCCESSFUL             = 0xC0000001
	X_STATUS_NOT_IMPLEMENTED          = 0xC0000002
	X_STATUS_ACCESS_VIOLATION         = 0xC0000005
	X_STATUS_INVALID_HANDLE           = 0xC0000008
	X_STATUS_INVALID_PARAMETER        = 0xC000000D
	X_STATUS_NO_SUCH_FILE             = 0xC000000F
	X_STATUS_END_OF_FILE              = 0xC0000011
	X_STATUS_NO_MEMORY                = 0xC0000017
	X_STATUS_ACCESS_DENIED            = 0xC0000022
	X_STATUS_OBJECT_TYPE_MISMATCH     = 0xC0000024
	X_STATUS_OBJECT_NAME_NOT_FOUND    = 0xC0000034
	X_STATUS_OBJECT_NAME_COLLISION    = 0xC0000035
	X_STATUS_MUTANT_NOT_OWNED         = 0xC0000046
	X_STATUS_SEMAPHORE_LIMIT_EXCEEDED = 0xC0000047
)

// Win32 error codes returned by xam
const (
	X_ERROR_SUCCESS              = 0x00000000
	X_ERROR_ACCESS_DENIED        = 0x00000005
	X_ERROR_NO_MORE_FILES        = 0x00000012
	X_ERROR_INVALID_PARAMETER    = 0x00000057
	X_ERROR_INSUFFICIENT_BUFFER  = 0x0000007A
	X_ERROR_IO_PENDING           = 0x000003E5
	X_ERROR_DEVICE_NOT_CONNECTED = 0x0000048F
	X_ERROR_NOT_FOUND            = 0x00000490
	X_ERROR_NO_SUCH_USER         = 0x00000525
	X_ERROR_FUNCTION_FAILED      = 0x0000065B
)

func XSucceeded(status uint32) bool {
	return status&0x80000000 == 0
}

var (
	ErrInvalidHandle = errors.New("invalid handle")
	ErrTypeMismatch  = errors.New("object type mismatch")
	ErrShutdown      = errors.New("kernel is shut down")
)

// StatusFromError maps kernel errors to the NTSTATUS a guest expects.
func StatusFromError(err error) uint32 {
	cause := errors.Cause(err)
	switch cause {
	case nil:
		return X_STATUS_SUCCESS
	case ErrInvalidHandle:
		return X_STATUS_INVALID_HANDLE
	case ErrTypeMismatch:
		return X_STATUS_OBJECT_TYPE_MISMATCH
	case ErrSemaphoreLimit:
		return X_STATUS_SEMAPHORE_LIMIT_EXCEEDED
	case ErrMutantNotOwned:
		return X_STATUS_MUTANT_NOT_OWNED
	case cpu.ErrNullPointer:
		return X_STATUS_INVALID_PARAMETER
	case memory.ErrNoMemory:
		return X_STATUS_NO_MEMORY
	}
	switch {
	case os.IsNotExist(cause):
		return X_STATUS_NO_SUCH_FILE
	case os.IsExist(cause):
		return X_STATUS_OBJECT_NAME_COLLISION
	case os.IsPermission(cause):
		return X_STATUS_ACCESS_DENIED
	}
	if _, ok := cause.(*memory.MemError); ok {
		return X_STATUS_ACCESS_VIOLATION
	}
	return X_STATUS_UNSUCCESSFUL
}
