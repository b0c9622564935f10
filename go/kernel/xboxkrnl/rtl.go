package xboxkrnl

import (
	"bytes"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

var dosErrors = map[uint32]uint32{
	kernel.X_STATUS_SUCCESS:           kernel.X_ERROR_SUCCESS,
	kernel.X_STATUS_ACCESS_DENIED:     kernel.X_ERROR_ACCESS_DENIED,
	kernel.X_STATUS_INVALID_PARAMETER: kernel.X_ERROR_INVALID_PARAMETER,
	kernel.X_STATUS_NO_SUCH_FILE:      2, // ERROR_FILE_NOT_FOUND
	kernel.X_STATUS_INVALID_HANDLE:    6, // ERROR_INVALID_HANDLE
	kernel.X_STATUS_NO_MEMORY:         8, // ERROR_NOT_ENOUGH_MEMORY
	kernel.X_STATUS_END_OF_FILE:       38,
	kernel.X_STATUS_PENDING:           kernel.X_ERROR_IO_PENDING,
	kernel.X_STATUS_NOT_IMPLEMENTED:   1, // ERROR_INVALID_FUNCTION
	kernel.X_STATUS_TIMEOUT:           0x5B4,
}

func registerRtlExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x012C, "RtlInitAnsiString", func(dest cpu.Buf, src uint32) uint32 {
			as := ansiString{}
			if src != 0 {
				s, err := k.Mem.ReadStrAt(src)
				if err != nil {
					return kernel.StatusFromError(err)
				}
				as.Length = uint16(len(s))
				as.MaxLength = as.Length + 1
				as.Buffer = src
			}
			if err := dest.Pack(&as); err != nil {
				return kernel.StatusFromError(err)
			}
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x0104, "RtlNtStatusToDosError", func(status uint32) uint32 {
			if code, ok := dosErrors[status]; ok {
				return code
			}
			if status&0xFFFF0000 == 0x80070000 {
				return status & 0xFFFF
			}
			return 317 // ERROR_MR_MID_NOT_FOUND
		}),
		cpu.Func(0x011A, "RtlCompareMemory", func(a, b cpu.Buf, length uint32) uint32 {
			x, err := a.Bytes(length)
			if err != nil {
				return 0
			}
			y, err := b.Bytes(length)
			if err != nil {
				return 0
			}
			for i := range x {
				if x[i] != y[i] {
					return uint32(i)
				}
			}
			return length
		}),
		cpu.Func(0x0118, "RtlCompareMemoryUlong", func(src cpu.Buf, length, pattern uint32) uint32 {
			data, err := src.Bytes(length &^ 3)
			if err != nil {
				return 0
			}
			want := []byte{byte(pattern >> 24), byte(pattern >> 16), byte(pattern >> 8), byte(pattern)}
			n := uint32(0)
			for ; n+4 <= uint32(len(data)) && bytes.Equal(data[n:n+4], want); n += 4 {
			}
			return n
		}),
	)
}
