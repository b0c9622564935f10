package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	X_USER_SIGNIN_STATE_NOT_SIGNED_IN     = 0
	X_USER_SIGNIN_STATE_SIGNED_IN_LOCALLY = 1
	X_USER_SIGNIN_STATE_SIGNED_IN_TO_LIVE = 2

	XUSER_MAX_COUNT = 4
)

const (
	DEFAULT_XUID     uint64 = 0xB13EBABEBABEBABE
	DEFAULT_GAMERTAG        = "xecorn"
)

type xuid struct {
	Value uint64
}

// One local profile is signed in at index 0.
func registerUserExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x020A, "XamUserGetXUID", func(user, typeMask uint32, out cpu.Buf) uint32 {
			if user >= XUSER_MAX_COUNT {
				return kernel.X_ERROR_INVALID_PARAMETER
			}
			if user != 0 {
				return kernel.X_ERROR_NO_SUCH_USER
			}
			return win32(out.Pack(&xuid{DEFAULT_XUID}))
		}),
		cpu.Func(0x020C, "XamUserGetName", func(user uint32, buffer cpu.Buf, size uint32) uint32 {
			if user >= XUSER_MAX_COUNT {
				return kernel.X_ERROR_INVALID_PARAMETER
			}
			if user != 0 {
				return kernel.X_ERROR_NO_SUCH_USER
			}
			name := []byte(DEFAULT_GAMERTAG)
			if uint32(len(name)) >= size {
				return kernel.X_ERROR_INSUFFICIENT_BUFFER
			}
			return win32(k.Mem.Write(buffer.Addr, append(name, 0)))
		}),
		cpu.Func(0x0210, "XamUserGetSigninState", func(user uint32) uint32 {
			if user == 0 {
				return X_USER_SIGNIN_STATE_SIGNED_IN_LOCALLY
			}
			return X_USER_SIGNIN_STATE_NOT_SIGNED_IN
		}),
	)
}
