package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	XINPUT_DEVTYPE_GAMEPAD    = 0x01
	XINPUT_DEVSUBTYPE_GAMEPAD = 0x01
)

type gamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type inputCapabilities struct {
	Type       uint8
	SubType    uint8
	Flags      uint16
	Gamepad    gamepad
	LeftMotor  uint16
	RightMotor uint16
}

type inputState struct {
	PacketNumber uint32
	Gamepad      gamepad
}

// only user 0 has a (permanently idle) controller
func connected(user uint32) bool {
	return user == 0 || user == 0xFF
}

func registerInputExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0190, "XamInputGetCapabilities", func(user, flags uint32, caps cpu.Buf) uint32 {
			if caps.IsNull() {
				return kernel.X_ERROR_INVALID_PARAMETER
			}
			if !connected(user) {
				return kernel.X_ERROR_DEVICE_NOT_CONNECTED
			}
			c := &inputCapabilities{Type: XINPUT_DEVTYPE_GAMEPAD, SubType: XINPUT_DEVSUBTYPE_GAMEPAD}
			c.Gamepad = gamepad{Buttons: 0xFFFF, LeftTrigger: 0xFF, RightTrigger: 0xFF}
			return win32(caps.Pack(c))
		}),
		cpu.Func(0x0191, "XamInputGetState", func(user, flags uint32, state cpu.Buf) uint32 {
			if !connected(user) {
				return kernel.X_ERROR_DEVICE_NOT_CONNECTED
			}
			if state.IsNull() {
				return kernel.X_ERROR_SUCCESS
			}
			return win32(state.Pack(&inputState{}))
		}),
		cpu.Func(0x0192, "XamInputSetState", func(user, flags uint32, vibration cpu.Buf) uint32 {
			if !connected(user) {
				return kernel.X_ERROR_DEVICE_NOT_CONNECTED
			}
			return kernel.X_ERROR_SUCCESS
		}),
	)
}
