package xam

import (
	"sync"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

const (
	XNET_GET_XNADDR_NONE = 0x0001
	WSAEINVAL            = 10022
	WSANOTINITIALISED    = 10093
)

type wsaData struct {
	Version      uint16
	HighVersion  uint16
	Description  [257]byte
	SystemStatus [129]byte
	Pad          [2]byte `struc:"pad"`
	MaxSockets   uint16
	MaxUdpDg     uint16
	VendorInfo   uint32
}

// Networking is never available; the exports only track WSAStartup
// balance so titles see consistent errors.
func registerNetExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	var (
		mu      sync.Mutex
		started int
	)
	register(r,
		cpu.Func(0x0003, "NetDll_WSAStartup", func(caller, version uint32, data cpu.Buf) uint32 {
			if !data.IsNull() {
				wsa := &wsaData{Version: uint16(version), HighVersion: 0x0202}
				copy(wsa.Description[:], "WinSock 2.0")
				if err := data.Pack(wsa); err != nil {
					return WSAEINVAL
				}
			}
			mu.Lock()
			started++
			mu.Unlock()
			return 0
		}),
		cpu.Func(0x0004, "NetDll_WSACleanup", func(caller uint32) uint32 {
			mu.Lock()
			defer mu.Unlock()
			if started == 0 {
				return WSANOTINITIALISED
			}
			started--
			return 0
		}),
		cpu.Func(0x0033, "NetDll_XNetStartup", func(caller, params uint32) uint32 { return 0 }),
		cpu.Func(0x0034, "NetDll_XNetCleanup", func(caller, params uint32) uint32 { return 0 }),
		cpu.Func(0x0049, "NetDll_XNetGetTitleXnAddr", func(caller uint32, addr cpu.Buf) uint32 {
			return XNET_GET_XNADDR_NONE
		}),
		cpu.Func(0x0054, "NetDll_XNetGetEthernetLinkStatus", func(caller uint32) uint32 { return 0 }),
	)
}
