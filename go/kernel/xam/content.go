package xam

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"unicode/utf16"

	"github.com/lunixbochs/struc"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
)

const CONTENT_DATA_SIZE = 0x134

// XCONTENT_DATA
type contentData struct {
	DeviceID    uint32
	ContentType uint32
	DisplayName [128]uint16
	FileName    [42]byte
	Pad         [2]byte `struc:"pad"`
}

type overlapped struct {
	Result         uint32
	Length         uint32
	Context        uint32
	Event          uint32
	CompletionPort uint32
	CompletionKey  uint32
	ExtendedError  uint32
}

// listContent returns one XCONTENT_DATA record per directory under
// <content root>/content.
func listContent(k *kernel.KernelState, deviceID, contentType uint32) [][]byte {
	if k.Config.ContentRoot == "" {
		return nil
	}
	dir := filepath.Join(k.Config.ContentRoot, "content")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.L.Warn("listing content", "dir", dir, "error", err)
		}
		return nil
	}
	var items [][]byte
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		cd := contentData{DeviceID: deviceID, ContentType: contentType}
		copy(cd.DisplayName[:len(cd.DisplayName)-1], utf16.Encode([]rune(ent.Name())))
		copy(cd.FileName[:len(cd.FileName)-1], ent.Name())
		var buf bytes.Buffer
		if err := struc.PackWithOrder(&buf, &cd, binary.BigEndian); err != nil {
			log.L.Warn("packing content data", "name", ent.Name(), "error", err)
			continue
		}
		items = append(items, buf.Bytes())
	}
	return items
}

// complete finishes an XOVERLAPPED request synchronously.
func complete(k *kernel.KernelState, ptr uint32, result, length uint32) uint32 {
	if ptr == 0 {
		return result
	}
	b := cpu.NewBuf(k.Mem, ptr)
	var ov overlapped
	if err := b.Unpack(&ov); err != nil {
		return win32(err)
	}
	ov.Result, ov.Length, ov.ExtendedError = result, length, result
	if err := b.Pack(&ov); err != nil {
		return win32(err)
	}
	if ov.Event != 0 {
		if ev, err := kernel.GetObjectAs[*kernel.Event](k, kernel.Handle(ov.Event)); err == nil {
			ev.Set()
		}
	}
	return kernel.X_ERROR_IO_PENDING
}

func registerContentExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0254, "XamContentCreateEnumerator", func(user, deviceID, contentType, flags, count uint32, bufferSize, out cpu.Buf) uint32 {
			if out.IsNull() {
				return kernel.X_ERROR_INVALID_PARAMETER
			}
			put(bufferSize, count*CONTENT_DATA_SIZE)
			e := NewEnumerator(k, CONTENT_DATA_SIZE, listContent(k, deviceID, contentType))
			h := k.InsertObject(e)
			if h == 0 {
				return kernel.X_ERROR_FUNCTION_FAILED
			}
			if err := out.PutU32(uint32(h)); err != nil {
				k.CloseHandle(h)
				return win32(err)
			}
			return kernel.X_ERROR_SUCCESS
		}),
		cpu.Func(0x0020, "XamEnumerate", func(handle, flags uint32, buffer cpu.Buf, size uint32, returned cpu.Buf, ov uint32) uint32 {
			e, err := kernel.GetObjectAs[*Enumerator](k, kernel.Handle(handle))
			if err != nil {
				return win32(err)
			}
			items := e.Next(int(size / e.ItemSize))
			for i, rec := range items {
				if err := k.Mem.Write(buffer.Addr+uint32(i)*e.ItemSize, rec); err != nil {
					return win32(err)
				}
			}
			put(returned, uint32(len(items)))
			result := uint32(kernel.X_ERROR_SUCCESS)
			if len(items) == 0 {
				result = kernel.X_ERROR_NO_MORE_FILES
			}
			return complete(k, ov, result, uint32(len(items)))
		}),
		cpu.Func(0x0256, "XamContentGetDeviceState", func(deviceID, ov uint32) uint32 {
			return complete(k, ov, kernel.X_ERROR_SUCCESS, 0)
		}),
	)
}
