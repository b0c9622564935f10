package xboxkrnl

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// access mask bits that imply write access
const (
	FILE_WRITE_DATA   = 0x0002
	FILE_APPEND_DATA  = 0x0004
	GENERIC_WRITE     = 0x40000000
	GENERIC_ALL       = 0x10000000
	FILE_SUPERSEDE    = 0
	FILE_OPEN         = 1
	FILE_CREATE       = 2
	FILE_OPEN_IF      = 3
	FILE_OVERWRITE    = 4
	FILE_OVERWRITE_IF = 5

	// IO_STATUS_BLOCK.Information for create
	FILE_SUPERSEDED  = 0
	FILE_OPENED      = 1
	FILE_CREATED     = 2
	FILE_OVERWRITTEN = 3
)

// createFlags maps a create disposition to os.OpenFile flags and the
// Information value reported on success.
func createFlags(disposition uint32, write bool) (int, uint32, bool) {
	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}
	switch disposition {
	case FILE_OPEN:
		return flag, FILE_OPENED, true
	case FILE_OPEN_IF:
		return flag | os.O_CREATE, FILE_OPENED, true
	case FILE_CREATE:
		return os.O_RDWR | os.O_CREATE | os.O_EXCL, FILE_CREATED, true
	case FILE_OVERWRITE:
		return os.O_RDWR | os.O_TRUNC, FILE_OVERWRITTEN, true
	case FILE_OVERWRITE_IF:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, FILE_OVERWRITTEN, true
	case FILE_SUPERSEDE:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, FILE_SUPERSEDED, true
	}
	return 0, 0, false
}

type ansiString struct {
	Length    uint16
	MaxLength uint16
	Buffer    uint32
}

type objectAttributes struct {
	RootDirectory uint32
	ObjectName    uint32
	Attributes    uint32
}

type ioStatusBlock struct {
	Status      uint32
	Information uint32
}

// readAnsiString reads the counted string at ptr.
func readAnsiString(b cpu.Buf) (string, error) {
	var as ansiString
	if err := b.Unpack(&as); err != nil {
		return "", err
	}
	data, err := cpu.NewBuf(b.Mem, as.Buffer).Bytes(uint32(as.Length))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func objectName(attrs cpu.Buf) (string, error) {
	var oa objectAttributes
	if err := attrs.Unpack(&oa); err != nil {
		return "", err
	}
	return readAnsiString(cpu.NewBuf(attrs.Mem, oa.ObjectName))
}

func complete(iosb cpu.Buf, status, info uint32) uint32 {
	if !iosb.IsNull() {
		iosb.Pack(&ioStatusBlock{Status: status, Information: info})
	}
	return status
}

// transfer runs one NtReadFile/NtWriteFile request. A null offset uses and
// advances the file position.
func transfer(k *kernel.KernelState, handle, event uint32, iosb, buf cpu.Buf, length uint32, offset cpu.Buf, write bool) uint32 {
	f, err := kernel.GetObjectAs[*kernel.File](k, kernel.Handle(handle))
	if err != nil {
		return kernel.StatusFromError(err)
	}
	data, err := buf.Bytes(length)
	if err != nil {
		return complete(iosb, kernel.StatusFromError(err), 0)
	}
	var n int
	if offset.IsNull() {
		if write {
			n, err = f.Write(data)
		} else {
			n, err = f.Read(data)
		}
	} else {
		var off largeInteger
		if err := offset.Unpack(&off); err != nil {
			return complete(iosb, kernel.StatusFromError(err), 0)
		}
		if write {
			n, err = f.WriteAt(data, off.Value)
		} else {
			n, err = f.ReadAt(data, off.Value)
		}
	}
	status := uint32(kernel.X_STATUS_SUCCESS)
	switch {
	case err != nil && errors.Cause(err) != io.EOF:
		status = kernel.X_STATUS_UNSUCCESSFUL
	case !write && n == 0 && length > 0:
		status = kernel.X_STATUS_END_OF_FILE
	}
	if event != 0 {
		if ev, err := kernel.GetObjectAs[*kernel.Event](k, kernel.Handle(event)); err == nil {
			ev.Set()
		}
	}
	return complete(iosb, status, uint32(n))
}

func registerIoExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x00D3, "NtCreateFile", func(out cpu.Buf, access uint32, attrs, iosb cpu.Buf, allocSize, fileAttrs, share, disposition uint32) uint32 {
			name, err := objectName(attrs)
			if err != nil {
				return kernel.X_STATUS_INVALID_PARAMETER
			}
			write := access&(FILE_WRITE_DATA|FILE_APPEND_DATA|GENERIC_WRITE|GENERIC_ALL) != 0
			flag, info, ok := createFlags(disposition, write)
			if !ok {
				return complete(iosb, kernel.X_STATUS_INVALID_PARAMETER, 0)
			}
			// the *_IF dispositions report whether the file was there
			var existed bool
			if host, ok := k.Config.HostPath(name); ok {
				_, err := os.Stat(host)
				existed = err == nil
			}
			f, err := kernel.OpenFile(k, name, flag)
			if err != nil {
				return complete(iosb, kernel.StatusFromError(err), 0)
			}
			if !existed && disposition != FILE_OPEN && disposition != FILE_OVERWRITE {
				info = FILE_CREATED
			}
			if status := insert(k, f, out); status != kernel.X_STATUS_SUCCESS {
				return status
			}
			return complete(iosb, kernel.X_STATUS_SUCCESS, info)
		}),
		cpu.Func(0x00DA, "NtReadFile", func(handle, event, apc, apcContext uint32, iosb, buf cpu.Buf, length uint32, offset cpu.Buf) uint32 {
			return transfer(k, handle, event, iosb, buf, length, offset, false)
		}),
		cpu.Func(0x0112, "NtWriteFile", func(handle, event, apc, apcContext uint32, iosb, buf cpu.Buf, length uint32, offset cpu.Buf) uint32 {
			return transfer(k, handle, event, iosb, buf, length, offset, true)
		}),
	)
}
