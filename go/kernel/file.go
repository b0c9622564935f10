package kernel

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// File is a guest file handle backed by a host file.
type File struct {
	ObjectBase

	Path string
	host *os.File

	mu  sync.Mutex
	pos int64
}

// OpenFile resolves a guest path against the content root and opens it with
// the os.OpenFile flags in flag.
func OpenFile(k *KernelState, guestPath string, flag int) (*File, error) {
	hostPath, ok := k.Config.HostPath(guestPath)
	if !ok {
		return nil, errors.Wrap(os.ErrNotExist, guestPath)
	}
	host, err := os.OpenFile(hostPath, flag, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", guestPath)
	}
	f := &File{Path: guestPath, host: host}
	f.Init(k, TypeFile, func() { host.Close() })
	return f, nil
}

// ReadAt returns io.EOF when fewer than len(p) bytes are left.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := unix.Pread(int(f.host.Fd()), p, off)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, errors.Wrap(err, "pread")
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	n, err := unix.Pwrite(int(f.host.Fd()), p, off)
	if n < 0 {
		n = 0
	}
	return n, errors.Wrap(err, "pwrite")
}

// Read and Write use the file position when the guest passes no offset.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.ReadAt(p, f.pos)
	f.pos += int64(n)
	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.WriteAt(p, f.pos)
	f.pos += int64(n)
	return n, err
}

// SetPosition moves the offset used by Read and Write.
func (f *File) SetPosition(pos int64) {
	f.mu.Lock()
	f.pos = pos
	f.mu.Unlock()
}

func (f *File) Size() (int64, error) {
	fi, err := f.host.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat")
	}
	return fi.Size(), nil
}

func (f *File) Position() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}
