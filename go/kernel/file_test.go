package kernel

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFileReadWrite(t *testing.T) {
	k := newKernel(t)
	root := k.Config.ContentRoot
	require.NoError(t, os.MkdirAll(filepath.Join(root, "maps"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "maps", "e1m1.bsp"), []byte("IBSP\x1e\x00\x00\x00"), 0644))

	f, err := OpenFile(k, `game:\maps\e1m1.bsp`, os.O_RDONLY)
	require.NoError(t, err)
	k.InsertObject(f)

	buf := make([]byte, 4)
	n, err := f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "IBSP", string(buf))

	n, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x1e, 0, 0, 0}, buf[:n])

	n, err = f.Read(buf)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 0, n)

	// short reads report EOF along with the bytes read
	n, err = f.ReadAt(buf, 6)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 2, n)
	n, err = f.ReadAt(buf, 100)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 0, n)

	size, err := f.Size()
	require.NoError(t, err)
	require.Equal(t, int64(8), size)

	require.NoError(t, k.CloseHandle(f.Handle()))
	_, err = f.ReadAt(buf, 0)
	require.Error(t, err)
}

func TestFileCreate(t *testing.T) {
	k := newKernel(t)
	f, err := OpenFile(k, `game:\save.dat`, os.O_RDWR|os.O_CREATE)
	require.NoError(t, err)

	_, err = f.WriteAt([]byte("data"), 2)
	require.NoError(t, err)
	f.SetPosition(2)
	require.Equal(t, int64(2), f.Position())
	buf := make([]byte, 4)
	_, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "data", string(buf))
	f.Release()

	got, err := os.ReadFile(filepath.Join(k.Config.ContentRoot, "save.dat"))
	require.NoError(t, err)
	require.Equal(t, "\x00\x00data", string(got))
}

func TestFileNotFound(t *testing.T) {
	k := newKernel(t)
	_, err := OpenFile(k, `game:\missing.xex`, os.O_RDONLY)
	require.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = OpenFile(k, `hdd:\cache`, os.O_RDONLY)
	require.Error(t, err)
}

func TestFileExclusiveCreate(t *testing.T) {
	k := newKernel(t)
	f, err := OpenFile(k, `game:\once.dat`, os.O_RDWR|os.O_CREATE|os.O_EXCL)
	require.NoError(t, err)
	f.Release()

	_, err = OpenFile(k, `game:\once.dat`, os.O_RDWR|os.O_CREATE|os.O_EXCL)
	require.True(t, os.IsExist(errors.Cause(err)))
	require.Equal(t, uint32(X_STATUS_OBJECT_NAME_COLLISION), StatusFromError(err))
}
