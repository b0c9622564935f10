package xam

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/memory"
	"github.com/lunixbochs/xecorn/go/models"
)

const scratch = 0x30000

type env struct {
	t *testing.T
	k *kernel.KernelState
	d *kernel.Dispatcher
}

func newEnv(t *testing.T) *env {
	mem := memory.New()
	_, err := mem.Map(scratch, 0x10000, memory.PROT_ALL, "scratch")
	require.NoError(t, err)
	k := kernel.NewKernelState(mem, cpu.NewDirect(), cpu.NewExportResolver(), &models.Config{ContentRoot: t.TempDir()})
	t.Cleanup(k.Shutdown)
	NewModule(k)
	return &env{t: t, k: k, d: kernel.NewDispatcher(k)}
}

func (e *env) call(name string, args ...uint64) uint32 {
	export := e.k.Resolver.ResolveName(ModuleName, name)
	require.NotNil(e.t, export, name)
	return uint32(e.d.Call(context.Background(), ModuleName, export.Ordinal, args))
}

func (e *env) u32(addr uint32) uint32 {
	v, err := e.k.Mem.ReadU32(addr)
	require.NoError(e.t, err)
	return v
}

func TestModule(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, kernel.ModuleActive, e.k.GetModule(ModuleName).State())
	table := e.k.Resolver.Table(ModuleName)
	require.Equal(t, ExportCapacity, table.Capacity())
	require.False(t, table.Lookup("XamInputGetState").IsStub())
	require.True(t, table.Lookup("XamContentCreate").IsStub())
	require.Equal(t, uint32(kernel.X_STATUS_NOT_IMPLEMENTED), e.call("XamContentCreate"))
}

func TestNotifyListener(t *testing.T) {
	e := newEnv(t)
	h := e.call("XamNotifyCreateListener", XNOTIFY_SYSTEM, 1)
	l, err := kernel.GetObjectAs[*NotifyListener](e.k, kernel.Handle(h))
	require.NoError(t, err)
	require.Equal(t, 1, l.Pending())
	require.Equal(t, uint32(kernel.X_STATUS_SUCCESS), l.Wait(context.Background(), nil))

	id, param := uint32(scratch), uint32(scratch+4)
	require.Equal(t, uint32(1), e.call("XNotifyGetNext", uint64(h), 0, uint64(id), uint64(param)))
	require.Equal(t, uint32(XN_SYS_SIGNINCHANGED), e.u32(id))
	require.Equal(t, uint32(1), e.u32(param))
	require.Equal(t, uint32(0), e.call("XNotifyGetNext", uint64(h), 0, uint64(id), uint64(param)))

	// live notifications are filtered by the mask
	Broadcast(e.k, XN_LIVE_CONNECTIONCHANGED, 1)
	require.Equal(t, 0, l.Pending())

	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamShowSigninUI", 1, 0))
	require.Equal(t, 3, l.Pending())
	require.Equal(t, uint32(1), e.call("XNotifyGetNext", uint64(h), XN_SYS_SIGNINCHANGED, uint64(id), 0))
	require.Equal(t, uint32(XN_SYS_SIGNINCHANGED), e.u32(id))
	require.Equal(t, 2, l.Pending())

	require.Equal(t, uint32(0), e.call("XNotifyGetNext", 0x9999, 0, uint64(id), 0))
}

func TestContentEnumerator(t *testing.T) {
	e := newEnv(t)
	root := e.k.Config.ContentRoot
	for _, name := range []string{"save0", "save1"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "content", name), 0755))
	}

	size, out := uint32(scratch), uint32(scratch+4)
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamContentCreateEnumerator", 0, 1, 1, 0, 1, uint64(size), uint64(out)))
	require.Equal(t, uint32(CONTENT_DATA_SIZE), e.u32(size))
	h := e.u32(out)

	buf, returned := uint32(scratch+0x100), uint32(scratch+8)
	names := []string{}
	for i := 0; i < 2; i++ {
		require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamEnumerate", uint64(h), 0, uint64(buf), CONTENT_DATA_SIZE, uint64(returned), 0))
		require.Equal(t, uint32(1), e.u32(returned))
		require.Equal(t, uint32(1), e.u32(buf))
		name, err := e.k.Mem.ReadStrAt(buf + 8 + 256)
		require.NoError(t, err)
		names = append(names, name)
	}
	require.ElementsMatch(t, []string{"save0", "save1"}, names)
	require.Equal(t, uint32(kernel.X_ERROR_NO_MORE_FILES), e.call("XamEnumerate", uint64(h), 0, uint64(buf), CONTENT_DATA_SIZE, uint64(returned), 0))

	// overlapped completion
	ov := uint32(scratch + 0x400)
	require.Equal(t, uint32(kernel.X_ERROR_IO_PENDING), e.call("XamEnumerate", uint64(h), 0, uint64(buf), CONTENT_DATA_SIZE, uint64(returned), uint64(ov)))
	require.Equal(t, uint32(kernel.X_ERROR_NO_MORE_FILES), e.u32(ov))

	require.Equal(t, uint32(kernel.X_ERROR_INVALID_PARAMETER), e.call("XamEnumerate", 0x9999, 0, uint64(buf), CONTENT_DATA_SIZE, uint64(returned), 0))
}

func TestInput(t *testing.T) {
	e := newEnv(t)
	caps := uint32(scratch)
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamInputGetCapabilities", 0, 0, uint64(caps)))
	b := make([]byte, 2)
	require.NoError(t, e.k.Mem.Read(caps, b))
	require.Equal(t, []byte{XINPUT_DEVTYPE_GAMEPAD, XINPUT_DEVSUBTYPE_GAMEPAD}, b)

	require.Equal(t, uint32(kernel.X_ERROR_DEVICE_NOT_CONNECTED), e.call("XamInputGetCapabilities", 1, 0, uint64(caps)))
	require.Equal(t, uint32(kernel.X_ERROR_DEVICE_NOT_CONNECTED), e.call("XamInputGetState", 2, 0, uint64(caps)))
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamInputGetState", 0, 0, uint64(caps)))
}

func TestUserAndInfo(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, uint32(X_USER_SIGNIN_STATE_SIGNED_IN_LOCALLY), e.call("XamUserGetSigninState", 0))
	require.Equal(t, uint32(X_USER_SIGNIN_STATE_NOT_SIGNED_IN), e.call("XamUserGetSigninState", 3))

	out := uint32(scratch)
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamUserGetXUID", 0, 1, uint64(out)))
	b := make([]byte, 8)
	require.NoError(t, e.k.Mem.Read(out, b))
	require.Equal(t, DEFAULT_XUID, binary.BigEndian.Uint64(b))
	require.Equal(t, uint32(kernel.X_ERROR_NO_SUCH_USER), e.call("XamUserGetXUID", 1, 1, uint64(out)))
	require.Equal(t, uint32(kernel.X_ERROR_INVALID_PARAMETER), e.call("XamUserGetXUID", 4, 1, uint64(out)))

	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamUserGetName", 0, uint64(out), 16))
	name, err := e.k.Mem.ReadStrAt(out)
	require.NoError(t, err)
	require.Equal(t, DEFAULT_GAMERTAG, name)
	require.Equal(t, uint32(kernel.X_ERROR_INSUFFICIENT_BUFFER), e.call("XamUserGetName", 0, uint64(out), 2))

	require.Equal(t, uint32(X_AV_PACK_HDMI), e.call("XGetAVPack"))
	require.Equal(t, uint32(X_LANGUAGE_ENGLISH), e.call("XGetLanguage"))
}

func TestVideoMode(t *testing.T) {
	e := newEnv(t)
	e.call("XGetVideoMode", scratch)
	require.Equal(t, uint32(1280), e.u32(scratch))
	require.Equal(t, uint32(720), e.u32(scratch+4))
	require.Equal(t, float32(60), math.Float32frombits(e.u32(scratch+20)))
}

func TestLeafGroups(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, uint32(0), e.call("NetDll_WSAStartup", 0, 0x0202, scratch))
	require.Equal(t, uint32(0), e.call("NetDll_WSACleanup", 0))
	require.Equal(t, uint32(WSANOTINITIALISED), e.call("NetDll_WSACleanup", 0))
	require.Equal(t, uint32(XNET_GET_XNADDR_NONE), e.call("NetDll_XNetGetTitleXnAddr", 0, scratch))

	require.Equal(t, uint32(kernel.X_ERROR_NOT_FOUND), e.call("XMsgInProcessCall", 0xFE, 0x1000, 0, 0))
	require.Equal(t, uint32(0), e.call("XamVoiceIsActiveProcess"))
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamAvatarInitialize", 0, 0, 0, 0, 0, 0))

	title := uint32(scratch + 0x100)
	require.NoError(t, e.k.Mem.Write(title, []byte{0, 'H', 0, 'i', 0, 0}))
	require.Equal(t, "Hi", readWide(e.k, title))
	require.Equal(t, uint32(kernel.X_ERROR_SUCCESS), e.call("XamShowMessageBoxUI", 0, uint64(title), uint64(title), 0, 0, 0, 0, scratch))
}
