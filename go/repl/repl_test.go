package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	xecorn "github.com/lunixbochs/xecorn/go"
	"github.com/lunixbochs/xecorn/go/models"
)

func newContext(t *testing.T) (*Context, *bytes.Buffer) {
	r, err := xecorn.NewRuntime(&models.Config{HeapSize: 0x10000, ContentRoot: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { r.Shutdown() })
	var out bytes.Buffer
	return NewContext(r, &out), &out
}

func exec(c *Context, out *bytes.Buffer, line string) string {
	out.Reset()
	Run(c, line)
	return out.String()
}

func TestHandleCommands(t *testing.T) {
	c, out := newContext(t)
	require.Equal(t, "0x1001\n", exec(c, out, "event true false"))
	require.Equal(t, "0x1002\n", exec(c, out, "event 0 1"))

	listing := exec(c, out, "handles")
	require.Contains(t, listing, "0x1001 event")
	require.Contains(t, listing, "2 objects")
	require.Contains(t, exec(c, out, "object 0x1002"), "signaled: (bool) true")

	require.Empty(t, exec(c, out, "close 0x1001"))
	require.Contains(t, exec(c, out, "close 0x1001"), "error: invalid handle")
	require.Contains(t, exec(c, out, "handles"), "1 objects")
}

func TestExportCommands(t *testing.T) {
	c, out := newContext(t)
	require.Contains(t, exec(c, out, "modules"), "xboxkrnl.exe")
	require.Contains(t, exec(c, out, "exports xam.xex"), "XamNotifyCreateListener")
	require.Contains(t, exec(c, out, "exports nope.xex"), "error: unknown module")
	require.Contains(t, exec(c, out, "resolve xboxkrnl.exe NtClose"), "0x0cf NtClose")
	require.Contains(t, exec(c, out, "resolve xboxkrnl.exe 0xcf"), "NtClose")
	require.Contains(t, exec(c, out, "resolve xboxkrnl.exe Bogus"), "not registered")

	require.Equal(t, "= 0xc0000008\n", exec(c, out, "call xboxkrnl.exe NtClose 0x1234"))
	require.Contains(t, exec(c, out, "thunk xboxkrnl.exe XboxHardwareInfo"), "variable at")
}

func TestParseErrors(t *testing.T) {
	c, out := newContext(t)
	require.Equal(t, "command not found.\n", exec(c, out, "frobnicate"))
	require.Contains(t, exec(c, out, "event maybe 0"), "usage: event")
	require.Contains(t, exec(c, out, "close"), "usage: close <handle>")
	require.Contains(t, exec(c, out, "modules extra"), "usage: modules")
	require.Contains(t, exec(c, out, `call "unterminated`), "parse error")
	require.Empty(t, exec(c, out, "   "))
	require.Contains(t, exec(c, out, "help"), "resolve")
}
