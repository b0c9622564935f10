package models

import (
	"bytes"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestRepr(t *testing.T) {
	if s := Repr([]byte("hi\x00\n"), 0); s != `"hi\x00\x0a"` {
		t.Fatalf("bad repr: %s", s)
	}
	if s := Repr([]byte("abcdefghijkl"), 8); s != `"abcde"...` {
		t.Fatalf("bad truncated repr: %s", s)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c *Config
	c = c.Init()
	if c.HeapBase != DEFAULT_HEAP_BASE || c.HeapSize != DEFAULT_HEAP_SIZE || c.Output == nil || c.Strsize != 30 {
		t.Fatalf("bad defaults: %+v", c)
	}
	c = (&Config{HeapSize: 0x1000, Strsize: 5}).Init()
	if c.HeapSize != 0x1000 || c.Strsize != 5 {
		t.Fatalf("Init overwrote fields: %+v", c)
	}
}

func TestHostPath(t *testing.T) {
	c := &Config{ContentRoot: "/content"}
	cases := map[string]string{
		`game:\maps\e1m1.bsp`: "/content/maps/e1m1.bsp",
		`D:\default.xex`:      "/content/default.xex",
		`\a\..\..\etc\passwd`: "/content/etc/passwd",
	}
	for guest, want := range cases {
		got, ok := c.HostPath(guest)
		if !ok || got != filepath.FromSlash(want) {
			t.Errorf("HostPath(%q) = %q, %v; want %q", guest, got, ok, want)
		}
	}
	if _, ok := c.HostPath(`hdd:\save`); ok {
		t.Error("unbacked device resolved")
	}
	if _, ok := (&Config{}).HostPath(`game:\x`); ok {
		t.Error("resolved without a content root")
	}
}

func TestPrintFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("v", false, "verbose")
	fs.Int("strsize", 30, strings.Repeat("word ", 30))
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })

	var buf bytes.Buffer
	PrintFlags(&buf, flags)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected wrapped usage, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], "-strsize (30)") {
		t.Errorf("missing default: %q", lines[0])
	}
	for _, line := range lines {
		if len(line) > 80 {
			t.Errorf("line too long: %q", line)
		}
	}
}
