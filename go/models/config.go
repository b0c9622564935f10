package models

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	DEFAULT_HEAP_BASE = 0x70000000
	DEFAULT_HEAP_SIZE = 16 * 1024 * 1024
)

type Config struct {
	Color      bool
	TraceCalls bool
	Verbose    bool
	Strsize    int

	// host directory backing the game: device
	ContentRoot string
	// guest region used for kernel-owned structures (thunks, exported variables)
	HeapBase uint32
	HeapSize uint32

	Output io.Writer
}

func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.HeapBase == 0 {
		c.HeapBase = DEFAULT_HEAP_BASE
	}
	if c.HeapSize == 0 {
		c.HeapSize = DEFAULT_HEAP_SIZE
	}
	if c.Strsize == 0 {
		c.Strsize = 30
	}
	return c
}

// Maps a guest path like `game:\maps\e1m1.bsp` onto ContentRoot.
// Only the game: and d: devices are backed by the host.
func (c *Config) HostPath(guest string) (string, bool) {
	if c.ContentRoot == "" {
		return "", false
	}
	dev, rest := "", guest
	if i := strings.Index(guest, ":"); i >= 0 {
		dev, rest = strings.ToLower(guest[:i]), guest[i+1:]
	}
	switch dev {
	case "", "game", "d":
	default:
		return "", false
	}
	rest = strings.ReplaceAll(rest, "\\", "/")
	clean := filepath.Clean("/" + rest)
	return filepath.Join(c.ContentRoot, filepath.FromSlash(clean)), true
}
