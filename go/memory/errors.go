package memory

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	MEM_READ_UNMAPPED  = 19
	MEM_WRITE_UNMAPPED = 20
)

var (
	ErrReleased = errors.New("guest memory released")
	ErrOverlap  = errors.New("region overlaps an existing mapping")
	ErrNoMemory = errors.New("system heap exhausted")
)

type MemError struct {
	Addr uint32
	Size int
	Enum int
}

func (m *MemError) Error() string {
	reason := "memory error"
	switch m.Enum {
	case MEM_WRITE_UNMAPPED:
		reason = "unmapped write"
	case MEM_READ_UNMAPPED:
		reason = "unmapped read"
	}
	return fmt.Sprintf("%s at %#x(%d)", reason, m.Addr, m.Size)
}
