package models

// Guest memory as seen by kernel objects and export implementations.
// Guest addresses are 32-bit; all multi-byte values are big-endian.
type Memory interface {
	// TranslateVirtual returns the host view of guest memory starting at addr
	// and extending to the end of the containing mapping.
	TranslateVirtual(addr uint32) ([]byte, error)

	Read(addr uint32, p []byte) error
	Write(addr uint32, p []byte) error
	ReadU32(addr uint32) (uint32, error)
	WriteU32(addr uint32, val uint32) error
	ReadStrAt(addr uint32) (string, error)
	StrucAt(addr uint32) *StrucStream

	// Alloc carves a block out of the system heap.
	Alloc(size, align uint32) (uint32, error)
}
