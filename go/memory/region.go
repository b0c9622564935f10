package memory

import (
	"fmt"
)

const (
	PROT_NONE  = 0
	PROT_READ  = 1
	PROT_WRITE = 2
	PROT_EXEC  = 4
	PROT_ALL   = 7
)

type Region struct {
	Base uint32
	Size uint32
	Prot int
	Desc string

	Data []byte
}

func (r *Region) String() string {
	prots := []int{PROT_READ, PROT_WRITE, PROT_EXEC}
	chars := []string{"r", "w", "x"}
	prot := ""
	for i := range prots {
		if r.Prot&prots[i] != 0 {
			prot += chars[i]
		} else {
			prot += "-"
		}
	}
	desc := fmt.Sprintf("0x%08x-0x%08x %s", r.Base, r.End(), prot)
	if r.Desc != "" {
		desc += fmt.Sprintf(" [%s]", r.Desc)
	}
	return desc
}

// End is exclusive and computed in 64 bits so a region may touch 4GB.
func (r *Region) End() uint64 {
	return uint64(r.Base) + uint64(r.Size)
}

func (r *Region) Contains(addr uint32) bool {
	return addr >= r.Base && uint64(addr) < r.End()
}

func (r *Region) Overlaps(base, size uint32) bool {
	end := uint64(base) + uint64(size)
	return uint64(r.Base) < end && uint64(base) < r.End()
}

type regionList []*Region

func (r regionList) Len() int           { return len(r) }
func (r regionList) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r regionList) Less(i, j int) bool { return r[i].Base < r[j].Base }
