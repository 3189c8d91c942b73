package physmem

import "github.com/sarchlab/vmsim/mem/vm"

// A Frame is a page-sized slot of physical memory.
type Frame struct {
	Occupied   bool
	Page       uint8
	Data       [vm.PageSize]byte
	InsertedAt uint64
	LastAccess uint64
}

// An Allocation describes where a page was loaded and which page, if any,
// had to leave.
type Allocation struct {
	Frame   int
	Evicted bool
	Victim  uint8
}
