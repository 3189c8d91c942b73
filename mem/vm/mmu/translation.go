package mmu

import "github.com/sarchlab/vmsim/mem/vm"

// Outcome tells where a translation was resolved.
type Outcome int

// The ways a translation can be resolved.
const (
	TLBHit Outcome = iota
	PageTableHit
	PageFault
)

func (o Outcome) String() string {
	switch o {
	case TLBHit:
		return "tlb-hit"
	case PageTableHit:
		return "page-table-hit"
	case PageFault:
		return "page-fault"
	default:
		return "unknown"
	}
}

// A Translation is the result of translating one logical address.
type Translation struct {
	Logical  vm.LogicalAddress
	Page     uint8
	Offset   uint8
	Frame    int
	Physical uint32
	Value    int8
	Outcome  Outcome

	// Evicted is set when a page had to leave physical memory to make room.
	// Victim is that page.
	Evicted bool
	Victim  uint8
}

// Statistics are the counters of an MMU. Every successful translation is
// counted exactly once as a TLB hit, a page table hit, or a page fault.
type Statistics struct {
	Addresses     uint64
	PageFaults    uint64
	TLBHits       uint64
	PageTableHits uint64
	Evictions     uint64
}

// TLBMisses returns the number of translations that the TLB could not serve.
func (s Statistics) TLBMisses() uint64 {
	return s.Addresses - s.TLBHits
}

// PageFaultRate returns faults per translated address, or 0 if nothing was
// translated.
func (s Statistics) PageFaultRate() float64 {
	if s.Addresses == 0 {
		return 0
	}

	return float64(s.PageFaults) / float64(s.Addresses)
}

// TLBHitRate returns TLB hits per translated address, or 0 if nothing was
// translated.
func (s Statistics) TLBHitRate() float64 {
	if s.Addresses == 0 {
		return 0
	}

	return float64(s.TLBHits) / float64(s.Addresses)
}
