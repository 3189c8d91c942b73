package simulation

import (
	"github.com/sarchlab/vmsim/mem/vm/mmu"
)

// Tables written when recording is enabled.
const (
	AccessTable  = "accesses"
	SummaryTable = "summary"
)

// AccessEntry is the row recorded for every translation.
type AccessEntry struct {
	Tick     uint64
	Logical  uint32
	Page     uint8
	Offset   uint8
	Frame    int
	Physical uint32
	Value    int8
	Outcome  string
	Evicted  bool
	Victim   uint8
}

func accessEntry(tick uint64, t mmu.Translation) AccessEntry {
	return AccessEntry{
		Tick:     tick,
		Logical:  uint32(t.Logical),
		Page:     t.Page,
		Offset:   t.Offset,
		Frame:    t.Frame,
		Physical: t.Physical,
		Value:    t.Value,
		Outcome:  t.Outcome.String(),
		Evicted:  t.Evicted,
		Victim:   t.Victim,
	}
}

// SummaryEntry is the row recorded at the end of a run.
type SummaryEntry struct {
	Policy        string
	Frames        int
	Addresses     uint64
	PageFaults    uint64
	PageFaultRate float64
	TLBHits       uint64
	TLBMisses     uint64
	TLBHitRate    float64
	PageTableHits uint64
	Evictions     uint64
}

func summaryEntry(r RunReport) SummaryEntry {
	s := r.Statistics

	return SummaryEntry{
		Policy:        r.Policy.String(),
		Frames:        r.Frames,
		Addresses:     s.Addresses,
		PageFaults:    s.PageFaults,
		PageFaultRate: s.PageFaultRate(),
		TLBHits:       s.TLBHits,
		TLBMisses:     s.TLBMisses(),
		TLBHitRate:    s.TLBHitRate(),
		PageTableHits: s.PageTableHits,
		Evictions:     s.Evictions,
	}
}
