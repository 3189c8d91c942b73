package mmu

import (
	"log/slog"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim"
)

// A Builder can build MMUs.
type Builder struct {
	pageTable      vm.PageTable
	tlb            *tlb.TLB
	frames         *physmem.FrameStore
	fillTLBOnFault bool
	logger         *slog.Logger
	idGenerator    sim.IDGenerator
}

// MakeBuilder creates a new builder. By default, a translation that faults
// also fills the TLB.
func MakeBuilder() Builder {
	return Builder{
		fillTLBOnFault: true,
	}
}

// WithPageTable sets the page table that the MMU uses. A new page table is
// created if this is not set.
func (b Builder) WithPageTable(pageTable vm.PageTable) Builder {
	b.pageTable = pageTable
	return b
}

// WithTLB sets the TLB that the MMU uses. A 16-entry TLB is created if this is
// not set.
func (b Builder) WithTLB(t *tlb.TLB) Builder {
	b.tlb = t
	return b
}

// WithFrameStore sets the physical memory. It is required.
func (b Builder) WithFrameStore(frames *physmem.FrameStore) Builder {
	b.frames = frames
	return b
}

// WithTLBFillOnFault sets whether the mapping created by a page fault is
// inserted into the TLB. When disabled, only page table hits fill the TLB.
func (b Builder) WithTLBFillOnFault(enabled bool) Builder {
	b.fillTLBOnFault = enabled
	return b
}

// WithLogger sets the logger for faults and evictions.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithIDGenerator sets the generator of translation task IDs.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGenerator = g
	return b
}

// Build returns a newly created MMU.
func (b Builder) Build(name string) *MMU {
	if b.frames == nil {
		panic("frame store is not set")
	}

	m := &MMU{
		HookableBase:   sim.NewHookableBase(),
		name:           name,
		pageTable:      b.pageTable,
		tlb:            b.tlb,
		frames:         b.frames,
		fillTLBOnFault: b.fillTLBOnFault,
		logger:         b.logger,
		idGenerator:    b.idGenerator,
	}

	if m.pageTable == nil {
		m.pageTable = vm.NewPageTable(name + ".PageTable")
	}

	if m.tlb == nil {
		m.tlb = tlb.MakeBuilder().Build(name + ".TLB")
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	if m.idGenerator == nil {
		m.idGenerator = sim.NewSequentialIDGenerator()
	}

	return m
}
