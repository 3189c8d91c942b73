// Package mmu translates logical addresses by consulting the TLB, then the
// page table, and finally loading the page from the backing store.
package mmu

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim"
	"github.com/sarchlab/vmsim/tracing"
)

// TranslationTaskKind is the kind of the task traced for every translation.
const TranslationTaskKind = "translation"

// Steps of a translation task, besides the outcomes.
const (
	StepTLBMiss = "tlb-miss"
	StepEvict   = "evict"
)

// MMU owns the TLB, the page table, and the physical frames of one run.
type MMU struct {
	*sim.HookableBase

	name           string
	pageTable      vm.PageTable
	tlb            *tlb.TLB
	frames         *physmem.FrameStore
	fillTLBOnFault bool
	logger         *slog.Logger
	idGenerator    sim.IDGenerator

	now   uint64
	stats Statistics
}

// Name returns the name of the MMU.
func (m *MMU) Name() string {
	return m.name
}

// CurrentTime returns the tick of the latest translation.
func (m *MMU) CurrentTime() uint64 {
	return m.now
}

// PageTable returns the page table of the MMU.
func (m *MMU) PageTable() vm.PageTable {
	return m.pageTable
}

// TLB returns the TLB of the MMU.
func (m *MMU) TLB() *tlb.TLB {
	return m.tlb
}

// FrameStore returns the physical memory of the MMU.
func (m *MMU) FrameStore() *physmem.FrameStore {
	return m.frames
}

// Statistics returns a copy of the counters.
func (m *MMU) Statistics() Statistics {
	return m.stats
}

// Translate resolves one logical address at the given tick. Ticks must
// increase from one call to the next. If the page cannot be loaded, the
// error is returned and the counters are not changed.
func (m *MMU) Translate(
	addr vm.LogicalAddress,
	tick uint64,
) (Translation, error) {
	m.now = tick

	taskID := m.idGenerator.Generate()
	tracing.StartTask(taskID, "", m, TranslationTaskKind, "read", addr)
	defer tracing.EndTask(taskID, m)

	page, offset := vm.Decompose(addr)
	t := Translation{
		Logical: addr,
		Page:    page,
		Offset:  offset,
	}

	frame, hit := m.tlb.Lookup(page)
	if hit {
		tracing.AddTaskStep(taskID, m, TLBHit.String())
		m.tlbMustAgreeWithPageTable(page, frame)
		t.Outcome = TLBHit
		m.touch(page, frame, tick)
	} else {
		tracing.AddTaskStep(taskID, m, StepTLBMiss)

		var err error
		frame, err = m.walk(taskID, &t, tick)
		if err != nil {
			return Translation{}, err
		}
	}

	t.Frame = frame
	t.Physical = vm.PhysicalAddress(frame, offset)
	t.Value = m.frames.Read(frame, offset)

	m.count(t)

	return t, nil
}

func (m *MMU) walk(taskID string, t *Translation, tick uint64) (int, error) {
	pte := m.pageTable.Lookup(t.Page)
	if pte.Valid {
		tracing.AddTaskStep(taskID, m, PageTableHit.String())
		t.Outcome = PageTableHit
		m.touch(t.Page, pte.Frame, tick)
		m.tlb.Insert(t.Page, pte.Frame, tick)

		return pte.Frame, nil
	}

	tracing.AddTaskStep(taskID, m, PageFault.String())
	t.Outcome = PageFault

	alloc, err := m.frames.AllocateOrEvict(t.Page, tick)
	if err != nil {
		return 0, fmt.Errorf("loading page %d: %w", t.Page, err)
	}

	if alloc.Evicted {
		tracing.AddTaskStep(taskID, m, StepEvict)
		m.evict(alloc.Victim)
		t.Evicted = true
		t.Victim = alloc.Victim

		m.logger.Debug("page evicted",
			"tick", tick, "page", alloc.Victim, "frame", alloc.Frame)
	}

	m.pageTable.Install(t.Page, alloc.Frame, tick)
	if m.fillTLBOnFault {
		m.tlb.Insert(t.Page, alloc.Frame, tick)
	}

	m.logger.Debug("page fault",
		"tick", tick, "page", t.Page, "frame", alloc.Frame)

	return alloc.Frame, nil
}

// evict removes every trace of the victim, so that no later lookup can
// reach the frame through the old page.
func (m *MMU) evict(victim uint8) {
	m.pageTable.Invalidate(victim)
	m.tlb.Purge(victim)
}

func (m *MMU) touch(page uint8, frame int, tick uint64) {
	m.pageTable.Touch(page, tick)
	m.frames.Touch(frame, tick)
}

func (m *MMU) count(t Translation) {
	m.stats.Addresses++

	switch t.Outcome {
	case TLBHit:
		m.stats.TLBHits++
	case PageTableHit:
		m.stats.PageTableHits++
	case PageFault:
		m.stats.PageFaults++
	}

	if t.Evicted {
		m.stats.Evictions++
	}
}

func (m *MMU) tlbMustAgreeWithPageTable(page uint8, frame int) {
	pte := m.pageTable.Lookup(page)
	if !pte.Valid || pte.Frame != frame {
		panic(fmt.Sprintf(
			"TLB maps page %d to frame %d, page table entry is %+v",
			page, frame, pte))
	}
}
