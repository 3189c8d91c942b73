// Package simulation wires the TLB, the page table, the physical memory, and
// the backing store into one run over an address stream.
package simulation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/memory"
	"github.com/sarchlab/vmsim/monitoring"
	"github.com/sarchlab/vmsim/tracing"
)

// A Simulation owns every structure of one run. It is not reusable; build a
// new one for every run.
type Simulation struct {
	// lock is held during each translation and while the monitor reads the
	// components.
	lock sync.Mutex

	config Config
	policy physmem.Policy
	logger *slog.Logger

	backingStore memory.BackingStore
	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	dbTracer     *tracing.DBTracer
	stepCounter  *tracing.StepCountTracer
	monitor      *monitoring.Monitor
	closers      []io.Closer

	mmu *mmu.MMU
	ran bool
}

// Config returns the configuration of the simulation.
func (s *Simulation) Config() Config {
	return s.config
}

// MMU returns the translator of the last run, or nil before Run.
func (s *Simulation) MMU() *mmu.MMU {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.mmu
}

// StepCounter returns how often each translation step happened.
func (s *Simulation) StepCounter() *tracing.StepCountTracer {
	return s.stepCounter
}

// Run translates the addresses in order. The i-th address is translated at
// tick i. One line is written to out per address, followed by the summary.
// Run stops between two translations when ctx is done.
func (s *Simulation) Run(
	ctx context.Context,
	addrs []vm.LogicalAddress,
	out io.Writer,
) (RunReport, error) {
	if s.ran {
		return RunReport{}, ErrAlreadyRun
	}
	s.ran = true

	m := s.buildMMU(addrs)
	frames := m.FrameStore()

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar("Translation", uint64(len(addrs)))
		defer s.monitor.CompleteProgressBar(bar)
	}

	s.logger.Info("simulation started",
		"addresses", len(addrs),
		"frames", s.config.Frames,
		"policy", s.policy.String())
	start := time.Now()

	w := bufio.NewWriter(out)

	for i, addr := range addrs {
		err := ctx.Err()
		if err != nil {
			return RunReport{}, err
		}

		t, err := s.translate(m, addr, uint64(i))
		if err != nil {
			return RunReport{}, fmt.Errorf("translating address %d (#%d): %w",
				addr, i+1, err)
		}

		err = writeTranslation(w, s.config.Format, t, frames)
		if err != nil {
			return RunReport{}, err
		}

		if s.dataRecorder != nil {
			s.dataRecorder.InsertData(AccessTable, accessEntry(uint64(i), t))
		}

		if bar != nil {
			bar.IncrementFinished(1)
		}
	}

	report := RunReport{
		Policy:     s.policy,
		Frames:     s.config.Frames,
		Statistics: m.Statistics(),
	}

	err := report.WriteSummary(w)
	if err != nil {
		return RunReport{}, err
	}

	if s.dataRecorder != nil {
		s.dataRecorder.InsertData(SummaryTable, summaryEntry(report))
		s.dataRecorder.Flush()
	}

	s.logger.Info("simulation finished",
		"page_faults", report.Statistics.PageFaults,
		"tlb_hits", report.Statistics.TLBHits,
		"evictions", report.Statistics.Evictions,
		"elapsed", time.Since(start))

	return report, w.Flush()
}

func (s *Simulation) translate(
	m *mmu.MMU,
	addr vm.LogicalAddress,
	tick uint64,
) (mmu.Translation, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return m.Translate(addr, tick)
}

func (s *Simulation) buildMMU(addrs []vm.LogicalAddress) *mmu.MMU {
	s.lock.Lock()
	defer s.lock.Unlock()

	frames := physmem.MakeBuilder().
		WithNumFrames(s.config.Frames).
		WithPolicy(s.policy).
		WithLookahead(trace.NewLookahead(addrs)).
		WithBackingStore(s.backingStore).
		Build("PhysicalMemory")

	t := tlb.MakeBuilder().
		WithNumEntries(s.config.TLBEntries).
		Build("TLB")

	pageTable := vm.NewPageTable("PageTable")

	s.mmu = mmu.MakeBuilder().
		WithPageTable(pageTable).
		WithTLB(t).
		WithFrameStore(frames).
		WithTLBFillOnFault(s.config.TLBFillOnFault).
		WithLogger(s.logger).
		Build("MMU")

	s.stepCounter = tracing.NewStepCountTracer(
		tracing.TasksOfKind(mmu.TranslationTaskKind))
	tracing.CollectTrace(s.mmu, s.stepCounter)

	if s.dataRecorder != nil {
		s.dbTracer = tracing.NewDBTracer(s.mmu, s.dataRecorder)
		tracing.CollectTrace(s.mmu, s.dbTracer)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(s.mmu)
		s.monitor.RegisterComponent(t)
		s.monitor.RegisterComponent(pageTable)
		s.monitor.RegisterComponent(frames)
	}

	return s.mmu
}

// Close stops the monitor, finishes the recording, and releases the backing
// store.
func (s *Simulation) Close() error {
	var errs []error

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		errs = append(errs, s.monitor.Shutdown(ctx))
		cancel()
		s.monitor = nil
	}

	if s.dbTracer != nil {
		s.dbTracer.Terminate()
		s.dbTracer = nil
	}

	if s.execRecorder != nil {
		s.execRecorder.End()
		s.execRecorder = nil
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil

	return errors.Join(errs...)
}
