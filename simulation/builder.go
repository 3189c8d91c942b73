package simulation

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/memory"
	"github.com/sarchlab/vmsim/monitoring"
)

// Builder can be used to build a simulation.
type Builder struct {
	config       Config
	backingStore memory.BackingStore
	dataRecorder datarecording.DataRecorder
	logger       *slog.Logger
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b Builder) WithConfig(c Config) Builder {
	b.config = c
	return b
}

// WithBackingStore provides the backing store directly instead of opening
// the configured image file. The simulation does not close it.
func (b Builder) WithBackingStore(s memory.BackingStore) Builder {
	b.backingStore = s
	return b
}

// WithDataRecorder records into the given recorder instead of creating a
// database from the configuration. The simulation closes it.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.dataRecorder = r
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// Build validates the configuration and acquires the resources of the run.
func (b Builder) Build() (*Simulation, error) {
	err := b.config.Validate()
	if err != nil {
		return nil, err
	}

	policy, _ := physmem.ParsePolicy(b.config.Policy)

	s := &Simulation{
		config:       b.config,
		policy:       policy,
		backingStore: b.backingStore,
		logger:       b.logger,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	err = b.openBackingStore(s)
	if err != nil {
		return nil, err
	}

	err = b.createDataRecorder(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	err = b.startMonitor(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (b Builder) openBackingStore(s *Simulation) error {
	if s.backingStore != nil {
		return nil
	}

	fileStore, err := memory.Open(b.config.BackingStore)
	if err != nil {
		return err
	}

	s.backingStore = fileStore
	s.closers = append(s.closers, fileStore)

	s.logger.Debug("backing store opened",
		"path", fileStore.Path(), "size", fileStore.Size())

	return nil
}

func (b Builder) createDataRecorder(s *Simulation) error {
	recorder := b.dataRecorder
	if recorder == nil {
		if !b.config.Record {
			return nil
		}

		var err error
		recorder, err = datarecording.New(b.config.RecordPath)
		if err != nil {
			return fmt.Errorf("creating recording: %w", err)
		}
	}

	s.dataRecorder = recorder
	s.closers = append(s.closers, recorder)

	recorder.CreateTable(AccessTable, AccessEntry{})
	recorder.CreateTable(SummaryTable, SummaryEntry{})

	s.execRecorder = datarecording.NewExecRecorder(recorder)
	s.execRecorder.Start()
	b.noteConfig(s.execRecorder)

	return nil
}

func (b Builder) noteConfig(e *datarecording.ExecRecorder) {
	c := b.config

	e.Note("Input File", c.InputFile)
	e.Note("Backing Store", c.BackingStore)
	e.Note("Frames", strconv.Itoa(c.Frames))
	e.Note("Policy", c.Policy)
	e.Note("TLB Entries", strconv.Itoa(c.TLBEntries))
	e.Note("TLB Fill On Fault", strconv.FormatBool(c.TLBFillOnFault))
}

func (b Builder) startMonitor(s *Simulation) error {
	if !b.config.Monitor {
		return nil
	}

	s.monitor = monitoring.NewMonitor().WithPortNumber(b.config.MonitorPort)
	s.monitor.RegisterLocker(&s.lock)

	err := s.monitor.StartServer()
	if err != nil {
		return err
	}

	if b.config.OpenBrowser {
		err = s.monitor.OpenBrowser()
		if err != nil {
			s.logger.Warn("cannot open browser", "error", err)
		}
	}

	return nil
}
