package simulation

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
)

// EnvPrefix is the prefix of the environment variables that configure a
// simulation.
const EnvPrefix = "VMSIM_"

// DefaultBackingStore is the image used when none is configured.
const DefaultBackingStore = "BACKING_STORE.bin"

// Config holds everything needed to set up one run.
type Config struct {
	InputFile      string
	BackingStore   string
	Frames         int
	Policy         string
	TLBEntries     int
	TLBFillOnFault bool
	Format         Format
	Record         bool
	RecordPath     string
	Monitor        bool
	MonitorPort    int
	OpenBrowser    bool
}

// DefaultConfig returns 256 frames, FIFO replacement, and a 16-entry TLB
// that is filled on faults.
func DefaultConfig() Config {
	return Config{
		BackingStore:   DefaultBackingStore,
		Frames:         vm.NumPages,
		Policy:         physmem.FIFO.String(),
		TLBEntries:     tlb.DefaultNumEntries,
		TLBFillOnFault: true,
		Format:         FormatDefault,
	}
}

// LoadEnv loads the given env files and then applies the VMSIM_* variables
// found in the environment. Variables that are already set take precedence
// over the files.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) > 0 {
		err := godotenv.Load(files...)
		if err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	}

	texts := map[string]*string{
		"BACKING_STORE": &c.BackingStore,
		"POLICY":        &c.Policy,
		"RECORD_PATH":   &c.RecordPath,
	}
	for name, field := range texts {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*field = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "FORMAT"); ok {
		c.Format = Format(v)
	}

	ints := map[string]*int{
		"FRAMES":       &c.Frames,
		"TLB_ENTRIES":  &c.TLBEntries,
		"MONITOR_PORT": &c.MonitorPort,
	}
	for name, field := range ints {
		err := lookupEnv(name, field, strconv.Atoi)
		if err != nil {
			return err
		}
	}

	bools := map[string]*bool{
		"TLB_FILL_ON_FAULT": &c.TLBFillOnFault,
		"RECORD":            &c.Record,
		"MONITOR":           &c.Monitor,
		"OPEN_BROWSER":      &c.OpenBrowser,
	}
	for name, field := range bools {
		err := lookupEnv(name, field, strconv.ParseBool)
		if err != nil {
			return err
		}
	}

	return nil
}

func lookupEnv[T any](name string, field *T, parse func(string) (T, error)) error {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return nil
	}

	parsed, err := parse(v)
	if err != nil {
		return &ConfigError{Field: EnvPrefix + name, Value: v, Err: ErrInvalidValue}
	}

	*field = parsed

	return nil
}

// Validate checks every setting before anything is translated.
func (c Config) Validate() error {
	if c.Frames < 1 || c.Frames > vm.NumPages {
		return &ConfigError{
			Field: "frames",
			Value: strconv.Itoa(c.Frames),
			Err:   ErrInvalidFrameCount,
		}
	}

	_, err := physmem.ParsePolicy(c.Policy)
	if err != nil {
		return &ConfigError{Field: "policy", Value: c.Policy, Err: err}
	}

	if c.TLBEntries < 1 {
		return &ConfigError{
			Field: "tlb-entries",
			Value: strconv.Itoa(c.TLBEntries),
			Err:   ErrInvalidTLBSize,
		}
	}

	if c.Format != FormatDefault && c.Format != FormatMemSim {
		return &ConfigError{
			Field: "format",
			Value: string(c.Format),
			Err:   ErrUnknownFormat,
		}
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return &ConfigError{
			Field: "monitor-port",
			Value: strconv.Itoa(c.MonitorPort),
			Err:   ErrInvalidPort,
		}
	}

	return nil
}
