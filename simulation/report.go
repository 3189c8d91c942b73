package simulation

import (
	"fmt"
	"io"

	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
)

// Format selects how each translation is printed.
type Format string

// The supported output formats.
const (
	// FormatDefault prints "logical, physical, value".
	FormatDefault Format = "default"

	// FormatMemSim prints "logical, value, frame, FRAMEHEX", where FRAMEHEX is
	// the whole frame content in upper-case hexadecimal.
	FormatMemSim Format = "memsim"
)

func writeTranslation(
	w io.Writer,
	format Format,
	t mmu.Translation,
	frames *physmem.FrameStore,
) error {
	var err error

	switch format {
	case FormatMemSim:
		frame := frames.Frame(t.Frame)
		_, err = fmt.Fprintf(w, "%d, %d, %d, %X\n",
			t.Logical, t.Value, t.Frame, frame.Data[:])
	default:
		_, err = fmt.Fprintf(w, "%d, %d, %d\n",
			t.Logical, t.Physical, t.Value)
	}

	return err
}

// A RunReport is the outcome of a run.
type RunReport struct {
	Policy     physmem.Policy
	Frames     int
	Statistics mmu.Statistics
}

// WriteSummary prints the statistics of the run. Rates are 0 when nothing was
// translated.
func (r RunReport) WriteSummary(w io.Writer) error {
	s := r.Statistics

	_, err := fmt.Fprintf(w,
		"Number of Translated Addresses = %d\n"+
			"Page Faults = %d\n"+
			"Page Fault Rate = %.3f\n"+
			"TLB Hits = %d\n"+
			"TLB Misses = %d\n"+
			"TLB Hit Rate = %.3f\n",
		s.Addresses,
		s.PageFaults,
		s.PageFaultRate(),
		s.TLBHits,
		s.TLBMisses(),
		s.TLBHitRate(),
	)

	return err
}
