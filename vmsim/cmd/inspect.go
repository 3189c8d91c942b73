package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/simulation"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <recording.sqlite3>",
		Short: "Print the summary and the page faults of a recorded run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			return inspect(cmd, reader)
		},
	}
}

func inspect(cmd *cobra.Command, reader datarecording.DataReader) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	reader.MapTable(simulation.SummaryTable, simulation.SummaryEntry{})
	reader.MapTable(simulation.AccessTable, simulation.AccessEntry{})

	summaries, _, err := reader.Query(ctx, simulation.SummaryTable,
		datarecording.QueryParams{})
	if err != nil {
		return fmt.Errorf("reading summary: %w", err)
	}

	for _, s := range summaries {
		printSummary(out, s.(*simulation.SummaryEntry))
	}

	faults, total, err := reader.Query(ctx, simulation.AccessTable,
		datarecording.QueryParams{
			Where:   "Outcome = ?",
			Args:    []any{mmu.PageFault.String()},
			OrderBy: "Tick",
		})
	if err != nil {
		return fmt.Errorf("reading accesses: %w", err)
	}

	fmt.Fprintf(out, "Faults (%d):\n", total)

	for _, f := range faults {
		a := f.(*simulation.AccessEntry)

		fmt.Fprintf(out, "  #%d address %d page %d -> frame %d",
			a.Tick, a.Logical, a.Page, a.Frame)

		if a.Evicted {
			fmt.Fprintf(out, " (evicted page %d)", a.Victim)
		}

		fmt.Fprintln(out)
	}

	return nil
}

func printSummary(w io.Writer, s *simulation.SummaryEntry) {
	fmt.Fprintf(w, "Policy = %s\n", s.Policy)
	fmt.Fprintf(w, "Frames = %d\n", s.Frames)
	fmt.Fprintf(w, "Number of Translated Addresses = %d\n", s.Addresses)
	fmt.Fprintf(w, "Page Faults = %d\n", s.PageFaults)
	fmt.Fprintf(w, "Page Fault Rate = %.3f\n", s.PageFaultRate)
	fmt.Fprintf(w, "TLB Hits = %d\n", s.TLBHits)
	fmt.Fprintf(w, "TLB Misses = %d\n", s.TLBMisses)
	fmt.Fprintf(w, "TLB Hit Rate = %.3f\n", s.TLBHitRate)
	fmt.Fprintf(w, "Evictions = %d\n", s.Evictions)
}
