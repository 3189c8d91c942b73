package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/memory"
	"github.com/sarchlab/vmsim/simulation"
)

// classicReferences is the page reference string used when no pages are
// given.
var classicReferences = []int{
	1, 2, 3, 4, 2, 1, 5, 6, 2, 1, 2, 3, 7, 6, 3, 2, 1, 2, 3, 6,
}

func newGenAddressesCmd() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen-addresses",
		Short: "Write an address list that references the given pages.",
		Long: `Write one address per page reference. The i-th address ` +
			`references the i-th page at offset i modulo 256.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refs, _ := cmd.Flags().GetIntSlice("pages")
			output, _ := cmd.Flags().GetString("output")

			pages := make([]uint8, len(refs))
			for i, r := range refs {
				if r < 0 || r > 255 {
					return fmt.Errorf("page %d is not in [0, 255]", r)
				}

				pages[i] = uint8(r)
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return trace.Write(w, trace.FromReferences(pages))
			})
		},
	}

	genCmd.Flags().IntSlice("pages", classicReferences,
		"Page reference string, comma separated.")
	genCmd.Flags().StringP("output", "o", "",
		"Output file. The list is written to stdout when empty.")

	return genCmd
}

func newGenStoreCmd() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen-store",
		Short: "Write a pseudo-random 64 KiB backing store image.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			seed, _ := cmd.Flags().GetInt64("seed")

			return writeOutput(cmd, output, func(w io.Writer) error {
				return memory.GenerateImage(w, seed)
			})
		},
	}

	genCmd.Flags().StringP("output", "o", simulation.DefaultBackingStore,
		"Output file.")
	genCmd.Flags().Int64("seed", 1, "Seed of the image content.")

	return genCmd
}

// writeOutput lets write fill the named file, or the command's output when
// the name is empty.
func writeOutput(
	cmd *cobra.Command,
	name string,
	write func(w io.Writer) error,
) error {
	if name == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}

	err = write(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return f.Close()
}
