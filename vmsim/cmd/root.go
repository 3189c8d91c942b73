// Package cmd provides the command-line interface for vmsim.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vmsim",
		Short: "vmsim simulates address translation through a TLB and a page table.",
		Long: `vmsim translates a list of 16-bit logical addresses through a ` +
			`16-entry TLB, a 256-entry page table, and a physical memory ` +
			`backed by a 64 KiB backing store image. Frames are replaced ` +
			`with FIFO, LRU, or OPT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogger(cmd)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info",
		"Log level (debug, info, warn, error). "+
			"Debug logs every fault and eviction.")
	rootCmd.PersistentFlags().StringSlice("env-file", nil,
		"Files with VMSIM_* settings to load before reading the environment.")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newGenAddressesCmd())
	rootCmd.AddCommand(newGenStoreCmd())
	rootCmd.AddCommand(newInspectCmd())

	return rootCmd
}

func setupLogger(cmd *cobra.Command) error {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	var level slog.Level

	err = level.UnmarshalText([]byte(levelName))
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(),
		&slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	return nil
}

// Execute runs the command line and exits. Interrupting the process stops a
// running simulation between two translations.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
