package cmd

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/simulation"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <addresses.txt> [frames] [policy]",
		Short: "Translate the addresses listed in a file.",
		Long: `Translate every address in the file, one per line, and print ` +
			`one line per address followed by a summary. The optional ` +
			`positional frames and policy arguments are overridden by the ` +
			`--frames and --policy flags.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := runConfig(cmd, args)
			if err != nil {
				return err
			}

			return runSimulation(cmd, config)
		},
	}

	defaults := simulation.DefaultConfig()
	flags := runCmd.Flags()

	flags.Int("frames", defaults.Frames, "Number of physical frames, in [1, 256].")
	flags.String("policy", defaults.Policy, "Replacement policy: FIFO, LRU, or OPT.")
	flags.String("backing-store", defaults.BackingStore,
		"Path of the 64 KiB backing store image.")
	flags.Int("tlb-entries", defaults.TLBEntries, "Number of TLB entries.")
	flags.Bool("tlb-fill-on-fault", defaults.TLBFillOnFault,
		"Insert the mapping into the TLB after a page fault.")
	flags.String("format", string(defaults.Format),
		"Output format: default or memsim.")
	flags.Bool("record", defaults.Record,
		"Record every translation into a SQLite database.")
	flags.String("record-path", defaults.RecordPath,
		"Path of the recording, without the .sqlite3 extension.")
	flags.Bool("monitor", defaults.Monitor,
		"Serve the simulation state over HTTP while running.")
	flags.Int("monitor-port", defaults.MonitorPort,
		"Port of the monitoring server. 0 picks a free port.")
	flags.Bool("open-browser", defaults.OpenBrowser,
		"Open the monitoring page in a browser.")

	return runCmd
}

// runConfig layers the settings: defaults, then the environment, then the
// positional arguments, then explicitly set flags.
func runConfig(cmd *cobra.Command, args []string) (simulation.Config, error) {
	config := simulation.DefaultConfig()

	envFiles, err := cmd.Flags().GetStringSlice("env-file")
	if err != nil {
		return config, err
	}

	err = config.LoadEnv(envFiles...)
	if err != nil {
		return config, err
	}

	config.InputFile = args[0]

	if len(args) > 1 {
		frames, err := strconv.Atoi(args[1])
		if err != nil {
			return config, &simulation.ConfigError{
				Field: "frames",
				Value: args[1],
				Err:   simulation.ErrInvalidValue,
			}
		}

		config.Frames = frames
	}

	if len(args) > 2 {
		config.Policy = args[2]
	}

	err = applyFlags(cmd, &config)
	if err != nil {
		return config, err
	}

	return config, config.Validate()
}

func applyFlags(cmd *cobra.Command, config *simulation.Config) error {
	flags := cmd.Flags()

	var errs []error

	getInt := func(name string, field *int) {
		if flags.Changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*field = v
		}
	}

	getString := func(name string, field *string) {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*field = v
		}
	}

	getBool := func(name string, field *bool) {
		if flags.Changed(name) {
			v, err := flags.GetBool(name)
			errs = append(errs, err)
			*field = v
		}
	}

	getInt("frames", &config.Frames)
	getInt("tlb-entries", &config.TLBEntries)
	getInt("monitor-port", &config.MonitorPort)
	getString("policy", &config.Policy)
	getString("backing-store", &config.BackingStore)
	getString("record-path", &config.RecordPath)
	getBool("tlb-fill-on-fault", &config.TLBFillOnFault)
	getBool("record", &config.Record)
	getBool("monitor", &config.Monitor)
	getBool("open-browser", &config.OpenBrowser)

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		errs = append(errs, err)
		config.Format = simulation.Format(v)
	}

	return errors.Join(errs...)
}

func runSimulation(cmd *cobra.Command, config simulation.Config) error {
	addrs, err := trace.ReadFile(config.InputFile)
	if err != nil {
		return err
	}

	s, err := simulation.MakeBuilder().
		WithConfig(config).
		WithLogger(slog.Default()).
		Build()
	if err != nil {
		return err
	}

	_, err = s.Run(cmd.Context(), addrs, cmd.OutOrStdout())

	return errors.Join(err, s.Close())
}
