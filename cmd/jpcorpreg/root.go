package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
}

var flags rootFlags

// NewRootCmd creates the top-level "jpcorpreg" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jpcorpreg",
		Short: "Fetch Japan's Corporate Number registry publications",
		Long: `jpcorpreg downloads full snapshots and daily differential updates of
Japan's Corporate Number registry and converts them to an in-memory table
summary or a hive-partitioned parquet dataset.`,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newFetchCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code:
// 1 for caller mistakes (bad prefecture, bad date, bad flags), 2 for
// transport, archive, and filesystem failures.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode classifies an error as a user or system failure.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidPrefecture),
		errors.Is(err, types.ErrInvalidDateFormat),
		errors.Is(err, types.ErrUnknownPartitionColumn),
		errors.Is(err, types.ErrFormatUnknown),
		errors.Is(err, types.ErrPartitionWithTable),
		errors.Is(err, types.ErrBatchSizeInvalid):
		return exitUserError
	default:
		return exitSysError
	}
}

