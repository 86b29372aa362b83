// Package cli wires the rbsync commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	input    string
	force    bool
	dry      bool
	logFile  string
	logLevel string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "rbsync",
		Short:         "Synchronize track ratings between MP3 tags and a Rhythmbox database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.input, "input-file", "i", "", "Path to the rhythmdb.xml database")
	rootCmd.PersistentFlags().BoolVarP(&flags.force, "force", "f", false, "Overwrite ratings that already exist on the target")
	rootCmd.PersistentFlags().BoolVar(&flags.dry, "dry", false, "Report what would change without writing anything")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newImportCommand(flags))
	rootCmd.AddCommand(newExportCommand(flags))

	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
