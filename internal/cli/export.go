package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/rbsync/internal/reconcile"
)

func newExportCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Export database ratings into MP3 tags",
		Long: `Write database ratings into the Popularimeter frame of the matching
MP3 files. Without file arguments every rated song in the database is
examined. Files that already carry a rating are kept unless --force is
given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags, reconcile.Export, "", args)
		},
	}

	return cmd
}
