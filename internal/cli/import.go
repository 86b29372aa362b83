package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/rbsync/internal/reconcile"
)

func newImportCommand(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import MP3 tag ratings into the database",
		Long: `Read Popularimeter ratings from MP3 files and write them into the
database. Without file arguments every song in the database is examined.
Existing database ratings are kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags, reconcile.Import, output, args)
		},
	}

	cmd.Flags().StringVarP(&output, "output-file", "o", "", "Write the updated database here instead of in place")

	return cmd
}
