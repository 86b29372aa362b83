package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/rbsync/internal/config"
	"github.com/llehouerou/rbsync/internal/errmsg"
	"github.com/llehouerou/rbsync/internal/logging"
	"github.com/llehouerou/rbsync/internal/popm"
	"github.com/llehouerou/rbsync/internal/reconcile"
	"github.com/llehouerou/rbsync/internal/syncer"
)

// runSync performs the shared setup for the import and export commands and
// executes a single sync run.
func runSync(cmd *cobra.Command, flags *rootFlags, dir reconcile.Direction, output string, files []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLoadConfig, err))
	}

	input, err := resolveInput(flags.input, cfg)
	if err != nil {
		return err
	}

	logLevel := flags.logLevel
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logFile := flags.logFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	log, closeLog, err := logging.New(logging.Options{Level: logLevel, File: logFile})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitLog, err))
	}
	defer func() {
		_ = closeLog()
	}()

	// Importing in place rewrites the database Rhythmbox owns, so ask first.
	if dir == reconcile.Import && !flags.dry && (output == "" || output == input) {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("This will overwrite %s. Continue?", input))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	s := syncer.New(popm.New(cfg.Identity), log)
	report, err := s.Run(cmd.Context(), syncer.Options{
		InputPath:  input,
		OutputPath: output,
		Direction:  dir,
		Force:      flags.force,
		DryRun:     flags.dry,
		Files:      files,
	})
	if err != nil {
		op := errmsg.OpImport
		if dir == reconcile.Export {
			op = errmsg.OpExport
		}
		return errors.New(errmsg.Format(op, err))
	}

	fmt.Fprint(cmd.OutOrStdout(), renderReport(report))
	return nil
}

// resolveInput picks the database path: flag, then config, then the
// platform default location.
func resolveInput(flag string, cfg *config.Config) (string, error) {
	path := flag
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = config.DefaultDatabasePath()
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.New(errmsg.FormatWith(errmsg.OpLoadDatabase, path, err))
	}
	return path, nil
}

// confirm asks a yes/no question, defaulting to no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [yes/No] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
