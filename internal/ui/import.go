package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/dateutil"
)

func (a *App) importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <sheet.json>",
		Short: "Load a sheet from a JSON file",
		Long: `Load a sheet document as the sheet of the selected day. The document
is checked slot by slot before anything is written. An existing sheet is
only replaced with --force.

Example:
  scheduler import backup/2025-01-07.json --date 2025-01-07`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			day, err := a.day()
			if err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if sourcePath == a.sheets.Path(day) {
				return fmt.Errorf("source file is the sheet for %s", dateutil.FormatDate(day))
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			if a.sheets.Exists(day) && !force {
				return fmt.Errorf("a sheet for %s already exists (use --force to replace it)", dateutil.FormatDate(day))
			}

			data, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", sourcePath, err)
			}
			sh, err := a.sheets.Import(context.Background(), day, data)
			if err != nil {
				return fmt.Errorf("importing %s: %w", filepath.Base(sourcePath), err)
			}

			a.logger.Info("sheet imported",
				zap.String("file", sourcePath),
				zap.String("day", dateutil.FormatDate(day)),
				zap.Int("bookings", len(sh.Bookings())))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d booking(s) into %s\n", len(sh.Bookings()), dateutil.FormatDate(day))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing sheet")
	return cmd
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
