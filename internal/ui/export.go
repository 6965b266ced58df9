package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/dateutil"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		out       string
		toClip    bool
		pretty    bool
		listSaved bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the day's sheet as JSON",
		Long: `Write the saved sheet of the selected day as JSON to stdout, a file or
the clipboard. The document can be loaded back with 'scheduler import'.

Examples:
  scheduler export --date 2025-01-07 --out backup/2025-01-07.json
  scheduler export --clipboard
  scheduler export --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			ctx := context.Background()

			if listSaved {
				days, err := a.sheets.List(ctx)
				if err != nil {
					return err
				}
				for _, d := range days {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", dateutil.FormatDate(d), formatMuted(d.Weekday().String()))
				}
				return nil
			}

			day, err := a.day()
			if err != nil {
				return err
			}
			data, err := a.sheets.LoadRaw(ctx, day)
			if err != nil {
				return err
			}
			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, data, "", "  "); err != nil {
					return fmt.Errorf("formatting sheet: %w", err)
				}
				data = buf.Bytes()
			}

			switch {
			case toClip:
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied sheet for %s to the clipboard\n", dateutil.FormatDate(day))
			case out != "":
				path, err := resolvePath(out)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&toClip, "clipboard", false, "Copy to the clipboard instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON")
	cmd.Flags().BoolVar(&listSaved, "list", false, "List the days that have a saved sheet")
	cmd.MarkFlagsMutuallyExclusive("out", "clipboard")

	return cmd
}
