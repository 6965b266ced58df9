package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/sheet"
)

func (a *App) columnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add, rename or remove columns on the day's sheet",
		Long: `Manage the columns of one day's sheet. New sheets start with a column
per employee on the roster; use these commands for one-off changes.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <label>",
		Short: "Append a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSheet(cmd, func(sh *sheet.Sheet) (string, error) {
				if err := sh.AddColumn(args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Added column %d %s", sh.Len()-1, args[0]), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <col> <label>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSheet(cmd, func(sh *sheet.Sheet) (string, error) {
				col, err := resolveColumn(sh, args[0])
				if err != nil {
					return "", err
				}
				if err := sh.SetColumnLabel(col, args[1]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Renamed column %d to %s", col, args[1]), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <col>",
		Aliases: []string{"rm"},
		Short:   "Remove an empty column",
		Long: `Remove a column. Columns that still hold bookings cannot be removed;
move or remove the bookings first. Later columns shift down by one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editSheet(cmd, func(sh *sheet.Sheet) (string, error) {
				col, err := resolveColumn(sh, args[0])
				if err != nil {
					return "", err
				}
				c, _ := sh.Column(col)
				label := c.Label()
				if err := sh.RemoveColumn(col); err != nil {
					return "", err
				}
				return fmt.Sprintf("Removed column %s", label), nil
			})
		},
	})

	return cmd
}

// editSheet applies fn to the selected day's sheet and saves it.
func (a *App) editSheet(cmd *cobra.Command, fn func(sh *sheet.Sheet) (string, error)) error {
	if err := a.ensureDesk(); err != nil {
		return err
	}
	day, err := a.day()
	if err != nil {
		return err
	}
	var msg string
	_, err = a.desk.Edit(context.Background(), day, func(sh *sheet.Sheet) error {
		var err error
		msg, err = fn(sh)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
