package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/dateutil"
)

func (a *App) showCmd() *cobra.Command {
	var (
		compact bool
		noColor bool
		raw     bool
		width   int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the day's sheet",
		Long: `Display the sheet for the selected day as a table, one row per slot.

Use --raw for the compact text form: one character per column,
"-" empty, "c" the start of a booking and "0" the rest of it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureDesk(); err != nil {
				return err
			}
			day, err := a.day()
			if err != nil {
				return err
			}

			sh, created, err := a.desk.OpenSheet(context.Background(), day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if raw {
				fmt.Fprint(out, sh.String())
				return nil
			}

			fmt.Fprintf(out, "=== %s ===", formatHeader(day.Format("Monday, January 2, 2006")))
			if !a.desk.IsWorkday(day) {
				fmt.Fprint(out, " "+formatWarn("day off"))
			}
			fmt.Fprintln(out)
			if created {
				fmt.Fprintln(out, formatMuted("No sheet saved for "+dateutil.FormatDate(day)+" yet."))
			}
			fmt.Fprintln(out)

			PrintSheet(out, sh, PrintOpts{Width: width, Compact: compact})

			bookings := sh.Bookings()
			if len(bookings) > 0 {
				served, gross := 0, 0
				for _, b := range bookings {
					gross += b.Price()
					if b.Served {
						served++
					}
				}
				fmt.Fprintf(out, "\n%d booking(s), %d served, gross %s\n",
					len(bookings), served, formatMoney(formatPrice(gross)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "Only show rows with bookings")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the compact text form")
	cmd.Flags().IntVar(&width, "width", 0, "Table width (default: terminal width)")
	return cmd
}
