package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/store"
)

func (a *App) grossCmd() *cobra.Command {
	var (
		from  string
		to    string
		week  bool
		file  string
		noClr bool
	)

	cmd := &cobra.Command{
		Use:     "gross",
		Aliases: []string{"totals"},
		Short:   "Show takings for a day or a range of days",
		Long: `Total the bookings of the selected day, of its week, or of a range.
Days without a saved sheet count as empty.

Examples:
  scheduler gross
  scheduler gross --week
  scheduler gross --from 2025-01-01 --to 2025-01-31
  scheduler gross --file backup/2025-01-07.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noClr {
				DisableColor()
			}
			out := cmd.OutOrStdout()

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading sheet: %w", err)
				}
				total, err := ledger.GrossFromJSON(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n", file, formatMoney(formatPrice(total)))
				return nil
			}

			if err := a.ensureDesk(); err != nil {
				return err
			}
			summary, err := a.summarize(context.Background(), from, to, week)
			if err != nil {
				return err
			}
			PrintSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day of the range")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the range (default: first day)")
	cmd.Flags().BoolVarP(&week, "week", "w", false, "Total the week of the selected day")
	cmd.Flags().StringVar(&file, "file", "", "Total a sheet JSON file without loading it onto the board")
	cmd.Flags().BoolVar(&noClr, "no-color", false, "Disable colors")
	cmd.MarkFlagsMutuallyExclusive("week", "from")
	cmd.MarkFlagsMutuallyExclusive("week", "file")
	cmd.MarkFlagsMutuallyExclusive("from", "file")

	return cmd
}

// summarize totals the selected day, its week, or the from/to range.
func (a *App) summarize(ctx context.Context, from, to string, week bool) (*ledger.Summary, error) {
	if from != "" || to != "" {
		if from == "" {
			from = to
		}
		r, err := dateutil.NewDateRange(from, to, a.now())
		if err != nil {
			return nil, err
		}
		return a.desk.SummaryRange(ctx, *r)
	}

	day, err := a.day()
	if err != nil {
		return nil, err
	}
	if week {
		monday, sunday := dateutil.WeekRange(day)
		return a.desk.SummaryRange(ctx, dateutil.DateRange{Start: monday, End: sunday})
	}

	summary, err := a.desk.Summary(ctx, day)
	if errors.Is(err, store.ErrSheetNotFound) {
		return &ledger.Summary{Start: day, End: day}, nil
	}
	return summary, err
}
