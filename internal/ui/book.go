package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/sheet"
)

func (a *App) addCmd() *cobra.Command {
	var (
		phone    string
		services []string
		column   string
		at       string
		queue    bool
	)

	cmd := &cobra.Command{
		Use:   "add <first> <last>",
		Short: "Book a customer",
		Long: `Book a customer onto the sheet, or put them on the waiting queue.

Without --col and --at the booking goes to the earliest free slot that
fits, starting from the next opening when booking for today.

Examples:
  scheduler add Ada Lovelace --services "Cut,Color" --col Amy --at 10:30
  scheduler add Alan Turing --services Trim --date tomorrow
  scheduler add Grace Hopper --services Cut --queue`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			ctx := context.Background()
			out := cmd.OutOrStdout()

			b, err := a.desk.NewBooking(ctx, args[0], args[1], phone, services)
			if err != nil {
				return err
			}

			if queue {
				e, err := a.desk.QueueCustomer(ctx, b)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Queued #%d: %s (%s, %s)\n",
					e.ID, b.Name(), b.Labels(), formatMinutes(b.Duration().TotalMinutes()))
				return nil
			}

			day, err := a.day()
			if err != nil {
				return err
			}
			var col, row int
			sh, err := a.desk.Edit(ctx, day, func(sh *sheet.Sheet) error {
				var err error
				col, row, err = a.placement(sh, day, b, column, at)
				if err != nil {
					return err
				}
				return sh.AddCustomer(col, row, b)
			})
			if err != nil {
				return err
			}
			printPlaced(cmd, sh, day, col, row, b)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringSliceVarP(&services, "services", "s", nil, "Services from the catalog (comma-separated, required)")
	cmd.Flags().StringVar(&column, "col", "", "Column index or label")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM) or row index")
	cmd.Flags().BoolVar(&queue, "queue", false, "Put the customer on the waiting queue instead")
	_ = cmd.MarkFlagRequired("services")

	return cmd
}

// placement picks the head position for b: the given column and start, or
// the earliest slot that fits. For today the search starts at the next
// opening so nobody is booked into the past.
func (a *App) placement(sh *sheet.Sheet, day time.Time, b *booking.Booking, column, at string) (int, int, error) {
	if column == "" && at == "" {
		from := sh.Start()
		now := a.now()
		if day.Equal(dateutil.TruncateToDay(now)) {
			openDay, openAt := a.desk.NextOpening(now)
			if !openDay.Equal(day) {
				return 0, 0, fmt.Errorf("%w: no opening left today", desk.ErrNoRoom)
			}
			from = openAt
		}
		return desk.FindSlot(sh, b, from)
	}
	if column == "" || at == "" {
		return 0, 0, fmt.Errorf("%w: --col and --at go together", sheet.ErrInvalidArgument)
	}
	col, err := resolveColumn(sh, column)
	if err != nil {
		return 0, 0, err
	}
	row, err := resolveRow(sh, at)
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

func printPlaced(cmd *cobra.Command, sh *sheet.Sheet, day time.Time, col, row int, b *booking.Booking) {
	fmt.Fprintf(cmd.OutOrStdout(), "Booked %s at %s on %s (%s, %s, %s)\n",
		b.Name(),
		position(sh, col, row),
		dateutil.FormatDate(day),
		b.Labels(),
		formatMinutes(b.Duration().TotalMinutes()),
		formatPrice(b.Price()),
	)
}

func (a *App) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <col> <row> <to-col> <to-row>",
		Short: "Move a booking to another column or time",
		Long: `Move the booking covering (col, row) so that it starts at (to-col, to-row).
Rows may be given as an index or a time of day.

Example:
  scheduler move Amy 10:30 Bea 11:00`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editAt(cmd, "move", args[0], args[1], func(sh *sheet.Sheet, col, row int) (string, error) {
				toCol, err := resolveColumn(sh, args[2])
				if err != nil {
					return "", err
				}
				toRow, err := resolveRow(sh, args[3])
				if err != nil {
					return "", err
				}
				b, _ := sh.Customer(col, row)
				if err := sh.MoveCustomer(col, row, toCol, toRow); err != nil {
					return "", err
				}
				return fmt.Sprintf("Moved %s to %s", nameOf(b), position(sh, toCol, toRow)), nil
			})
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <col> <row>",
		Aliases: []string{"rm", "cancel"},
		Short:   "Remove a booking",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editAt(cmd, "remove", args[0], args[1], func(sh *sheet.Sheet, col, row int) (string, error) {
				b, _ := sh.Customer(col, row)
				if b == nil {
					return "", fmt.Errorf("%w: %s is empty", sheet.ErrNoItemAtIndex, position(sh, col, row))
				}
				if err := sh.RemoveCustomer(col, row); err != nil {
					return "", err
				}
				return fmt.Sprintf("Removed %s", b.Name()), nil
			})
		},
	}
}

func (a *App) splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split <col> <row> <service>...",
		Short: "Split services off into a follow-up booking",
		Long: `Move some of a booking's services into a new booking for the same
customer, starting right after the shortened original.

Example:
  scheduler split Amy 10:30 Color`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editAt(cmd, "split", args[0], args[1], func(sh *sheet.Sheet, col, row int) (string, error) {
				b, err := sh.Customer(col, row)
				if err != nil {
					return "", err
				}
				if b == nil {
					return "", fmt.Errorf("%w: %s is empty", sheet.ErrNoItemAtIndex, position(sh, col, row))
				}
				transferred, err := pickServices(b, args[2:])
				if err != nil {
					return "", err
				}
				if err := sh.SplitCustomer(col, row, transferred); err != nil {
					return "", err
				}
				return fmt.Sprintf("Split %s: %d service(s) moved to a follow-up booking", b.Name(), len(transferred)), nil
			})
		},
	}
}

func (a *App) setServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-services <col> <row> <service>...",
		Short: "Replace the services of a booking",
		Long: `Replace the services of a booking with services from the catalog. The
booking grows or shrinks in place and is rejected if it would run into
the next booking.

Example:
  scheduler set-services Amy 10:30 Cut Trim`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			services, err := a.desk.ResolveServices(context.Background(), args[2:])
			if err != nil {
				return err
			}
			return a.editAt(cmd, "set-services", args[0], args[1], func(sh *sheet.Sheet, col, row int) (string, error) {
				b, _ := sh.Customer(col, row)
				if err := sh.SetCustomerServices(col, row, services); err != nil {
					return "", err
				}
				updated, _ := sh.Customer(col, row)
				return fmt.Sprintf("Updated %s: %s", nameOf(b), updated.Labels()), nil
			})
		},
	}
}

func (a *App) serveCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "serve <col> <row>",
		Short: "Mark a booking as served",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editAt(cmd, "serve", args[0], args[1], func(sh *sheet.Sheet, col, row int) (string, error) {
				if err := sh.SetServed(col, row, !undo); err != nil {
					return "", err
				}
				b, _ := sh.Customer(col, row)
				if undo {
					return fmt.Sprintf("%s is waiting again", b.Name()), nil
				}
				return fmt.Sprintf("Served %s (%s)", b.Name(), formatPrice(b.Price())), nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the booking as not served")
	return cmd
}

// editAt resolves (colArg, rowArg) on the selected day's sheet, applies fn
// and saves. The message returned by fn is printed on success.
func (a *App) editAt(cmd *cobra.Command, op, colArg, rowArg string, fn func(sh *sheet.Sheet, col, row int) (string, error)) error {
	if err := a.ensureDesk(); err != nil {
		return err
	}
	day, err := a.day()
	if err != nil {
		return err
	}

	var msg string
	_, err = a.desk.Edit(context.Background(), day, func(sh *sheet.Sheet) error {
		col, err := resolveColumn(sh, colArg)
		if err != nil {
			return err
		}
		row, err := resolveRow(sh, rowArg)
		if err != nil {
			return err
		}
		msg, err = fn(sh, col, row)
		return err
	})
	if err != nil {
		a.logger.Debug("command failed", zap.String("op", op), zap.Error(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// resolveColumn accepts a column index or a case-insensitive label.
func resolveColumn(sh *sheet.Sheet, arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 || i >= sh.Len() {
			return 0, fmt.Errorf("%w: column %d (columns %d)", sheet.ErrIndexOutOfRange, i, sh.Len())
		}
		return i, nil
	}
	if i := sh.ColumnIndex(arg); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("%w: no column named %q", sheet.ErrIndexOutOfRange, arg)
}

// resolveRow accepts a row index or a time of day inside the sheet window.
func resolveRow(sh *sheet.Sheet, arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, ":") {
		t, err := clock.Parse(arg)
		if err != nil {
			return 0, err
		}
		return sh.TimeToRow(t)
	}
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: row must be an index or HH:MM, got %q", sheet.ErrInvalidArgument, arg)
	}
	if row < 0 || row >= sh.RowCount() {
		return 0, fmt.Errorf("%w: row %d (rows %d)", sheet.ErrIndexOutOfRange, row, sh.RowCount())
	}
	return row, nil
}

// pickServices selects services of b by name or abbreviation.
func pickServices(b *booking.Booking, names []string) ([]booking.Service, error) {
	var picked []booking.Service
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			found := false
			for _, s := range b.Services {
				if strings.EqualFold(s.Name, part) || (s.Abbrev != "" && strings.EqualFold(s.Abbrev, part)) {
					picked = append(picked, s)
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: %s has no service %q", sheet.ErrInvalidArgument, b.Name(), part)
			}
		}
	}
	return picked, nil
}

// position renders (col, row) as "Amy 10:30".
func position(sh *sheet.Sheet, col, row int) string {
	label := strconv.Itoa(col)
	if c, err := sh.Column(col); err == nil {
		label = c.Label()
	}
	if t, err := sh.RowToTime(row); err == nil {
		return label + " " + t.String()
	}
	return fmt.Sprintf("%s row %d", label, row)
}

func nameOf(b *booking.Booking) string {
	if b == nil {
		return "booking"
	}
	return b.Name()
}
