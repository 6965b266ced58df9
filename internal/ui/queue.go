package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/dateutil"
)

func (a *App) queueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage customers waiting to be seated",
		Long: `Walk-ins wait on the queue with the services they asked for until they
are seated on a sheet.`,
	}
	cmd.AddCommand(a.queueAddCmd())
	cmd.AddCommand(a.queueListCmd())
	cmd.AddCommand(a.queueSeatCmd())
	cmd.AddCommand(a.queueRemoveCmd())
	return cmd
}

func (a *App) queueAddCmd() *cobra.Command {
	var (
		phone    string
		services []string
	)

	cmd := &cobra.Command{
		Use:   "add <first> <last>",
		Short: "Put a customer on the queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			ctx := context.Background()
			b, err := a.desk.NewBooking(ctx, args[0], args[1], phone, services)
			if err != nil {
				return err
			}
			e, err := a.desk.QueueCustomer(ctx, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued #%d: %s (%s, %s)\n",
				e.ID, b.Name(), b.Labels(), formatMinutes(b.Duration().TotalMinutes()))
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringSliceVarP(&services, "services", "s", nil, "Services from the catalog (comma-separated, required)")
	_ = cmd.MarkFlagRequired("services")
	return cmd
}

func (a *App) queueListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List waiting customers, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			entries, err := a.repo.ListQueue(context.Background())
			if err != nil {
				return err
			}
			printQueue(cmd, entries, a.now())
			return nil
		},
	}
}

func printQueue(cmd *cobra.Command, entries []*booking.QueueEntry, now time.Time) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nobody is waiting.")
		return
	}
	for _, e := range entries {
		b := e.Booking
		fmt.Fprintf(out, "#%-4d %-24s %-16s %6s  %s\n",
			e.ID,
			b.Name(),
			b.Labels(),
			formatMinutes(b.Duration().TotalMinutes()),
			formatMuted("waiting "+formatMinutes(max(int(now.Sub(e.CreatedAt).Minutes()), 0))),
		)
	}
}

func (a *App) queueSeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seat <id> [<col> <at>]",
		Short: "Seat a queued customer on the sheet",
		Long: `Place a queued customer on the selected day's sheet and take them off
the queue. Without a position the earliest slot that fits is used.

Examples:
  scheduler queue seat 3
  scheduler queue seat 3 Amy 14:00`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <id> or <id> <col> <at>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue id %q", args[0])
			}
			day, err := a.day()
			if err != nil {
				return err
			}

			ctx := context.Background()
			e, err := a.repo.GetQueueEntry(ctx, id)
			if err != nil {
				return err
			}
			sh, _, err := a.desk.OpenSheet(ctx, day)
			if err != nil {
				return err
			}

			var col, row int
			if len(args) == 3 {
				if col, err = resolveColumn(sh, args[1]); err != nil {
					return err
				}
				if row, err = resolveRow(sh, args[2]); err != nil {
					return err
				}
			} else {
				col, row, err = a.placement(sh, day, e.Booking, "", "")
				if err != nil {
					return err
				}
			}

			if err := a.desk.Seat(ctx, day, id, col, row); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seated %s at %s on %s\n",
				e.Booking.Name(), position(sh, col, row), dateutil.FormatDate(day))
			return nil
		},
	}
}

func (a *App) queueRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Take a customer off the queue without seating them",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue id %q", args[0])
			}
			if err := a.repo.Dequeue(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from the queue\n", id)
			return nil
		},
	}
}
