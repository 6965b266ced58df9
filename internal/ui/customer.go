package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/booking"
)

func (a *App) customerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Browse the customer directory",
		Long: `Customers are recorded the first time they are booked or queued.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every customer",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			customers, err := a.repo.ListCustomers(context.Background())
			if err != nil {
				return err
			}
			printCustomers(cmd.OutOrStdout(), customers)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <text>",
		Short: "Find customers by name or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			customers, err := a.repo.SearchCustomers(context.Background(), args[0])
			if err != nil {
				return err
			}
			printCustomers(cmd.OutOrStdout(), customers)
			return nil
		},
	})

	return cmd
}

func printCustomers(w io.Writer, customers []*booking.Customer) {
	if len(customers) == 0 {
		fmt.Fprintln(w, "No customers found.")
		return
	}
	for _, c := range customers {
		fmt.Fprintf(w, "%-24s %s  %s\n", c.Name(), formatPhone(c.Phone), formatMuted("since "+c.CreatedAt.Format("2006-01-02")))
	}
}

// formatPhone renders a 10-digit number as (555) 123-4567.
func formatPhone(phone string) string {
	if len(phone) != 10 || phone == booking.DefaultPhone {
		return formatMuted("no phone      ")
	}
	return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
}
