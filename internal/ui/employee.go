package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) employeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"staff"},
		Short:   "Manage the employee roster",
		Long: `The roster decides the columns of every new sheet. Changing it does not
touch sheets that were already saved.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			e, err := a.repo.AddEmployee(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added employee #%d: %s\n", e.ID, e.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the roster",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			employees, err := a.repo.ListEmployees(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(employees) == 0 {
				fmt.Fprintln(out, "No employees. Add one with 'scheduler employee add <name>'.")
				return nil
			}
			for i, e := range employees {
				fmt.Fprintf(out, "%d  %s\n", i, e.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an employee",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			if err := a.repo.RemoveEmployee(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed employee %s\n", args[0])
			return nil
		},
	})

	return cmd
}
