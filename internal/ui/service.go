package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
)

func (a *App) serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the service catalog",
	}
	cmd.AddCommand(a.serviceAddCmd())
	cmd.AddCommand(a.serviceListCmd())
	cmd.AddCommand(a.serviceRemoveCmd())
	cmd.AddCommand(a.serviceImportCmd())
	return cmd
}

func (a *App) serviceAddCmd() *cobra.Command {
	var (
		price   int
		minutes int
		abbrev  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a service or update the one with the same name",
		Long: `Add a service to the catalog. A service with the same name is updated.

Example:
  scheduler service add Color --price 80 --minutes 60 --abbrev Clr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			svc, err := booking.NewService(args[0], price, clock.FromMinutes(minutes), abbrev)
			if err != nil {
				return err
			}
			if err := a.repo.SaveService(context.Background(), svc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved service %s: %s, %s\n",
				svc.Name, formatPrice(svc.Price), formatMinutes(minutes))
			return nil
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "Price in whole currency units")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Duration in minutes (required)")
	cmd.Flags().StringVar(&abbrev, "abbrev", "", "Short label shown on the board (max 5 characters)")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func (a *App) serviceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			services, err := a.repo.ListServices(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(services) == 0 {
				fmt.Fprintln(out, "No services. Add one with 'scheduler service add'.")
				return nil
			}
			fmt.Fprintf(out, "%-20s %-6s %8s %8s\n", "NAME", "ABBR", "PRICE", "TIME")
			for _, s := range services {
				fmt.Fprintf(out, "%-20s %-6s %8s %8s\n",
					s.Name, s.Abbrev, formatPrice(s.Price), formatMinutes(s.Duration.TotalMinutes()))
			}
			return nil
		},
	}
}

func (a *App) serviceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a service from the catalog",
		Long: `Remove a service from the catalog. Bookings already on a sheet keep
their copy of the service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			if err := a.repo.DeleteService(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed service %s\n", args[0])
			return nil
		},
	}
}

func (a *App) serviceImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Load services from a YAML file",
		Long: `Load services from a YAML catalog. Existing services with the same
name are updated. Nothing is saved if any entry is invalid.

Example file:
  services:
    - name: Cut
      price: 30
      minutes: 30
      abbreviation: Cut
    - name: Color
      price: 80
      minutes: 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureDesk(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading catalog: %w", err)
			}
			services, err := parseCatalog(data)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, s := range services {
				if err := a.repo.SaveService(ctx, s); err != nil {
					return err
				}
			}
			a.logger.Info("catalog imported", zap.String("file", args[0]), zap.Int("services", len(services)))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d service(s) from %s\n", len(services), args[0])
			return nil
		},
	}
}

type catalogFile struct {
	Services []catalogEntry `yaml:"services"`
}

type catalogEntry struct {
	Name         string `yaml:"name"`
	Price        int    `yaml:"price"`
	Minutes      int    `yaml:"minutes"`
	Abbreviation string `yaml:"abbreviation"`
}

// parseCatalog decodes and validates a YAML service catalog.
func parseCatalog(data []byte) ([]booking.Service, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("parsing catalog: no services listed")
	}

	services := make([]booking.Service, 0, len(f.Services))
	for i, e := range f.Services {
		s, err := booking.NewService(e.Name, e.Price, clock.FromMinutes(e.Minutes), e.Abbreviation)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%q): %w", i+1, e.Name, err)
		}
		services = append(services, s)
	}
	return services, nil
}
