package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alee724/scheduler/internal/config"
	"github.com/alee724/scheduler/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  scheduler config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Sheet.StartHour = promptInt(reader, out, "Opening hour (0-23)", cfg.Sheet.StartHour)
	cfg.Sheet.EndHour = promptInt(reader, out, "Closing hour (1-23)", cfg.Sheet.EndHour)
	cfg.Sheet.Interval = promptInt(reader, out, "Slot length in minutes", cfg.Sheet.Interval)
	cfg.Sheet.Workdays = promptSlice(reader, out, "Workdays (comma-separated)", cfg.Sheet.Workdays)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Storage.SheetsDir = promptValue(reader, out, "Sheets directory", cfg.Storage.SheetsDir)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[sheet]")
	fmt.Fprintf(out, "  start_hour = %d\n", cfg.Sheet.StartHour)
	fmt.Fprintf(out, "  end_hour   = %d\n", cfg.Sheet.EndHour)
	fmt.Fprintf(out, "  interval   = %d\n", cfg.Sheet.Interval)
	fmt.Fprintf(out, "  workdays   = %s\n", strings.Join(cfg.Sheet.Workdays, ", "))
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path    = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(out, "  sheets_dir = %s\n", cfg.Storage.SheetsDir)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme      = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptSlice(reader *bufio.Reader, out io.Writer, label string, current []string) []string {
	fmt.Fprintf(out, "  %s [%s]: ", label, strings.Join(current, ", "))
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
