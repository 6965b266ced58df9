// Package ui implements the scheduler command line.
package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/config"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/db"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/logging"
	"github.com/alee724/scheduler/internal/store"
	"github.com/alee724/scheduler/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command

	debug   bool   // Enable debug logging
	date    string // --date, resolved by day()
	logPath string

	logger   *zap.Logger
	closeLog func()
	repo     *db.SQLite
	sheets   *store.FileStore
	desk     *desk.Desk

	now func() time.Time
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{
		config:   cfg,
		logPath:  logging.DebugLogPath,
		logger:   zap.NewNop(),
		closeLog: func() {},
		now:      time.Now,
	}

	a.root = &cobra.Command{
		Use:   "scheduler",
		Short: "An appointment board for walk-ins and bookings",
		Long: `Scheduler keeps one appointment sheet per day: a column per employee,
a row per time slot, and bookings that span as many slots as their
services take.

Run without arguments to open the board for the selected day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.startLogging()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().StringVar(&a.date, "date", "", "Day to work on: YYYY-MM-DD, today, tomorrow, a weekday (default: today)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.boardCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.splitCmd())
	a.root.AddCommand(a.setServicesCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.columnCmd())
	a.root.AddCommand(a.employeeCmd())
	a.root.AddCommand(a.serviceCmd())
	a.root.AddCommand(a.customerCmd())
	a.root.AddCommand(a.queueCmd())
	a.root.AddCommand(a.grossCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scheduler %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}
}

func (a *App) runBoard() error {
	if err := a.ensureDesk(); err != nil {
		return err
	}
	day, err := a.day()
	if err != nil {
		return err
	}
	return tui.Run(a.desk, a.config, day, a.logger)
}

// SetArgs overrides the command-line arguments, for tests.
func (a *App) SetArgs(args []string) { a.root.SetArgs(args) }

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(stdout, stderr io.Writer) {
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
}

// SetClock overrides the wall clock used for relative dates.
func (a *App) SetClock(now func() time.Time) { a.now = now }

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and flushes the debug log.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
		a.repo = nil
	}
	a.closeLog()
	return err
}

func (a *App) startLogging() error {
	logger, done, err := logging.New(a.debug, a.logPath)
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logger, done
	return nil
}

// ensureDesk opens the catalog database and the sheet store on first use.
func (a *App) ensureDesk() error {
	if a.desk != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	sheets, err := store.NewFileStore(a.config.Storage.SheetsDir)
	if err != nil {
		_ = repo.Close()
		return err
	}

	a.repo = repo
	a.sheets = sheets
	a.desk = desk.New(repo, sheets, desk.Window{
		StartHour: a.config.Sheet.StartHour,
		EndHour:   a.config.Sheet.EndHour,
		Interval:  a.config.Sheet.Interval,
		Workdays:  a.config.Sheet.Workdays,
	}, a.logger)
	a.logger.Debug("storage opened",
		zap.String("db", a.config.Storage.DBPath),
		zap.String("sheets", a.config.Storage.SheetsDir),
	)
	return nil
}

// day resolves the --date flag against the current clock.
func (a *App) day() (time.Time, error) {
	return dateutil.ParseDay(a.date, a.now())
}
