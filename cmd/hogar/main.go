package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/cli/backups"
	"github.com/julianstephens/hogar/internal/cli/data"
	"github.com/julianstephens/hogar/internal/cli/finances"
	"github.com/julianstephens/hogar/internal/cli/planner"
	"github.com/julianstephens/hogar/internal/cli/remote"
	"github.com/julianstephens/hogar/internal/cli/system"
	"github.com/julianstephens/hogar/internal/cli/tasks"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/errors"
	"github.com/julianstephens/hogar/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store path (.db for SQLite, .json for a JSON file) or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use HOGAR_DB_CONNECTION, .pgpass or 'hogar keyring set'." default:"${default_config}"`
	Settings string `help:"Settings file (TOML). Defaults to settings.toml next to the store."`
	Debug    bool   `help:"Mirror debug logs to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize hogar storage and settings."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored data for conflicts such as duplicate tasks or overlapping activities."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the HTTP API."`
	Task     struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a household task."`
		Toggle tasks.TaskToggleCmd `cmd:"" help:"Mark a task done or not done."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks grouped by day."`
	} `cmd:"" help:"Manage household tasks."`
	Activity struct {
		Add    planner.ActivityAddCmd    `cmd:"" help:"Add a weekly activity."`
		Toggle planner.ActivityToggleCmd `cmd:"" help:"Mark an activity done or not done."`
		Delete planner.ActivityDeleteCmd `cmd:"" help:"Delete an activity."`
		List   planner.ActivityListCmd   `cmd:"" help:"Show the weekly planner."`
	} `cmd:"" help:"Manage the weekly planner."`
	Payment struct {
		Add    finances.PaymentAddCmd    `cmd:"" help:"Add a pending payment."`
		Toggle finances.PaymentToggleCmd `cmd:"" help:"Mark a payment paid or unpaid."`
		Delete finances.PaymentDeleteCmd `cmd:"" help:"Delete a payment."`
		List   finances.PaymentListCmd   `cmd:"" help:"List pending payments with urgency."`
	} `cmd:"" help:"Manage pending payments."`
	Finance struct {
		Show finances.FinanceShowCmd `cmd:"" help:"Show totals and available balance." default:"1"`
		Set  finances.FinanceSetCmd  `cmd:"" help:"Set income, fixedExpenses or variableExpenses."`
	} `cmd:"" help:"Show or edit finance totals."`
	Remote struct {
		List remote.RemoteListCmd `cmd:"" help:"List tasks from the shared spreadsheet." default:"1"`
		Add  remote.RemoteAddCmd  `cmd:"" help:"Append a task to the shared spreadsheet."`
	} `cmd:"" help:"Work with the shared spreadsheet."`
	Export data.ExportCmd `cmd:"" help:"Export everything to an .xlsx workbook."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Storage struct {
		Import data.ImportCmd `cmd:"" help:"Import a browser local storage dump."`
	} `cmd:"" help:"Move data in and out of the store."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// Commands that open the store themselves or never touch it.
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
	"remote":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Household organizer: chores, weekly planner and finances"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	store, err := cli.OpenStore(CLI.Config)
	errors.Fatal(err)

	command := strings.Fields(ctx.Command())[0]
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cli.ConfigDir(store),
		Stderr:    command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	settingsPath := cli.SettingsPath(CLI.Settings, store)
	settings, err := config.Load(settingsPath)
	errors.Fatal(err)

	appCtx := &cli.Context{
		Store:        store,
		Settings:     settings,
		SettingsPath: settingsPath,
	}

	// Load the store before running the command (init and doctor handle their own loading)
	if !skipLoad[command] {
		errors.Fatal(store.Load())
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}
