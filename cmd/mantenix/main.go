package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/cli/backups"
	"github.com/julianstephens/mantenix/internal/cli/contacts"
	"github.com/julianstephens/mantenix/internal/cli/people"
	"github.com/julianstephens/mantenix/internal/cli/settings"
	"github.com/julianstephens/mantenix/internal/cli/system"
	"github.com/julianstephens/mantenix/internal/cli/tasks"
	"github.com/julianstephens/mantenix/internal/config"
	"github.com/julianstephens/mantenix/internal/constants"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/mantenix/config.toml"`
	DB      string `name:"db" help:"Local preferences database: a SQLite path, a PostgreSQL connection string without credentials, or 'keyring'." default:"~/.config/mantenix/mantenix.db"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize mantenix storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Report task records with unrecognized or inconsistent values."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the unified view over HTTP."`

	Tasks struct {
		List   tasks.ListCmd   `cmd:"" help:"List unified tasks." default:"1"`
		Status tasks.StatusCmd `cmd:"" help:"Change the status of a task."`
		Board  tasks.BoardCmd  `cmd:"" help:"Show tasks grouped by status."`
		Add    tasks.AddCmd    `cmd:"" help:"Create a task in the agenda or the task store."`
		Delete tasks.DeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"View and update tasks from both sources."`
	Stats  tasks.StatsCmd  `cmd:"" help:"Show task totals."`
	Groups tasks.GroupsCmd `cmd:"" help:"Show task group rollups."`

	People people.PeopleCmd `cmd:"" help:"Show per-person workload."`
	Pin    struct {
		Add    people.PinAddCmd    `cmd:"" help:"Pin a person to the top of the rollup."`
		Remove people.PinRemoveCmd `cmd:"" help:"Unpin a person."`
		List   people.PinListCmd   `cmd:"" help:"List pinned people." default:"1"`
	} `cmd:"" help:"Manage pinned people."`

	Prefs settings.PrefsCmd `cmd:"" help:"View or update preferences."`
	Notes struct {
		Show settings.NotesShowCmd `cmd:"" help:"Show notes." default:"1"`
		Set  settings.NotesSetCmd  `cmd:"" help:"Replace notes."`
	} `cmd:"" help:"Free-text notes kept with the preferences."`

	Token struct {
		Set    system.TokenSetCmd    `cmd:"" help:"Store the API token in the OS keyring."`
		Delete system.TokenDeleteCmd `cmd:"" help:"Remove the API token from the OS keyring."`
		Status system.TokenStatusCmd `cmd:"" help:"Show where the API token is read from." default:"1"`
	} `cmd:"" help:"Manage the API token."`
	DBConn struct {
		Set    system.DBSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete system.DBDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" name:"db" help:"Manage the stored database connection string."`

	Contacts struct {
		List   contacts.ListCmd   `cmd:"" help:"List contacts." default:"1"`
		Add    contacts.AddCmd    `cmd:"" help:"Add a contact."`
		Edit   contacts.EditCmd   `cmd:"" help:"Change fields of a contact."`
		Delete contacts.DeleteCmd `cmd:"" help:"Delete a contact."`
	} `cmd:"" help:"Manage contacts."`
	Reminders struct {
		List   contacts.ReminderListCmd   `cmd:"" help:"List reminders." default:"1"`
		Add    contacts.ReminderAddCmd    `cmd:"" help:"Add a reminder."`
		Done   contacts.ReminderDoneCmd   `cmd:"" help:"Mark a reminder completed."`
		Delete contacts.ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
	} `cmd:"" help:"Manage reminders."`

	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage local database backups."`
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Unified view over agenda and project tasks for maintenance teams"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := ctx.Command()
	configPath := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(configPath),
		Stderr:    command == "serve",
		Level:     os.Getenv(constants.LogLevelEnvVar),
	}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	dsn, err := storage.Resolve(expandHome(CLI.DB))
	if err != nil {
		apperrors.Fatal(err)
	}
	store := storage.New(dsn)
	defer store.Close()

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
	}

	// Commands that only touch the keyring run before any store exists.
	if command != "init" && !strings.HasPrefix(command, "token") && !strings.HasPrefix(command, "db ") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", command, "postgres", storage.IsPostgres(dsn))
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
