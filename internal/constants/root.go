package constants

import "time"

const (
	AppName            = "mantenix"
	DefaultKeyringUser = "api-token"
	DefaultConfigDir   = "~/.config/mantenix"
	DefaultConfigPath  = "~/.config/mantenix/config.toml"
	DefaultDBPath      = "~/.config/mantenix/mantenix.db"
	Version            = "v0.3.0"

	// TokenEnvVar overrides the keyring-stored bearer token when set.
	TokenEnvVar = "MANTENIX_TOKEN"
	// DBConnectionEnvVar supplies a PostgreSQL connection string with credentials.
	DBConnectionEnvVar = "MANTENIX_DB_CONNECTION"
	// LogLevelEnvVar overrides the level picked from --debug.
	LogLevelEnvVar = "MANTENIX_LOG_LEVEL"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultSettleDelay is how long a confirmed optimistic status stays in the
	// overlay so the backend refetch can land.
	DefaultSettleDelay = 2000 * time.Millisecond

	DefaultRequestTimeout = 15 * time.Second
	DefaultServeAddr      = "127.0.0.1:8765"
	DefaultAPIURL         = "http://localhost:3000"

	// UnassignedName is the display name for tasks without an assignee.
	UnassignedName = "Unassigned"

	// Notification texts
	MsgTaskUpdated       = "Task updated"
	MsgTaskUpdateFailed  = "Failed to update task"
	MsgLoadAgendaFailed  = "Could not load agenda tasks"
	MsgLoadRegularFailed = "Could not load tasks"
)
