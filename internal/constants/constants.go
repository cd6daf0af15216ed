package constants

import "time"

const (
	AppName            = "hogar"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/hogar/hogar.db"
	SettingsFileName   = "settings.toml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage labels. These match the keys the browser prototype wrote to
	// local storage so an exported dump loads as-is.
	LabelTasks      = "familyTasks"
	LabelFinances   = "familyFinances"
	LabelPayments   = "pendingPayments"
	LabelActivities = "weeklyActivities"

	// Payment urgency
	DueSoonWindowDays = 7

	// Transient status messages
	DefaultStatusDuration = 3 * time.Second

	// Remote sheet endpoint
	DefaultRemoteTimeout = 10 * time.Second
	RemoteMaxBodySize    = 1 << 20

	// Server
	DefaultServerAddr    = "127.0.0.1:8420"
	ServerLockfileName   = "hogar-server.lock"
	DefaultServerTimeout = 15 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "hogar-"

	// Environment overrides
	EnvDBConnection   = "HOGAR_DB_CONNECTION"
	EnvRemoteEndpoint = "HOGAR_REMOTE_ENDPOINT"
)

// Labels lists every storage label in load order.
var Labels = []string{LabelTasks, LabelFinances, LabelPayments, LabelActivities}
