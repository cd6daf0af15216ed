package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hogar/internal/backup"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/keyring"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
	"github.com/julianstephens/hogar/internal/storage"
	"github.com/julianstephens/hogar/internal/storage/postgres"
	"github.com/julianstephens/hogar/internal/storage/sqlite"
)

// ErrNoBackups is returned by backup commands on a PostgreSQL store.
var ErrNoBackups = errors.New("backups are only supported for SQLite and JSON stores")

type Context struct {
	Store        storage.Provider
	Settings     config.Config
	SettingsPath string
	Out          io.Writer

	// Now and NewID replace the wall clock and uuid ids when set.
	Now   func() time.Time
	NewID func() string

	sess *session.Session
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Session opens the ledger session over the loaded store on first use.
func (c *Context) Session() (*session.Session, error) {
	if c.sess != nil {
		return c.sess, nil
	}
	today := c.Settings.Today
	if c.Now != nil {
		today = func() models.Date { return models.DateOf(c.Now()) }
	}
	sess, err := session.Open(c.Store, session.Options{
		Ledger: ledger.Options{
			PaidPolicy: c.Settings.PaidPolicy(),
			Now:        c.Now,
			NewID:      c.NewID,
		},
		StatusDuration: c.Settings.StatusDuration(),
		DueSoonDays:    c.Settings.Finances.DueSoonDays,
		Today:          today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	c.sess = sess
	return sess, nil
}

// Saved reports a failed write of the last mutation. The session keeps the
// in-memory change and only posts a status, which a one-shot command has to
// surface itself.
func (c *Context) Saved() error {
	if c.sess == nil {
		return nil
	}
	if st := c.sess.Status(); st.Level == session.LevelError && st.Text != "" {
		return errors.New(st.Text)
	}
	return nil
}

// BackupManager returns the backup manager for file-backed stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*postgres.Store); ok {
		return nil, ErrNoBackups
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks the backend for the --config value. HOGAR_DB_CONNECTION
// wins over everything. A PostgreSQL URL must not carry a password; the full
// connection string stored in the keyring is used in its place when present,
// and also replaces the default SQLite path. Otherwise a .json path selects
// the JSON file store and anything else SQLite.
func OpenStore(path string) (storage.Provider, error) {
	if conn := os.Getenv(constants.EnvDBConnection); conn != "" {
		logger.Debug("Using PostgreSQL store from environment")
		return postgres.New(conn), nil
	}

	if postgres.IsConnString(path) {
		if err := postgres.ValidateConnString(path); err != nil {
			return nil, err
		}
		if stored, ok := storedConnString(); ok {
			return postgres.New(stored), nil
		}
		return postgres.New(path), nil
	}

	if path == constants.DefaultConfigPath {
		if stored, ok := storedConnString(); ok {
			return postgres.New(stored), nil
		}
	}

	path = kong.ExpandPath(path)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

func storedConnString() (string, bool) {
	stored, err := keyring.GetConnectionString()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return "", false
	}
	return stored, stored != ""
}

// ConfigDir is where settings, logs and the server lockfile live: next to a
// file store, or the default config directory for PostgreSQL.
func ConfigDir(p storage.Provider) string {
	if _, ok := p.(*postgres.Store); ok {
		return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(p.GetConfigPath())
}

// SettingsPath resolves the --settings flag, defaulting to settings.toml in
// ConfigDir.
func SettingsPath(flag string, p storage.Provider) string {
	if flag != "" {
		return kong.ExpandPath(flag)
	}
	return filepath.Join(ConfigDir(p), constants.SettingsFileName)
}

// ParseFinanceField accepts a finance field key, e.g. fixedExpenses.
func ParseFinanceField(s string) (models.FinanceField, error) {
	f, err := models.ParseFinanceField(s)
	if err != nil {
		keys := make([]string, 0, len(models.FinanceFields))
		for _, field := range models.FinanceFields {
			keys = append(keys, string(field))
		}
		return f, fmt.Errorf("%w (expected one of %s)", err, strings.Join(keys, ", "))
	}
	return f, nil
}
