// Package config loads hogar's TOML settings file. Storage location is not
// part of it: that comes from --config so the settings can live next to any
// backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

// Config holds all hogar settings.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Finances FinancesConfig `toml:"finances"`
	Remote   RemoteConfig   `toml:"remote"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
}

// GeneralConfig holds household-wide preferences.
type GeneralConfig struct {
	// Timezone decides what "today" is for payment urgency. Empty means local.
	Timezone string `toml:"timezone,omitempty"`
}

// FinancesConfig controls how payments feed the expense totals.
type FinancesConfig struct {
	PaidPolicy  string `toml:"paid_policy"`
	DueSoonDays int    `toml:"due_soon_days"`
}

// RemoteConfig points at the spreadsheet endpoint used by `hogar remote`.
type RemoteConfig struct {
	Endpoint       string `toml:"endpoint,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ServerConfig holds the HTTP API listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	StatusSeconds int `toml:"status_seconds"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Finances: FinancesConfig{
			PaidPolicy:  ledger.PaidInformational.String(),
			DueSoonDays: constants.DueSoonWindowDays,
		},
		Remote: RemoteConfig{
			TimeoutSeconds: int(constants.DefaultRemoteTimeout / time.Second),
		},
		Server: ServerConfig{Addr: constants.DefaultServerAddr},
		UI:     UIConfig{StatusSeconds: int(constants.DefaultStatusDuration / time.Second)},
	}
}

// Load reads the settings file at path, returning defaults when it does not
// exist. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks every field that has a closed set of values or a range.
func (c Config) Validate() error {
	if _, err := ledger.ParsePaidPolicy(c.Finances.PaidPolicy); err != nil {
		return err
	}
	if c.Finances.DueSoonDays < 0 {
		return fmt.Errorf("due_soon_days must not be negative, got %d", c.Finances.DueSoonDays)
	}
	if c.Remote.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.Remote.TimeoutSeconds)
	}
	if c.UI.StatusSeconds < 0 {
		return fmt.Errorf("status_seconds must not be negative, got %d", c.UI.StatusSeconds)
	}
	if _, err := utils.LoadLocation(c.General.Timezone); err != nil {
		return err
	}
	return nil
}

// PaidPolicy returns the parsed finances.paid_policy.
func (c Config) PaidPolicy() ledger.PaidPolicy {
	p, _ := ledger.ParsePaidPolicy(c.Finances.PaidPolicy)
	return p
}

// StatusDuration is how long a transient status message stays visible.
func (c Config) StatusDuration() time.Duration {
	if c.UI.StatusSeconds <= 0 {
		return constants.DefaultStatusDuration
	}
	return time.Duration(c.UI.StatusSeconds) * time.Second
}

// RemoteTimeout bounds each spreadsheet request. Zero means no timeout.
func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// RemoteEndpoint returns the endpoint from HOGAR_REMOTE_ENDPOINT or the
// settings file, in that order.
func (c Config) RemoteEndpoint() string {
	if ep := os.Getenv(constants.EnvRemoteEndpoint); ep != "" {
		return ep
	}
	return c.Remote.Endpoint
}

// Today returns the current civil date in the configured timezone.
func (c Config) Today() models.Date {
	today, err := utils.TodayInTimezone(c.General.Timezone)
	if err != nil {
		return models.DateOf(time.Now())
	}
	return today
}
