package system

import (
	"bytes"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/storage"
	"github.com/julianstephens/hogar/internal/storage/sqlite"
)

func setupContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.EnvRemoteEndpoint, "")

	var out bytes.Buffer
	ctx := &cli.Context{
		Store:        store,
		Settings:     config.Default(),
		SettingsPath: filepath.Join(filepath.Dir(store.GetConfigPath()), constants.SettingsFileName),
		Out:          &out,
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx, &out
}

func setupSQLite(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "hogar.db")
	ctx, out := setupContext(t, sqlite.NewStore(dbPath))
	return ctx, out, dbPath
}
