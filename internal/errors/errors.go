// Package errors formats command failures for the terminal, adding a hint
// for the failures a user can fix on their own.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/hogar/internal/keyring"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/sheets"
	"github.com/julianstephens/hogar/internal/storage"
	"github.com/julianstephens/hogar/internal/storage/postgres"
)

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "run 'hogar init' to create the store"},
	{postgres.ErrEmbeddedCredentials, "store the full connection string with 'hogar keyring set', export HOGAR_DB_CONNECTION, or use a .pgpass file"},
	{keyring.ErrNotFound, "store one with 'hogar keyring set <connection-string>'"},
	{keyring.ErrKeyringUnavailable, "export HOGAR_DB_CONNECTION instead of using the OS keyring"},
	{sheets.ErrNoEndpoint, "set [remote] endpoint in settings.toml or export HOGAR_REMOTE_ENDPOINT"},
}

// Hint returns a follow-up suggestion for err, or "" when there is none.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix and,
// when one applies, a "Hint: " line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

func Formatf(format string, args ...interface{}) string {
	return Format(fmt.Errorf(format, args...))
}

// Fatal logs err and exits with code 1. A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
