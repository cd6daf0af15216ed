package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/keyring"
	"github.com/julianstephens/hogar/internal/migration"
	"github.com/julianstephens/hogar/internal/server"
	"github.com/julianstephens/hogar/internal/sheets"
	"github.com/julianstephens/hogar/internal/storage"
	"github.com/julianstephens/hogar/internal/storage/postgres"
	"github.com/julianstephens/hogar/internal/storage/sqlite"
	"github.com/julianstephens/hogar/internal/validation"
	"github.com/julianstephens/hogar/migrations"
)

type DoctorCmd struct {
	Remote bool `help:"Also fetch the remote sheet to check the endpoint answers."`
}

type report struct {
	ctx    *cli.Context
	failed bool
}

func (r *report) check(name string, err error) bool {
	if err != nil {
		r.ctx.Printf("❌ %s: FAIL\n", name)
		r.ctx.Printf("   Error: %v\n", err)
		r.failed = true
		return false
	}
	r.ctx.Printf("✓ %s: OK\n", name)
	return true
}

func (r *report) warn(name string, err error) {
	if err != nil {
		r.ctx.Printf("⚠ %s: WARNING\n", name)
		r.ctx.Printf("   %v\n", err)
		return
	}
	r.ctx.Printf("✓ %s: OK\n", name)
}

func (r *report) skip(name, reason string) {
	r.ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	r := &report{ctx: ctx}

	reachable := r.check("Store reachable", checkStoreReachable(ctx))

	if st, ok := ctx.Store.(*sqlite.Store); ok && reachable {
		r.check("Schema version", checkSchemaVersion(st))
	} else if !ok {
		r.skip("Schema version", "not a SQLite store")
	} else {
		r.skip("Schema version", "store not reachable")
	}

	if reachable {
		r.check("Ledger records", checkRecords(ctx))
		r.warn("Data consistency", checkConsistency(ctx))
	} else {
		r.skip("Ledger records", "store not reachable")
		r.skip("Data consistency", "store not reachable")
	}

	r.check("Settings", ctx.Settings.Validate())

	if _, ok := ctx.Store.(*postgres.Store); ok {
		r.skip("Backups present", "PostgreSQL store")
	} else {
		r.warn("Backups present", checkBackupsPresent(ctx))
	}

	c.checkRemote(ctx, r)
	checkServer(ctx)

	if keyring.IsAvailable() {
		ctx.Println("ℹ OS keyring: available")
	} else {
		ctx.Println("ℹ OS keyring: not available")
	}

	ctx.Println()
	if r.failed {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if st, ok := ctx.Store.(*sqlite.Store); ok {
		db := st.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(st *sqlite.Store) error {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(st.GetDB(), sub, migration.SQLite)
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d", current, latest)
	}
	return nil
}

// checkRecords decodes every stored collection and validates each record.
func checkRecords(ctx *cli.Context) error {
	snap, err := storage.LoadSnapshot(ctx.Store)
	if err != nil {
		return err
	}
	var errs []error
	for i := range snap.Tasks {
		if err := snap.Tasks[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", snap.Tasks[i].ID, err))
		}
	}
	for i := range snap.Activities {
		if err := snap.Activities[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("activity %s: %w", snap.Activities[i].ID, err))
		}
	}
	for i := range snap.Payments {
		if err := snap.Payments[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("payment %s: %w", snap.Payments[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

func checkConsistency(ctx *cli.Context) error {
	snap, err := storage.LoadSnapshot(ctx.Store)
	if err != nil {
		return err
	}
	result := validation.New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts (run 'hogar validate' for details)", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.Dir())
	}
	return nil
}

func (c *DoctorCmd) checkRemote(ctx *cli.Context, r *report) {
	endpoint := ctx.Settings.RemoteEndpoint()
	if endpoint == "" {
		r.skip("Remote sheet", "no endpoint configured")
		return
	}
	if !c.Remote {
		ctx.Printf("ℹ Remote sheet: %s (use --remote to probe)\n", endpoint)
		return
	}
	client, err := sheets.NewClient(endpoint, ctx.Settings.RemoteTimeout())
	if err == nil {
		_, err = client.FetchTasks(context.Background())
	}
	r.check("Remote sheet", err)
}

func checkServer(ctx *cli.Context) {
	lock, alive, err := server.Running(server.LockPath(cli.ConfigDir(ctx.Store)))
	switch {
	case err != nil:
		ctx.Printf("⚠ API server: WARNING\n   %v\n", err)
	case alive:
		ctx.Printf("ℹ API server: running (pid %d, port %d)\n", lock.PID, lock.Port)
	default:
		ctx.Println("ℹ API server: not running")
	}
}
