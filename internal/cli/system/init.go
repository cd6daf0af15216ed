package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing store before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized hogar storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.SettingsPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.SettingsPath); os.IsNotExist(err) {
		if err := config.Save(ctx.SettingsPath, ctx.Settings); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		ctx.Printf("Wrote default settings to: %s\n", ctx.SettingsPath)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force is not supported for PostgreSQL stores")
	}
	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		// Close first so SQLite releases its file handle.
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		ctx.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}
