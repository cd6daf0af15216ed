package data

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/export"
)

type ExportCmd struct {
	File string `arg:"" help:"Destination .xlsx file." type:"path"`
}

func (c *ExportCmd) Validate() error {
	if !strings.EqualFold(filepath.Ext(c.File), ".xlsx") {
		return fmt.Errorf("export file must end in .xlsx: %s", c.File)
	}
	return nil
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	opts := export.Options{Today: sess.Today(), DueSoonDays: sess.DueSoonDays()}
	if err := export.WriteFile(c.File, sess.Snapshot(), opts); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.Printf("✓ Exported to %s\n", c.File)
	return nil
}
