package data

import (
	"fmt"
	"os"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/storage"
)

// ImportCmd loads a browser local storage dump. Labels present in the dump
// replace the stored collections; absent labels are left alone.
type ImportCmd struct {
	File string `arg:"" help:"JSON dump of the organizer's local storage." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	dump, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}

	ctx.PerformAutomaticBackup()

	n, err := storage.ImportDump(ctx.Store, dump)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if n == 0 {
		ctx.Println("No hogar data found in dump.")
		return nil
	}
	ctx.Printf("✓ Imported %d collections from %s\n", n, c.File)
	return nil
}
