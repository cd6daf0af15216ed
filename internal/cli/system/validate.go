package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	result := validation.New().ValidateSnapshot(sess.Snapshot())
	ctx.Println(strings.TrimSuffix(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflicts", len(result.Conflicts))
	}
	return nil
}
