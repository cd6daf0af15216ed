package system

import (
	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	return tui.Run(sess)
}
