package finances

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/models"
)

type FinanceShowCmd struct{}

func (c *FinanceShowCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	totals := sess.Finances()
	for _, f := range models.FinanceFields {
		ctx.Printf("%-18s %12s\n", f.Label(), cli.Money(totals.Get(f)))
	}
	ctx.Printf("%-18s %12s\n", "Saldo Disponible", cli.Money(sess.Balance()))
	return nil
}

// FinanceSetCmd overwrites one total. Pending payments are not consulted.
type FinanceSetCmd struct {
	Field string          `arg:"" help:"income, fixedExpenses or variableExpenses."`
	Value decimal.Decimal `arg:"" help:"New total."`
}

func (c *FinanceSetCmd) Run(ctx *cli.Context) error {
	field, err := cli.ParseFinanceField(c.Field)
	if err != nil {
		return err
	}
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.SetFinance(field, c.Value) {
		return fmt.Errorf("failed to set %s", field)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ %s set to %s\n", field.Label(), cli.Money(c.Value))
	ctx.Printf("  Saldo Disponible: %s\n", cli.Money(sess.Balance()))
	return nil
}
