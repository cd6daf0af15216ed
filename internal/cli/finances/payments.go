package finances

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
)

type PaymentAddCmd struct {
	Description string                 `arg:"" help:"What the payment is for."`
	Amount      decimal.Decimal        `short:"a" help:"Amount due." required:""`
	Due         models.Date            `help:"Due date (YYYY-MM-DD)." required:""`
	Category    models.PaymentCategory `short:"c" help:"fixed or variable." default:"fixed"`
}

func (c *PaymentAddCmd) Validate() error {
	if c.Amount.IsZero() {
		return fmt.Errorf("amount must not be zero")
	}
	return nil
}

func (c *PaymentAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	payment, ok := sess.AddPayment(ledger.NewPayment{
		Description: c.Description,
		Amount:      c.Amount,
		DueDate:     c.Due,
		Category:    c.Category,
	})
	if !ok {
		return fmt.Errorf("payment not added: description, amount and due date are required")
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Added payment %s: %s %s (%s)\n", payment.ID, payment.Description, cli.Money(payment.Amount), payment.Category.Label())
	ctx.Printf("  %s now %s\n", models.FieldFor(payment.Category).Label(), cli.Money(sess.Finances().Bucket(payment.Category)))
	return nil
}

type PaymentToggleCmd struct {
	ID string `arg:"" help:"Payment ID."`
}

func (c *PaymentToggleCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.TogglePayment(c.ID) {
		return fmt.Errorf("payment not found: %s", c.ID)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Toggled payment %s\n", c.ID)
	return nil
}

type PaymentDeleteCmd struct {
	ID string `arg:"" help:"Payment ID."`
}

func (c *PaymentDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.DeletePayment(c.ID) {
		return fmt.Errorf("payment not found: %s", c.ID)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted payment %s\n", c.ID)
	return nil
}

type PaymentListCmd struct {
	ShowIDs bool `help:"Show payment IDs."`
}

func (c *PaymentListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	views := sess.Payments()
	if len(views) == 0 {
		ctx.Println("No hay pagos pendientes")
		return nil
	}
	for _, v := range views {
		p := v.Payment
		line := fmt.Sprintf("%s %s  %s  vence %s  %s", cli.Checkbox(p.Paid), p.Description, cli.Money(p.Amount), p.DueDate.Display(), p.Category.Label())
		if label := v.Urgency.Label(); label != "" {
			line += "  " + label
		}
		if c.ShowIDs {
			line += "  " + p.ID
		}
		ctx.Println(line)
	}
	return nil
}
