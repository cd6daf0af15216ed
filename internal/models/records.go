package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Task struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"task"`
	Responsible Party     `json:"responsible"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	AssignedDay Weekday   `json:"assignedDay,omitempty"`
}

func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if t.Category == "" || t.Description == "" {
		return fmt.Errorf("task category and description are required")
	}
	if !t.Responsible.Valid() {
		return fmt.Errorf("invalid responsible party: %q", t.Responsible)
	}
	if t.AssignedDay != NoDay && !t.AssignedDay.Valid() {
		return fmt.Errorf("invalid assigned day: %d", t.AssignedDay)
	}
	return nil
}

type WeeklyActivity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Day         Weekday `json:"day"`
	Time        string  `json:"time"` // HH:MM format
	Responsible Party   `json:"responsible"`
	Completed   bool    `json:"completed"`
}

func (a *WeeklyActivity) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity id cannot be empty")
	}
	if a.Title == "" || a.Time == "" {
		return fmt.Errorf("activity title and time are required")
	}
	if !a.Day.Valid() {
		return fmt.Errorf("activity day is required")
	}
	if !a.Responsible.Valid() {
		return fmt.Errorf("invalid responsible party: %q", a.Responsible)
	}
	return nil
}

type PendingPayment struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     Date            `json:"dueDate"`
	Category    PaymentCategory `json:"category"`
	Paid        bool            `json:"paid"`
	// Settled is set while the amount is out of its expense bucket because
	// the payment was marked paid under the settles policy.
	Settled bool `json:"settled,omitempty"`
}

func (p *PendingPayment) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("payment id cannot be empty")
	}
	if p.Description == "" {
		return fmt.Errorf("payment description is required")
	}
	if p.Amount.IsZero() {
		return fmt.Errorf("payment amount is required")
	}
	if p.DueDate.IsZero() {
		return fmt.Errorf("payment due date is required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid payment category: %q", p.Category)
	}
	return nil
}

// FinanceTotals holds the editable household totals. The available balance
// is always derived from them and never stored.
type FinanceTotals struct {
	Income           decimal.Decimal `json:"income"`
	FixedExpenses    decimal.Decimal `json:"fixedExpenses"`
	VariableExpenses decimal.Decimal `json:"variableExpenses"`
}

func (f FinanceTotals) Get(field FinanceField) decimal.Decimal {
	switch field {
	case Income:
		return f.Income
	case FixedExpenses:
		return f.FixedExpenses
	case VariableExpenses:
		return f.VariableExpenses
	}
	return decimal.Zero
}

// With returns a copy of f with field set to v.
func (f FinanceTotals) With(field FinanceField, v decimal.Decimal) FinanceTotals {
	switch field {
	case Income:
		f.Income = v
	case FixedExpenses:
		f.FixedExpenses = v
	case VariableExpenses:
		f.VariableExpenses = v
	}
	return f
}

// Bucket returns the expense total a payment category feeds.
func (f FinanceTotals) Bucket(c PaymentCategory) decimal.Decimal {
	return f.Get(FieldFor(c))
}

// WithBucket returns a copy of f with the category's bucket set to v.
func (f FinanceTotals) WithBucket(c PaymentCategory, v decimal.Decimal) FinanceTotals {
	return f.With(FieldFor(c), v)
}
