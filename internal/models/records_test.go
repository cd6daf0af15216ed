package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPendingPaymentJSON(t *testing.T) {
	raw := `{"id":"p1","description":"Renta","amount":500,"dueDate":"2024-06-01","category":"fixedExpenses","paid":false}`

	var p PendingPayment
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Amount = %s, want 500", p.Amount)
	}
	if got := p.DueDate.String(); got != "2024-06-01" {
		t.Errorf("DueDate = %q, want 2024-06-01", got)
	}
	if p.Category != FixedExpense {
		t.Errorf("Category = %q, want fixedExpenses", p.Category)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestPendingPayment_Validate(t *testing.T) {
	due, _ := ParseDate("2024-06-01")
	tests := []struct {
		name    string
		payment PendingPayment
		wantErr bool
	}{
		{
			name:    "valid",
			payment: PendingPayment{ID: "1", Description: "Luz", Amount: decimal.NewFromInt(80), DueDate: due, Category: VariableExpense},
		},
		{
			name:    "zero amount",
			payment: PendingPayment{ID: "1", Description: "Luz", DueDate: due, Category: VariableExpense},
			wantErr: true,
		},
		{
			name:    "missing due date",
			payment: PendingPayment{ID: "1", Description: "Luz", Amount: decimal.NewFromInt(80), Category: VariableExpense},
			wantErr: true,
		},
		{
			name:    "invalid category",
			payment: PendingPayment{ID: "1", Description: "Luz", Amount: decimal.NewFromInt(80), DueDate: due, Category: "income"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFinanceTotals_Buckets(t *testing.T) {
	totals := FinanceTotals{Income: decimal.NewFromInt(1000)}

	totals = totals.WithBucket(FixedExpense, decimal.NewFromInt(400))
	totals = totals.WithBucket(VariableExpense, decimal.NewFromInt(250))

	if !totals.FixedExpenses.Equal(decimal.NewFromInt(400)) {
		t.Errorf("FixedExpenses = %s, want 400", totals.FixedExpenses)
	}
	if !totals.Bucket(VariableExpense).Equal(decimal.NewFromInt(250)) {
		t.Errorf("Bucket(variable) = %s, want 250", totals.Bucket(VariableExpense))
	}
	if !totals.Get(Income).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Get(income) = %s, want 1000", totals.Get(Income))
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Weekday() != Lunes {
		t.Errorf("2024-06-10 weekday = %v, want Lunes", d.Weekday())
	}
	if got := d.AddDays(7).String(); got != "2024-06-17" {
		t.Errorf("AddDays(7) = %s, want 2024-06-17", got)
	}
	if !d.Before(d.AddDays(1)) || d.After(d.AddDays(1)) {
		t.Error("date ordering is wrong")
	}
	if got := d.Display(); got != "10/6/2024" {
		t.Errorf("Display() = %q, want 10/6/2024", got)
	}

	var fromBrowser Date
	if err := fromBrowser.UnmarshalText([]byte("2024-06-10T00:00:00.000Z")); err != nil {
		t.Fatalf("UnmarshalText with time: %v", err)
	}
	if !fromBrowser.Equal(d) {
		t.Errorf("UnmarshalText = %s, want %s", fromBrowser, d)
	}

	if _, err := ParseDate("10/06/2024"); err == nil {
		t.Error("ParseDate accepted a non ISO date")
	}
}
