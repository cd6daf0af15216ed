package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Weekday
		wantErr bool
	}{
		{name: "canonical name", input: "Lunes", want: Lunes},
		{name: "accented name", input: "Miércoles", want: Miercoles},
		{name: "unaccented name", input: "miercoles", want: Miercoles},
		{name: "upper case accented", input: "SÁBADO", want: Sabado},
		{name: "english name", input: "Sunday", want: Domingo},
		{name: "english abbreviation", input: "fri", want: Viernes},
		{name: "surrounding spaces", input: "  jueves ", want: Jueves},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "Funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	if got := WeekdayOf(time.Sunday); got != Domingo {
		t.Errorf("WeekdayOf(Sunday) = %v, want Domingo", got)
	}
	if got := WeekdayOf(time.Monday); got != Lunes {
		t.Errorf("WeekdayOf(Monday) = %v, want Lunes", got)
	}
	if got := WeekdayOf(time.Saturday); got != Sabado {
		t.Errorf("WeekdayOf(Saturday) = %v, want Sabado", got)
	}
	for i, d := range Weekdays {
		if d.Index() != i {
			t.Errorf("%v.Index() = %d, want %d", d, d.Index(), i)
		}
	}
}

func TestParseParty(t *testing.T) {
	tests := []struct {
		input   string
		want    Party
		wantErr bool
	}{
		{input: "Pollita", want: PartyA},
		{input: "pollito", want: PartyB},
		{input: "AMBOS", want: Both},
		{input: "both", want: Both},
		{input: "all", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseParty(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseParty(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseParty(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePaymentCategory(t *testing.T) {
	for input, want := range map[string]PaymentCategory{
		"fixedExpenses":    FixedExpense,
		"fijo":             FixedExpense,
		"variableExpenses": VariableExpense,
		"Variable":         VariableExpense,
	} {
		got, err := ParsePaymentCategory(input)
		if err != nil {
			t.Errorf("ParsePaymentCategory(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePaymentCategory(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParsePaymentCategory("income"); err == nil {
		t.Error("ParsePaymentCategory(income) expected error")
	}
}

func TestTaskJSONMatchesBrowserShape(t *testing.T) {
	raw := `{"id":"1717236000000","category":"Cocina","task":"Lavar platos","responsible":"Ambos","completed":false,"createdAt":"2024-06-01T10:00:00.000Z","assignedDay":"Miércoles"}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Description != "Lavar platos" {
		t.Errorf("Description = %q, want %q", task.Description, "Lavar platos")
	}
	if task.Responsible != Both {
		t.Errorf("Responsible = %q, want Ambos", task.Responsible)
	}
	if task.AssignedDay != Miercoles {
		t.Errorf("AssignedDay = %v, want Miercoles", task.AssignedDay)
	}

	unassigned := Task{ID: "2", Category: "Baño", Description: "Limpiar", Responsible: PartyA}
	data, err := json.Marshal(unassigned)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if _, ok := fields["assignedDay"]; ok {
		t.Errorf("unassigned task should omit assignedDay, got %s", data)
	}
}

func TestTaskJSONRejectsUnknownParty(t *testing.T) {
	raw := `{"id":"1","category":"Cocina","task":"Barrer","responsible":"Nadie","completed":false}`
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err == nil {
		t.Error("expected error for unknown responsible party")
	}
}
