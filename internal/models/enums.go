package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Party is who a task or activity is assigned to.
type Party string

const (
	PartyA Party = "Pollita"
	PartyB Party = "Pollito"
	Both   Party = "Ambos"
)

// Parties lists every party in display order.
var Parties = []Party{PartyA, PartyB, Both}

func (p Party) Valid() bool {
	switch p {
	case PartyA, PartyB, Both:
		return true
	}
	return false
}

func (p Party) String() string { return string(p) }

func (p *Party) UnmarshalText(b []byte) error {
	parsed, err := ParseParty(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseParty accepts the canonical names in any case, with or without
// accents, plus the short aliases a, b and both.
func ParseParty(s string) (Party, error) {
	switch fold(s) {
	case "pollita", "a":
		return PartyA, nil
	case "pollito", "b":
		return PartyB, nil
	case "ambos", "both":
		return Both, nil
	}
	return "", fmt.Errorf("invalid responsible party: %q", s)
}

// Weekday is one of the seven canonical planner days. The zero value means
// no day.
type Weekday int

const (
	NoDay Weekday = iota
	Lunes
	Martes
	Miercoles
	Jueves
	Viernes
	Sabado
	Domingo
)

// Weekdays lists the canonical days, Monday first.
var Weekdays = [7]Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

var weekdayNames = [...]string{"", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var weekdayAliases = map[string]Weekday{
	"lunes": Lunes, "monday": Lunes, "mon": Lunes,
	"martes": Martes, "tuesday": Martes, "tue": Martes,
	"miercoles": Miercoles, "wednesday": Miercoles, "wed": Miercoles,
	"jueves": Jueves, "thursday": Jueves, "thu": Jueves,
	"viernes": Viernes, "friday": Viernes, "fri": Viernes,
	"sabado": Sabado, "saturday": Sabado, "sat": Sabado,
	"domingo": Domingo, "sunday": Domingo, "sun": Domingo,
}

func (d Weekday) Valid() bool { return d >= Lunes && d <= Domingo }

func (d Weekday) String() string {
	if !d.Valid() {
		return ""
	}
	return weekdayNames[d]
}

// Index returns the zero-based Monday-first position of the day.
func (d Weekday) Index() int { return int(d) - 1 }

// WeekdayOf maps a stdlib weekday onto the planner's Monday-first days.
func WeekdayOf(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Domingo
	}
	return Weekday(w)
}

func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*d = NoDay
		return nil
	}
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday accepts the Spanish day names with or without accents and the
// English names or abbreviations.
func ParseWeekday(s string) (Weekday, error) {
	if d, ok := weekdayAliases[fold(s)]; ok {
		return d, nil
	}
	return NoDay, fmt.Errorf("invalid weekday: %q", s)
}

// PaymentCategory selects which expense bucket a pending payment counts toward.
type PaymentCategory string

const (
	FixedExpense    PaymentCategory = "fixedExpenses"
	VariableExpense PaymentCategory = "variableExpenses"
)

var PaymentCategories = []PaymentCategory{FixedExpense, VariableExpense}

func (c PaymentCategory) Valid() bool {
	return c == FixedExpense || c == VariableExpense
}

// Label is the short display name used on payment badges.
func (c PaymentCategory) Label() string {
	switch c {
	case FixedExpense:
		return "Fijo"
	case VariableExpense:
		return "Variable"
	}
	return ""
}

func (c *PaymentCategory) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParsePaymentCategory(s string) (PaymentCategory, error) {
	switch fold(s) {
	case "fixedexpenses", "fixed", "fijo":
		return FixedExpense, nil
	case "variableexpenses", "variable":
		return VariableExpense, nil
	}
	return "", fmt.Errorf("invalid payment category: %q", s)
}

// FinanceField names one of the directly editable finance totals.
type FinanceField string

const (
	Income           FinanceField = "income"
	FixedExpenses    FinanceField = "fixedExpenses"
	VariableExpenses FinanceField = "variableExpenses"
)

var FinanceFields = []FinanceField{Income, FixedExpenses, VariableExpenses}

func (f FinanceField) Valid() bool {
	switch f {
	case Income, FixedExpenses, VariableExpenses:
		return true
	}
	return false
}

func (f FinanceField) Label() string {
	switch f {
	case Income:
		return "Ingresos"
	case FixedExpenses:
		return "Gastos Fijos"
	case VariableExpenses:
		return "Gastos Variables"
	}
	return ""
}

func ParseFinanceField(s string) (FinanceField, error) {
	switch fold(s) {
	case "income", "ingresos":
		return Income, nil
	case "fixedexpenses", "fixed", "fijos":
		return FixedExpenses, nil
	case "variableexpenses", "variable", "variables":
		return VariableExpenses, nil
	}
	return "", fmt.Errorf("invalid finance field: %q", s)
}

// FieldFor returns the finance field a payment category feeds.
func FieldFor(c PaymentCategory) FinanceField {
	if c == VariableExpense {
		return VariableExpenses
	}
	return FixedExpenses
}

// Urgency is the view-time state of a pending payment. It is never stored.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyDueSoon
	UrgencyOverdue
	UrgencyPaid
)

func (u Urgency) String() string {
	switch u {
	case UrgencyDueSoon:
		return "due_soon"
	case UrgencyOverdue:
		return "overdue"
	case UrgencyPaid:
		return "paid"
	}
	return "normal"
}

// Label is the Spanish annotation shown next to a payment.
func (u Urgency) Label() string {
	switch u {
	case UrgencyDueSoon:
		return "Próximo a vencer"
	case UrgencyOverdue:
		return "Vencido"
	case UrgencyPaid:
		return "Pagado"
	}
	return ""
}

func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// fold lowercases s and strips combining marks so "Miércoles" matches
// "miercoles".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
