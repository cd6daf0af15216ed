package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
	"github.com/julianstephens/hogar/internal/utils"
)

type TaskFormModel struct {
	Category    string
	Task        string
	Responsible models.Party
	Day         models.Weekday
}

type ActivityFormModel struct {
	Title       string
	Description string
	Day         models.Weekday
	Time        string
	Responsible models.Party
}

type PaymentFormModel struct {
	Description string
	Amount      string
	DueDate     string
	Category    models.PaymentCategory
}

type FinanceFormModel struct {
	Field models.FinanceField
	Value string
}

func partyOptions() []huh.Option[models.Party] {
	opts := make([]huh.Option[models.Party], 0, len(models.Parties))
	for _, p := range models.Parties {
		opts = append(opts, huh.NewOption(p.String(), p))
	}
	return opts
}

func dayOptions(withNone bool) []huh.Option[models.Weekday] {
	var opts []huh.Option[models.Weekday]
	if withNone {
		opts = append(opts, huh.NewOption("Sin asignar", models.NoDay))
	}
	for _, d := range models.Weekdays {
		opts = append(opts, huh.NewOption(d.String(), d))
	}
	return opts
}

func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("monto inválido")
	}
	return nil
}

// parseAmount treats anything unparseable as zero, which the ledger ignores.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NewTaskForm builds the add-task form. Empty category or task is allowed
// through; the ledger drops it.
func NewTaskForm(fm *TaskFormModel) (*huh.Form, func(*session.Session)) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Categoría").
				Placeholder("Limpieza, Compras, ...").
				Value(&fm.Category),
			huh.NewInput().
				Title("Tarea").
				Value(&fm.Task),
			huh.NewSelect[models.Party]().
				Title("Responsable").
				Options(partyOptions()...).
				Value(&fm.Responsible),
			huh.NewSelect[models.Weekday]().
				Title("Día").
				Options(dayOptions(true)...).
				Value(&fm.Day),
		),
	).WithTheme(huh.ThemeDracula())

	return form, func(s *session.Session) {
		s.AddTask(ledger.NewTask{
			Category:    fm.Category,
			Description: fm.Task,
			Responsible: fm.Responsible,
			AssignedDay: fm.Day,
		})
	}
}

func NewActivityForm(fm *ActivityFormModel) (*huh.Form, func(*session.Session)) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Actividad").
				Value(&fm.Title),
			huh.NewInput().
				Title("Descripción").
				Value(&fm.Description),
			huh.NewSelect[models.Weekday]().
				Title("Día").
				Options(dayOptions(false)...).
				Value(&fm.Day),
			huh.NewInput().
				Title("Hora (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := utils.ParseTime(s); err != nil {
						return fmt.Errorf("formato de hora inválido, usa HH:MM")
					}
					return nil
				}),
			huh.NewSelect[models.Party]().
				Title("Responsable").
				Options(partyOptions()...).
				Value(&fm.Responsible),
		),
	).WithTheme(huh.ThemeDracula())

	return form, func(s *session.Session) {
		s.AddActivity(ledger.NewActivity{
			Title:       fm.Title,
			Description: fm.Description,
			Day:         fm.Day,
			Time:        fm.Time,
			Responsible: fm.Responsible,
		})
	}
}

func NewPaymentForm(fm *PaymentFormModel) (*huh.Form, func(*session.Session)) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Descripción").
				Value(&fm.Description),
			huh.NewInput().
				Title("Monto").
				Value(&fm.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Vence (YYYY-MM-DD)").
				Value(&fm.DueDate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := models.ParseDate(s)
					return err
				}),
			huh.NewSelect[models.PaymentCategory]().
				Title("Tipo").
				Options(
					huh.NewOption("Fijo", models.FixedExpense),
					huh.NewOption("Variable", models.VariableExpense),
				).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())

	return form, func(s *session.Session) {
		due, _ := models.ParseDate(fm.DueDate)
		s.AddPayment(ledger.NewPayment{
			Description: fm.Description,
			Amount:      parseAmount(fm.Amount),
			DueDate:     due,
			Category:    fm.Category,
		})
	}
}

func NewFinanceForm(fm *FinanceFormModel) (*huh.Form, func(*session.Session)) {
	opts := make([]huh.Option[models.FinanceField], 0, len(models.FinanceFields))
	for _, f := range models.FinanceFields {
		opts = append(opts, huh.NewOption(f.Label(), f))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.FinanceField]().
				Title("Campo").
				Options(opts...).
				Value(&fm.Field),
			huh.NewInput().
				Title("Nuevo valor").
				Value(&fm.Value).
				Validate(validateAmount),
		),
	).WithTheme(huh.ThemeDracula())

	return form, func(s *session.Session) {
		if strings.TrimSpace(fm.Value) == "" {
			return
		}
		s.SetFinance(fm.Field, parseAmount(fm.Value))
	}
}
