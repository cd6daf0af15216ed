// Package export renders the household state as an .xlsx workbook with one
// sheet per tab of the organizer.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
)

const (
	SheetTasks      = "Tareas"
	SheetPlanner    = "Planner"
	SheetFinances   = "Finanzas"
	SheetPayments   = "Pagos"
	unassignedLabel = "Sin asignar"
	pendingLabel    = "Pendiente"
	moneyFormat     = "#,##0.00"
)

// Options carries the date payment urgency is measured against.
type Options struct {
	Today       models.Date
	DueSoonDays int
}

type builder struct {
	f       *excelize.File
	bold    int
	money   int
	balance int
	err     error
}

// Build renders snap into a new workbook.
func Build(snap ledger.Snapshot, opts Options) (*excelize.File, error) {
	b := &builder{f: excelize.NewFile()}
	b.styles()

	b.tasks(snap.Tasks)
	b.planner(snap.Activities)
	b.finances(snap.Finances)
	b.payments(ledger.ClassifyPayments(snap.Payments, opts.Today, opts.DueSoonDays))

	if b.err == nil {
		b.err = b.f.DeleteSheet("Sheet1")
	}
	if b.err != nil {
		_ = b.f.Close()
		return nil, b.err
	}
	if idx, err := b.f.GetSheetIndex(SheetTasks); err == nil {
		b.f.SetActiveSheet(idx)
	}
	return b.f, nil
}

// Write renders snap and writes the workbook to w.
func Write(w io.Writer, snap ledger.Snapshot, opts Options) error {
	f, err := Build(snap, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteFile renders snap to path.
func WriteFile(path string, snap ledger.Snapshot, opts Options) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := Write(out, snap, opts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *builder) styles() {
	var err error
	b.bold, err = b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		b.err = fmt.Errorf("error creating header style: %w", err)
		return
	}
	format := moneyFormat
	b.money, err = b.f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		b.err = fmt.Errorf("error creating money style: %w", err)
		return
	}
	b.balance, err = b.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
		CustomNumFmt: &format,
	})
	if err != nil {
		b.err = fmt.Errorf("error creating balance style: %w", err)
	}
}

// sheet creates name with a styled header row.
func (b *builder) sheet(name string, headers ...string) {
	if b.err != nil {
		return
	}
	if _, err := b.f.NewSheet(name); err != nil {
		b.err = fmt.Errorf("error creating sheet %s: %w", name, err)
		return
	}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	b.row(name, 1, row...)
	if b.err == nil {
		b.err = b.f.SetRowStyle(name, 1, 1, b.bold)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if b.err == nil {
		b.err = b.f.SetColWidth(name, "A", last, 18)
	}
}

func (b *builder) row(sheet string, n int, values ...interface{}) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	if err := b.f.SetSheetRow(sheet, cell, &values); err != nil {
		b.err = fmt.Errorf("error writing %s row %d: %w", sheet, n, err)
	}
}

func (b *builder) style(sheet string, col, row, style int) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		err = b.f.SetCellStyle(sheet, cell, cell, style)
	}
	b.err = err
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func (b *builder) tasks(tasks []models.Task) {
	b.sheet(SheetTasks, "Día", "Categoría", "Tarea", "Responsable", "Completada")
	board := ledger.GroupTasksByDay(tasks, ledger.TaskFilter{})
	n := 2
	emit := func(day string, ts []models.Task) {
		for _, t := range ts {
			b.row(SheetTasks, n, day, t.Category, t.Description, t.Responsible.String(), yesNo(t.Completed))
			n++
		}
	}
	emit(unassignedLabel, board.Unassigned)
	for _, d := range models.Weekdays {
		emit(d.String(), board.Day(d))
	}
}

func (b *builder) planner(activities []models.WeeklyActivity) {
	b.sheet(SheetPlanner, "Día", "Hora", "Actividad", "Descripción", "Responsable", "Completada")
	week := ledger.GroupActivitiesByDay(activities)
	n := 2
	for _, d := range models.Weekdays {
		for _, a := range week.Day(d) {
			b.row(SheetPlanner, n, d.String(), a.Time, a.Title, a.Description, a.Responsible.String(), yesNo(a.Completed))
			n++
		}
	}
}

func (b *builder) finances(t models.FinanceTotals) {
	b.sheet(SheetFinances, "Concepto", "Monto")
	n := 2
	for _, field := range models.FinanceFields {
		b.row(SheetFinances, n, field.Label(), t.Get(field).InexactFloat64())
		b.style(SheetFinances, 2, n, b.money)
		n++
	}
	b.row(SheetFinances, n, "Saldo Disponible", ledger.ComputeAvailableBalance(t).InexactFloat64())
	if b.err == nil {
		b.err = b.f.SetRowStyle(SheetFinances, n, n, b.bold)
	}
	b.style(SheetFinances, 2, n, b.balance)
}

// status names every urgency, including the unlabelled normal one.
func status(u models.Urgency) string {
	if label := u.Label(); label != "" {
		return label
	}
	return pendingLabel
}

func (b *builder) payments(views []ledger.PaymentView) {
	b.sheet(SheetPayments, "Descripción", "Monto", "Vencimiento", "Tipo", "Estado")
	for i, v := range views {
		n := i + 2
		p := v.Payment
		b.row(SheetPayments, n, p.Description, p.Amount.InexactFloat64(), p.DueDate.String(), p.Category.Label(), status(v.Urgency))
		b.style(SheetPayments, 2, n, b.money)
	}
}
