package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
	"github.com/julianstephens/hogar/internal/storage"
)

func setupModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "hogar.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	n := 0
	sess, err := session.Open(store, session.Options{
		Ledger: ledger.Options{
			Now: func() time.Time { return now },
			NewID: func() string {
				n++
				return fmt.Sprintf("id-%d", n)
			},
		},
		Today: func() models.Date { return models.DateOf(now) },
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return NewModel(sess), sess
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestTabCycling(t *testing.T) {
	m, _ := setupModel(t)

	tests := []struct {
		key  string
		want Tab
	}{
		{"tab", TabPlanner},
		{"tab", TabFinanzas},
		{"tab", TabHogar},
		{"shift+tab", TabFinanzas},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.ActiveTab() != tt.want {
			t.Errorf("after %s tab = %d, want %d", tt.key, m.ActiveTab(), tt.want)
		}
	}
}

func TestToggleSelectedTask(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddTask(ledger.NewTask{Category: "Limpieza", Description: "Barrer", AssignedDay: models.Martes})
	sess.AddTask(ledger.NewTask{Category: "Compras", Description: "Pan"})

	// Unassigned tasks come first, so the second row is the Martes task.
	m = press(t, m, "down", "space")

	board := sess.Tasks(ledger.TaskFilter{})
	if !board.Day(models.Martes)[0].Completed {
		t.Error("Martes task was not toggled")
	}
	if board.Unassigned[0].Completed {
		t.Error("unassigned task was toggled")
	}
	if !strings.Contains(m.View(), "[x] Limpieza · Barrer") {
		t.Errorf("view does not show the completed task:\n%s", m.View())
	}
}

func TestDeleteIgnoredOnTasks(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddTask(ledger.NewTask{Category: "Limpieza", Description: "Barrer"})

	press(t, m, "d")
	if n := sess.Tasks(ledger.TaskFilter{}).Len(); n != 1 {
		t.Errorf("task count = %d, want 1", n)
	}
}

func TestPlannerToggleAndDelete(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddActivity(ledger.NewActivity{Title: "Cena", Day: models.Lunes, Time: "18:30"})
	sess.AddActivity(ledger.NewActivity{Title: "Gimnasio", Day: models.Lunes, Time: "09:00"})

	m = press(t, m, "tab", "space", "down", "d")

	monday := sess.Week().Day(models.Lunes)
	if len(monday) != 1 {
		t.Fatalf("Lunes has %d activities, want 1", len(monday))
	}
	if monday[0].Title != "Gimnasio" || !monday[0].Completed {
		t.Errorf("remaining activity = %+v", monday[0])
	}
	if m.cursor[TabPlanner] != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor[TabPlanner])
	}
	if !strings.Contains(m.View(), "Lunes (hoy)") {
		t.Error("planner does not mark today")
	}
}

func TestFinanzasTogglePaidAndDelete(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddPayment(ledger.NewPayment{
		Description: "Alquiler",
		Amount:      decimal.NewFromInt(500),
		DueDate:     models.NewDate(2024, time.June, 5),
	})

	m = press(t, m, "shift+tab")
	view := m.View()
	if !strings.Contains(view, "Vencido") {
		t.Errorf("overdue payment not annotated:\n%s", view)
	}

	m = press(t, m, "space")
	if p := sess.Payments(); !p[0].Payment.Paid || p[0].Urgency != models.UrgencyPaid {
		t.Errorf("payment after toggle = %+v", p[0])
	}

	press(t, m, "d")
	if len(sess.Payments()) != 0 {
		t.Error("payment was not deleted")
	}
	if !sess.Finances().FixedExpenses.IsZero() {
		t.Errorf("fixedExpenses = %s, want 0", sess.Finances().FixedExpenses)
	}
}

func TestCycleFilter(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddTask(ledger.NewTask{Category: "a", Description: "uno", Responsible: models.PartyA})
	sess.AddTask(ledger.NewTask{Category: "b", Description: "dos", Responsible: models.PartyB})

	want := []models.Party{models.PartyA, models.PartyB, models.Both, ""}
	for _, p := range want {
		m = press(t, m, "f")
		if m.Filter().Responsible != p {
			t.Errorf("filter = %q, want %q", m.Filter().Responsible, p)
		}
	}

	m = press(t, m, "f")
	if rows := m.taskRows(); len(rows) != 1 || rows[0].Description != "uno" {
		t.Errorf("filtered rows = %+v", rows)
	}
}

func TestSearch(t *testing.T) {
	m, sess := setupModel(t)
	sess.AddTask(ledger.NewTask{Category: "Compras", Description: "Pan"})
	sess.AddTask(ledger.NewTask{Category: "Limpieza", Description: "Barrer"})

	m = press(t, m, "/", "b", "a", "r")
	if m.Filter().Search != "bar" {
		t.Fatalf("search = %q, want %q", m.Filter().Search, "bar")
	}
	if rows := m.taskRows(); len(rows) != 1 || rows[0].Description != "Barrer" {
		t.Errorf("rows = %+v", rows)
	}

	// q types into the search box instead of quitting.
	m = press(t, m, "q", "esc")
	if m.quitting {
		t.Error("q quit while searching")
	}
	if m.Filter().Search != "" {
		t.Errorf("esc left search = %q", m.Filter().Search)
	}
}

func TestAddOpensAndEscClosesForm(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "a")
	if m.mode != modeForm || m.form == nil {
		t.Fatal("a did not open a form")
	}
	m = press(t, m, "esc")
	if m.mode != modeBrowse || m.form != nil {
		t.Error("esc did not close the form")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(Model).quitting || cmd == nil {
		t.Error("q did not quit")
	}
	if next.(Model).View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestStatusLine(t *testing.T) {
	m, sess := setupModel(t)
	sess.Notify(session.LevelError, "No se pudo enviar la tarea")
	if !strings.Contains(m.View(), "No se pudo enviar la tarea") {
		t.Error("status message not shown")
	}
}

func TestViewScrollsToCursor(t *testing.T) {
	m, sess := setupModel(t)
	for i := 0; i < 30; i++ {
		sess.AddTask(ledger.NewTask{Category: "Compras", Description: fmt.Sprintf("item %02d", i)})
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 16})
	m = next.(Model)

	if view := m.View(); strings.Contains(view, "item 29") {
		t.Errorf("view shows rows past the window:\n%s", view)
	}
	for i := 0; i < 29; i++ {
		m = press(t, m, "down")
	}
	view := m.View()
	if !strings.Contains(view, "item 29") {
		t.Errorf("selected row not visible:\n%s", view)
	}
	if strings.Contains(view, "item 00") {
		t.Errorf("view did not scroll:\n%s", view)
	}
}
