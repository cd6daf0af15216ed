// Package tui is the interactive terminal front end: three tabs over one
// session, mirroring the household organizer page.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
)

type Tab int

const (
	TabHogar Tab = iota
	TabPlanner
	TabFinanzas
	tabCount
)

var tabTitles = [tabCount]string{"Hogar", "Planner", "Finanzas"}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
)

// partyFilters is the cycle the filter key walks through. The zero party
// means everyone.
var partyFilters = []models.Party{"", models.PartyA, models.PartyB, models.Both}

type tickMsg time.Time

type Model struct {
	sess   *session.Session
	keys   KeyMap
	help   help.Model
	search textinput.Model

	tab    Tab
	mode   mode
	cursor [tabCount]int
	filter ledger.TaskFilter

	form   *huh.Form
	submit func(*session.Session)

	now      func() time.Time
	width    int
	height   int
	quitting bool
}

func NewModel(sess *session.Session) Model {
	search := textinput.New()
	search.Placeholder = "Buscar tareas..."
	search.Prompt = "/ "
	search.CharLimit = 64

	return Model{
		sess:   sess,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		search: search,
		now:    time.Now,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(sess *session.Session) error {
	_, err := tea.NewProgram(NewModel(sess), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// tick redraws once a second so expired status messages disappear.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Toggle, m.keys.Add}
	switch m.tab {
	case TabHogar:
		keys = append(keys, m.keys.Filter, m.keys.Search)
	case TabPlanner:
		keys = append(keys, m.keys.Delete)
	case TabFinanzas:
		keys = append(keys, m.keys.Delete, m.keys.Edit)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	actions := []key.Binding{m.keys.Toggle, m.keys.Add}
	switch m.tab {
	case TabHogar:
		actions = append(actions, m.keys.Filter, m.keys.Search)
	case TabPlanner:
		actions = append(actions, m.keys.Delete)
	case TabFinanzas:
		actions = append(actions, m.keys.Delete, m.keys.Edit)
	}
	return [][]key.Binding{global, navigation, actions}
}

// taskRows flattens the filtered board in display order: unassigned first,
// then Monday through Sunday.
func (m Model) taskRows() []models.Task {
	board := m.sess.Tasks(m.filter)
	rows := append([]models.Task{}, board.Unassigned...)
	for _, d := range models.Weekdays {
		rows = append(rows, board.Day(d)...)
	}
	return rows
}

func (m Model) activityRows() []models.WeeklyActivity {
	week := m.sess.Week()
	var rows []models.WeeklyActivity
	for _, d := range models.Weekdays {
		rows = append(rows, week.Day(d)...)
	}
	return rows
}

func (m Model) paymentRows() []ledger.PaymentView {
	return m.sess.Payments()
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabHogar:
		return len(m.taskRows())
	case TabPlanner:
		return len(m.activityRows())
	case TabFinanzas:
		return len(m.paymentRows())
	}
	return 0
}

func (m *Model) clampCursor() {
	n := m.rowCount()
	if m.cursor[m.tab] >= n {
		m.cursor[m.tab] = n - 1
	}
	if m.cursor[m.tab] < 0 {
		m.cursor[m.tab] = 0
	}
}

// Filter returns the active task filter.
func (m Model) Filter() ledger.TaskFilter {
	return m.filter
}

// ActiveTab returns the tab currently shown.
func (m Model) ActiveTab() Tab {
	return m.tab
}
