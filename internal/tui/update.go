package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeSearch:
		return m.updateSearch(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Tab):
		m.tab = (m.tab + 1) % tabCount
		m.clampCursor()
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.tab = (m.tab - 1 + tabCount) % tabCount
		m.clampCursor()
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor[m.tab] < m.rowCount()-1 {
			m.cursor[m.tab]++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(keyMsg, m.keys.Delete):
		m.deleteSelected()
		m.clampCursor()
	case key.Matches(keyMsg, m.keys.Add):
		return m.openAddForm()
	case key.Matches(keyMsg, m.keys.Filter):
		if m.tab == TabHogar {
			m.cycleFilter()
		}
	case key.Matches(keyMsg, m.keys.Search):
		if m.tab == TabHogar {
			m.mode = modeSearch
			return m, m.search.Focus()
		}
	case key.Matches(keyMsg, m.keys.Edit):
		if m.tab == TabFinanzas {
			fm := &FinanceFormModel{Field: models.Income}
			form, submit := NewFinanceForm(fm)
			return m.startForm(form, submit)
		}
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	i := m.cursor[m.tab]
	switch m.tab {
	case TabHogar:
		if rows := m.taskRows(); i < len(rows) {
			m.sess.ToggleTask(rows[i].ID)
		}
	case TabPlanner:
		if rows := m.activityRows(); i < len(rows) {
			m.sess.ToggleActivity(rows[i].ID)
		}
	case TabFinanzas:
		if rows := m.paymentRows(); i < len(rows) {
			m.sess.TogglePayment(rows[i].Payment.ID)
		}
	}
}

// deleteSelected removes the selected activity or payment. Tasks have no
// delete.
func (m *Model) deleteSelected() {
	i := m.cursor[m.tab]
	switch m.tab {
	case TabPlanner:
		if rows := m.activityRows(); i < len(rows) {
			m.sess.DeleteActivity(rows[i].ID)
		}
	case TabFinanzas:
		if rows := m.paymentRows(); i < len(rows) {
			m.sess.DeletePayment(rows[i].Payment.ID)
		}
	}
}

func (m *Model) cycleFilter() {
	next := 0
	for i, p := range partyFilters {
		if p == m.filter.Responsible {
			next = (i + 1) % len(partyFilters)
			break
		}
	}
	m.filter.Responsible = partyFilters[next]
	m.cursor[TabHogar] = 0
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabHogar:
		fm := &TaskFormModel{Responsible: models.PartyA}
		form, submit := NewTaskForm(fm)
		return m.startForm(form, submit)
	case TabPlanner:
		fm := &ActivityFormModel{Day: m.sess.Today().Weekday(), Responsible: models.PartyA}
		form, submit := NewActivityForm(fm)
		return m.startForm(form, submit)
	case TabFinanzas:
		fm := &PaymentFormModel{Category: models.FixedExpense}
		form, submit := NewPaymentForm(fm)
		return m.startForm(form, submit)
	}
	return m, nil
}

func (m Model) startForm(form *huh.Form, submit func(*session.Session)) (tea.Model, tea.Cmd) {
	m.form = form
	m.submit = submit
	m.mode = modeForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submit(m.sess)
		m.closeForm()
		m.clampCursor()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.submit = nil
	m.mode = modeBrowse
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.search.Blur()
			m.mode = modeBrowse
			return m, nil
		case tea.KeyEsc:
			m.search.Blur()
			m.search.SetValue("")
			m.filter.Search = ""
			m.mode = modeBrowse
			m.clampCursor()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	m.cursor[TabHogar] = 0
	return m, cmd
}
