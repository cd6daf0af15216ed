package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/tui/components/pager"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	if m.mode == modeForm && m.form != nil {
		content = m.form.View()
	} else {
		switch m.tab {
		case TabHogar:
			content = m.viewHogar()
		case TabPlanner:
			content = m.viewPlanner()
		case TabFinanzas:
			content = m.viewFinanzas()
		}
	}

	tabs := m.viewTabs()
	status := m.viewStatus()
	help := m.help.View(m)

	if m.mode != modeForm && m.height > 0 {
		avail := m.height - lipgloss.Height(tabs) - lipgloss.Height(status) -
			lipgloss.Height(help) - docStyle.GetVerticalFrameSize()
		content = pager.Window(content, m.width-docStyle.GetHorizontalFrameSize(), max(avail, 1))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tabs,
		docStyle.Render(content),
		status,
		help,
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	st := m.sess.Status()
	if st.Text == "" {
		return ""
	}
	return statusStyle(st.Level).Render(" " + st.Text)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// line renders one selectable row.
func (m Model) line(row int, done bool, text string) string {
	prefix := "  "
	style := lipgloss.NewStyle()
	if done {
		style = doneStyle
	}
	if row == m.cursor[m.tab] {
		prefix = pager.Cursor
		style = selectedStyle
	}
	return prefix + style.Render(checkbox(done)+" "+text)
}

func (m Model) viewHogar() string {
	var b strings.Builder

	who := "Todos"
	if m.filter.Responsible != "" {
		who = m.filter.Responsible.String()
	}
	b.WriteString(mutedStyle.Render("Responsable: " + who))
	if m.mode == modeSearch {
		b.WriteString("\n" + m.search.View())
	} else if m.filter.Search != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Búsqueda: %q", m.filter.Search)))
	}
	b.WriteString("\n")

	board := m.sess.Tasks(m.filter)
	if board.Len() == 0 {
		b.WriteString("\n  No hay tareas.\n  Pulsa 'a' para agregar una.")
		return b.String()
	}

	row := 0
	group := func(title string, tasks []models.Task) {
		if len(tasks) == 0 {
			return
		}
		b.WriteString(headingStyle.Render(title) + "\n")
		for _, t := range tasks {
			text := fmt.Sprintf("%s · %s (%s)", t.Category, t.Description, t.Responsible)
			b.WriteString(m.line(row, t.Completed, text) + "\n")
			row++
		}
	}
	group("Sin asignar", board.Unassigned)
	for _, d := range models.Weekdays {
		group(d.String(), board.Day(d))
	}
	return b.String()
}

func (m Model) viewPlanner() string {
	var b strings.Builder
	week := m.sess.Week()
	today := m.sess.Today().Weekday()

	row := 0
	for _, d := range models.Weekdays {
		title := d.String()
		if d == today {
			title += " (hoy)"
		}
		b.WriteString(headingStyle.Render(title) + "\n")
		activities := week.Day(d)
		if len(activities) == 0 {
			b.WriteString(mutedStyle.Render("  Sin actividades") + "\n")
			continue
		}
		for _, a := range activities {
			text := fmt.Sprintf("%s %s (%s)", a.Time, a.Title, a.Responsible)
			if a.Description != "" {
				text += " · " + a.Description
			}
			b.WriteString(m.line(row, a.Completed, text) + "\n")
			row++
		}
	}
	return b.String()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (m Model) viewFinanzas() string {
	var b strings.Builder
	totals := m.sess.Finances()
	balance := ledger.ComputeAvailableBalance(totals)

	for _, f := range models.FinanceFields {
		b.WriteString(fmt.Sprintf("%-18s %12s\n", f.Label(), money(totals.Get(f))))
	}
	balanceStyle := successStyle
	if balance.IsNegative() {
		balanceStyle = dangerStyle
	}
	b.WriteString(fmt.Sprintf("%-18s %s\n", "Saldo Disponible", balanceStyle.Render(fmt.Sprintf("%12s", money(balance)))))

	b.WriteString(headingStyle.Render("Pagos pendientes") + "\n")
	views := m.paymentRows()
	if len(views) == 0 {
		b.WriteString(mutedStyle.Render("  No hay pagos pendientes") + "\n")
		return b.String()
	}
	for i, v := range views {
		p := v.Payment
		text := fmt.Sprintf("%s  %s  vence %s  %s", p.Description, money(p.Amount), p.DueDate.Display(), p.Category.Label())
		line := m.line(i, p.Paid, text)
		if label := v.Urgency.Label(); label != "" {
			line += "  " + urgencyStyle(v.Urgency).Render(label)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
