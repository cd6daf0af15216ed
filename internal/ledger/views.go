package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

// ComputeAvailableBalance returns income minus both expense totals.
func ComputeAvailableBalance(t models.FinanceTotals) decimal.Decimal {
	return t.Income.Sub(t.FixedExpenses).Sub(t.VariableExpenses)
}

// TaskFilter narrows the task board. A zero Responsible matches every party;
// Search is a case-insensitive substring match on description or category.
type TaskFilter struct {
	Responsible models.Party
	Search      string
}

func (f TaskFilter) Match(t models.Task) bool {
	if f.Responsible != "" && t.Responsible != f.Responsible {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.Category), needle)
}

func FilterTasks(tasks []models.Task, f TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// TaskBoard is the filtered task list split into the seven canonical days
// plus the tasks with no assigned day.
type TaskBoard struct {
	Days       [7][]models.Task
	Unassigned []models.Task
}

func (b TaskBoard) Day(d models.Weekday) []models.Task {
	if !d.Valid() {
		return b.Unassigned
	}
	return b.Days[d.Index()]
}

// Len is the number of tasks on the board.
func (b TaskBoard) Len() int {
	n := len(b.Unassigned)
	for _, day := range b.Days {
		n += len(day)
	}
	return n
}

// GroupTasksByDay places every task that passes f in exactly one bucket,
// keeping insertion order within each.
func GroupTasksByDay(tasks []models.Task, f TaskFilter) TaskBoard {
	var board TaskBoard
	for i := range board.Days {
		board.Days[i] = []models.Task{}
	}
	board.Unassigned = []models.Task{}

	for _, t := range tasks {
		if !f.Match(t) {
			continue
		}
		if t.AssignedDay.Valid() {
			i := t.AssignedDay.Index()
			board.Days[i] = append(board.Days[i], t)
		} else {
			board.Unassigned = append(board.Unassigned, t)
		}
	}
	return board
}

// ActivityWeek holds the activities of each canonical day ordered by time.
type ActivityWeek [7][]models.WeeklyActivity

func (w ActivityWeek) Day(d models.Weekday) []models.WeeklyActivity {
	if !d.Valid() {
		return nil
	}
	return w[d.Index()]
}

// GroupActivitiesByDay buckets activities by day and orders each bucket by
// zero-padded HH:MM, ties kept in insertion order.
func GroupActivitiesByDay(activities []models.WeeklyActivity) ActivityWeek {
	var week ActivityWeek
	for i := range week {
		week[i] = []models.WeeklyActivity{}
	}
	for _, a := range activities {
		if !a.Day.Valid() {
			continue
		}
		i := a.Day.Index()
		week[i] = append(week[i], a)
	}
	for i := range week {
		bucket := week[i]
		sort.SliceStable(bucket, func(x, y int) bool {
			return utils.NormalizeClock(bucket[x].Time) < utils.NormalizeClock(bucket[y].Time)
		})
	}
	return week
}

// ClassifyPaymentUrgency uses the standard seven day due-soon window.
func ClassifyPaymentUrgency(p models.PendingPayment, today models.Date) models.Urgency {
	return ClassifyPaymentUrgencyWithin(p, today, constants.DueSoonWindowDays)
}

// ClassifyPaymentUrgencyWithin derives exactly one urgency for p as of today.
// Paid wins over everything; otherwise a past due date is overdue and a due
// date within windowDays (inclusive) is due soon.
func ClassifyPaymentUrgencyWithin(p models.PendingPayment, today models.Date, windowDays int) models.Urgency {
	switch {
	case p.Paid:
		return models.UrgencyPaid
	case p.DueDate.Before(today):
		return models.UrgencyOverdue
	case !p.DueDate.After(today.AddDays(windowDays)):
		return models.UrgencyDueSoon
	default:
		return models.UrgencyNormal
	}
}

type PaymentView struct {
	Payment models.PendingPayment `json:"payment"`
	Urgency models.Urgency        `json:"urgency"`
}

// ClassifyPayments pairs each payment with its urgency, in ledger order.
func ClassifyPayments(payments []models.PendingPayment, today models.Date, windowDays int) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{Payment: p, Urgency: ClassifyPaymentUrgencyWithin(p, today, windowDays)})
	}
	return views
}

type Summary struct {
	Income              decimal.Decimal `json:"income"`
	FixedExpenses       decimal.Decimal `json:"fixedExpenses"`
	VariableExpenses    decimal.Decimal `json:"variableExpenses"`
	Balance             decimal.Decimal `json:"availableBalance"`
	Tasks               int             `json:"tasks"`
	TasksCompleted      int             `json:"tasksCompleted"`
	Activities          int             `json:"activities"`
	ActivitiesCompleted int             `json:"activitiesCompleted"`
	Payments            int             `json:"payments"`
	Overdue             int             `json:"overdue"`
	DueSoon             int             `json:"dueSoon"`
	Paid                int             `json:"paid"`
	Outstanding         decimal.Decimal `json:"outstanding"`
}

// Summarize computes the dashboard numbers for a snapshot as of today.
func Summarize(s Snapshot, today models.Date, windowDays int) Summary {
	sum := Summary{
		Income:           s.Finances.Income,
		FixedExpenses:    s.Finances.FixedExpenses,
		VariableExpenses: s.Finances.VariableExpenses,
		Balance:          ComputeAvailableBalance(s.Finances),
		Tasks:            len(s.Tasks),
		Activities:       len(s.Activities),
		Payments:         len(s.Payments),
		Outstanding:      decimal.Zero,
	}
	for _, t := range s.Tasks {
		if t.Completed {
			sum.TasksCompleted++
		}
	}
	for _, a := range s.Activities {
		if a.Completed {
			sum.ActivitiesCompleted++
		}
	}
	for _, p := range s.Payments {
		switch ClassifyPaymentUrgencyWithin(p, today, windowDays) {
		case models.UrgencyPaid:
			sum.Paid++
			continue
		case models.UrgencyOverdue:
			sum.Overdue++
		case models.UrgencyDueSoon:
			sum.DueSoon++
		}
		sum.Outstanding = sum.Outstanding.Add(p.Amount)
	}
	return sum
}
