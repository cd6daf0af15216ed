// Package ledger holds the household state engine: the four record
// collections, the mutations that keep them consistent, and the pure
// functions that derive every view from them.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

// Change is the set of collections a mutation touched. The zero value means
// the mutation was a no-op.
type Change uint8

const (
	ChangeTasks Change = 1 << iota
	ChangeActivities
	ChangePayments
	ChangeFinances
)

func (c Change) Has(x Change) bool { return c&x != 0 }

// Labels returns the storage labels of the touched collections.
func (c Change) Labels() []string {
	var labels []string
	if c.Has(ChangeTasks) {
		labels = append(labels, constants.LabelTasks)
	}
	if c.Has(ChangeFinances) {
		labels = append(labels, constants.LabelFinances)
	}
	if c.Has(ChangePayments) {
		labels = append(labels, constants.LabelPayments)
	}
	if c.Has(ChangeActivities) {
		labels = append(labels, constants.LabelActivities)
	}
	return labels
}

// PaidPolicy decides whether marking a payment paid affects expense totals.
type PaidPolicy int

const (
	// PaidInformational leaves totals alone: a counted payment stays counted.
	PaidInformational PaidPolicy = iota
	// PaidSettles removes a payment's amount from its bucket while it is
	// marked paid.
	PaidSettles
)

func (p PaidPolicy) String() string {
	if p == PaidSettles {
		return "settles"
	}
	return "informational"
}

func ParsePaidPolicy(s string) (PaidPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "informational":
		return PaidInformational, nil
	case "settles":
		return PaidSettles, nil
	}
	return PaidInformational, fmt.Errorf("invalid paid policy: %q (expected informational|settles)", s)
}

type Options struct {
	PaidPolicy PaidPolicy
	Now        func() time.Time
	NewID      func() string
}

// Snapshot is a copy of the four collections.
type Snapshot struct {
	Tasks      []models.Task
	Activities []models.WeeklyActivity
	Payments   []models.PendingPayment
	Finances   models.FinanceTotals
}

type Ledger struct {
	tasks      []models.Task
	activities []models.WeeklyActivity
	payments   []models.PendingPayment
	finances   models.FinanceTotals
	opts       Options
}

func New(opts Options) *Ledger {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Ledger{
		tasks:      []models.Task{},
		activities: []models.WeeklyActivity{},
		payments:   []models.PendingPayment{},
		opts:       opts,
	}
}

func (l *Ledger) PaidPolicy() PaidPolicy { return l.opts.PaidPolicy }

// Restore replaces all four collections with copies of s.
func (l *Ledger) Restore(s Snapshot) {
	l.tasks = append([]models.Task{}, s.Tasks...)
	l.activities = append([]models.WeeklyActivity{}, s.Activities...)
	l.payments = append([]models.PendingPayment{}, s.Payments...)
	l.finances = s.Finances
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Tasks:      l.Tasks(),
		Activities: l.Activities(),
		Payments:   l.Payments(),
		Finances:   l.finances,
	}
}

func (l *Ledger) Tasks() []models.Task {
	return append([]models.Task{}, l.tasks...)
}

func (l *Ledger) Activities() []models.WeeklyActivity {
	return append([]models.WeeklyActivity{}, l.activities...)
}

func (l *Ledger) Payments() []models.PendingPayment {
	return append([]models.PendingPayment{}, l.payments...)
}

func (l *Ledger) Finances() models.FinanceTotals { return l.finances }

// NewTask is the input to AddTask. A zero Responsible means PartyA, the form
// default; a zero AssignedDay means unassigned.
type NewTask struct {
	Category    string
	Description string
	Responsible models.Party
	AssignedDay models.Weekday
}

// AddTask appends a task. Empty category or description is a silent no-op.
func (l *Ledger) AddTask(in NewTask) (models.Task, Change) {
	category := strings.TrimSpace(in.Category)
	description := strings.TrimSpace(in.Description)
	if category == "" || description == "" {
		return models.Task{}, 0
	}
	responsible, ok := defaultParty(in.Responsible)
	if !ok {
		return models.Task{}, 0
	}
	if in.AssignedDay != models.NoDay && !in.AssignedDay.Valid() {
		return models.Task{}, 0
	}

	task := models.Task{
		ID: l.freshID(func(id string) bool {
			return indexOf(l.tasks, id, func(t models.Task) string { return t.ID }) >= 0
		}),
		Category:    category,
		Description: description,
		Responsible: responsible,
		Completed:   false,
		CreatedAt:   l.opts.Now(),
		AssignedDay: in.AssignedDay,
	}
	l.tasks = appendCopy(l.tasks, task)
	return task, ChangeTasks
}

// ToggleTaskCompletion flips a task's completed flag. Unknown ids are ignored.
func (l *Ledger) ToggleTaskCompletion(id string) Change {
	i := indexOf(l.tasks, id, func(t models.Task) string { return t.ID })
	if i < 0 {
		return 0
	}
	next := l.Tasks()
	next[i].Completed = !next[i].Completed
	l.tasks = next
	return ChangeTasks
}

// NewActivity is the input to AddWeeklyActivity.
type NewActivity struct {
	Title       string
	Description string
	Day         models.Weekday
	Time        string
	Responsible models.Party
}

// AddWeeklyActivity appends an activity unless title, day or time is missing.
func (l *Ledger) AddWeeklyActivity(in NewActivity) (models.WeeklyActivity, Change) {
	title := strings.TrimSpace(in.Title)
	clock := strings.TrimSpace(in.Time)
	if title == "" || clock == "" || !in.Day.Valid() {
		return models.WeeklyActivity{}, 0
	}
	responsible, ok := defaultParty(in.Responsible)
	if !ok {
		return models.WeeklyActivity{}, 0
	}

	activity := models.WeeklyActivity{
		ID: l.freshID(func(id string) bool {
			return indexOf(l.activities, id, func(a models.WeeklyActivity) string { return a.ID }) >= 0
		}),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Day:         in.Day,
		Time:        utils.NormalizeClock(clock),
		Responsible: responsible,
		Completed:   false,
	}
	l.activities = appendCopy(l.activities, activity)
	return activity, ChangeActivities
}

func (l *Ledger) ToggleActivityCompletion(id string) Change {
	i := indexOf(l.activities, id, func(a models.WeeklyActivity) string { return a.ID })
	if i < 0 {
		return 0
	}
	next := l.Activities()
	next[i].Completed = !next[i].Completed
	l.activities = next
	return ChangeActivities
}

func (l *Ledger) DeleteActivity(id string) Change {
	i := indexOf(l.activities, id, func(a models.WeeklyActivity) string { return a.ID })
	if i < 0 {
		return 0
	}
	l.activities = removeAt(l.activities, i)
	return ChangeActivities
}

// NewPayment is the input to AddPendingPayment. A zero Category means
// FixedExpense, the form default.
type NewPayment struct {
	Description string
	Amount      decimal.Decimal
	DueDate     models.Date
	Category    models.PaymentCategory
}

// AddPendingPayment records a payment and adds its amount to the matching
// expense bucket in the same transition.
func (l *Ledger) AddPendingPayment(in NewPayment) (models.PendingPayment, Change) {
	description := strings.TrimSpace(in.Description)
	if description == "" || in.Amount.IsZero() || in.DueDate.IsZero() {
		return models.PendingPayment{}, 0
	}
	category := in.Category
	if category == "" {
		category = models.FixedExpense
	}
	if !category.Valid() {
		return models.PendingPayment{}, 0
	}

	payment := models.PendingPayment{
		ID: l.freshID(func(id string) bool {
			return indexOf(l.payments, id, func(p models.PendingPayment) string { return p.ID }) >= 0
		}),
		Description: description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Category:    category,
		Paid:        false,
	}
	l.payments, l.finances = addPayment(l.payments, l.finances, payment)
	return payment, ChangePayments | ChangeFinances
}

// DeletePendingPayment removes a payment and takes its amount back out of the
// bucket in the same transition, unless it was already settled.
func (l *Ledger) DeletePendingPayment(id string) Change {
	payments, finances, ok := removePayment(l.payments, l.finances, id)
	if !ok {
		return 0
	}
	l.payments, l.finances = payments, finances
	return ChangePayments | ChangeFinances
}

// TogglePaymentPaid flips the paid flag. Under PaidSettles marking a payment
// paid takes its amount out of the bucket. Unmarking always puts a settled
// amount back, whatever the current policy.
func (l *Ledger) TogglePaymentPaid(id string) Change {
	payments, finances, moved, ok := togglePaid(l.payments, l.finances, id, l.opts.PaidPolicy)
	if !ok {
		return 0
	}
	l.payments, l.finances = payments, finances
	if moved {
		return ChangePayments | ChangeFinances
	}
	return ChangePayments
}

// SetFinanceField overwrites one total directly. The payment ledger is not
// consulted, so the two may drift apart.
func (l *Ledger) SetFinanceField(field models.FinanceField, value decimal.Decimal) Change {
	if !field.Valid() {
		return 0
	}
	l.finances = l.finances.With(field, value)
	return ChangeFinances
}

func addPayment(payments []models.PendingPayment, totals models.FinanceTotals, p models.PendingPayment) ([]models.PendingPayment, models.FinanceTotals) {
	totals = totals.WithBucket(p.Category, totals.Bucket(p.Category).Add(p.Amount))
	return appendCopy(payments, p), totals
}

func removePayment(payments []models.PendingPayment, totals models.FinanceTotals, id string) ([]models.PendingPayment, models.FinanceTotals, bool) {
	i := indexOf(payments, id, func(p models.PendingPayment) string { return p.ID })
	if i < 0 {
		return payments, totals, false
	}
	p := payments[i]
	if !p.Settled {
		totals = totals.WithBucket(p.Category, totals.Bucket(p.Category).Sub(p.Amount))
	}
	return removeAt(payments, i), totals, true
}

// togglePaid reports whether the amount moved in or out of its bucket.
func togglePaid(payments []models.PendingPayment, totals models.FinanceTotals, id string, policy PaidPolicy) ([]models.PendingPayment, models.FinanceTotals, bool, bool) {
	i := indexOf(payments, id, func(p models.PendingPayment) string { return p.ID })
	if i < 0 {
		return payments, totals, false, false
	}
	next := append([]models.PendingPayment{}, payments...)
	p := &next[i]
	p.Paid = !p.Paid

	bucket := totals.Bucket(p.Category)
	moved := false
	switch {
	case p.Paid && !p.Settled && policy == PaidSettles:
		bucket = bucket.Sub(p.Amount)
		p.Settled = true
		moved = true
	case !p.Paid && p.Settled:
		bucket = bucket.Add(p.Amount)
		p.Settled = false
		moved = true
	}
	return next, totals.WithBucket(p.Category, bucket), moved, true
}

func defaultParty(p models.Party) (models.Party, bool) {
	if p == "" {
		return models.PartyA, true
	}
	return p, p.Valid()
}

// freshID draws ids until one is unused, suffixing repeats so a
// deterministic generator still yields unique ids.
func (l *Ledger) freshID(taken func(string) bool) string {
	id := l.opts.NewID()
	if !taken(id) {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

// appendCopy appends to a fresh backing array so earlier snapshots never
// observe the new element.
func appendCopy[T any](items []T, item T) []T {
	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	return append(next, item)
}

func removeAt[T any](items []T, i int) []T {
	next := make([]T, 0, len(items)-1)
	next = append(next, items[:i]...)
	return append(next, items[i+1:]...)
}
