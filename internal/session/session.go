// Package session binds a ledger to a storage provider. Every mutation and
// the save of the collections it touched happen under one lock, and storage
// failures are logged and surfaced as a transient status instead of being
// returned.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/storage"
)

const defaultStatusDuration = constants.DefaultStatusDuration

type Options struct {
	Ledger         ledger.Options
	StatusDuration time.Duration
	DueSoonDays    int
	// Today returns the civil date urgency is measured against.
	Today func() models.Date
}

type Session struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	store  storage.Provider
	status Board
	opts   Options
}

// Open loads the four collections from p, which must already be loaded.
func Open(p storage.Provider, opts Options) (*Session, error) {
	if opts.DueSoonDays <= 0 {
		opts.DueSoonDays = constants.DueSoonWindowDays
	}
	if opts.Today == nil {
		opts.Today = func() models.Date { return models.DateOf(time.Now()) }
	}
	s := &Session{
		ledger: ledger.New(opts.Ledger),
		store:  p,
		status: Board{Duration: opts.StatusDuration, Now: opts.Ledger.Now},
		opts:   opts,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with what the store holds.
func (s *Session) Reload() error {
	snap, err := storage.LoadSnapshot(s.store)
	if err != nil {
		return fmt.Errorf("failed to load household data: %w", err)
	}
	s.mu.Lock()
	s.ledger.Restore(snap)
	s.mu.Unlock()
	logger.Debug("Session loaded",
		"tasks", len(snap.Tasks), "activities", len(snap.Activities), "payments", len(snap.Payments))
	return nil
}

// apply runs fn under the lock and persists whatever it touched. It reports
// whether fn changed anything.
func (s *Session) apply(op string, fn func(*ledger.Ledger) ledger.Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := fn(s.ledger)
	if change == 0 {
		logger.Debug("Mutation was a no-op", "op", op)
		return false
	}
	if err := storage.SaveChange(s.store, s.ledger.Snapshot(), change); err != nil {
		logger.Error("Failed to save", "op", op, "labels", change.Labels(), "error", err)
		s.status.Post(LevelError, "No se pudieron guardar los cambios")
	}
	return true
}

func (s *Session) AddTask(in ledger.NewTask) (models.Task, bool) {
	var task models.Task
	ok := s.apply("add task", func(l *ledger.Ledger) ledger.Change {
		var c ledger.Change
		task, c = l.AddTask(in)
		return c
	})
	return task, ok
}

func (s *Session) ToggleTask(id string) bool {
	return s.apply("toggle task", func(l *ledger.Ledger) ledger.Change { return l.ToggleTaskCompletion(id) })
}

func (s *Session) AddActivity(in ledger.NewActivity) (models.WeeklyActivity, bool) {
	var activity models.WeeklyActivity
	ok := s.apply("add activity", func(l *ledger.Ledger) ledger.Change {
		var c ledger.Change
		activity, c = l.AddWeeklyActivity(in)
		return c
	})
	return activity, ok
}

func (s *Session) ToggleActivity(id string) bool {
	return s.apply("toggle activity", func(l *ledger.Ledger) ledger.Change { return l.ToggleActivityCompletion(id) })
}

func (s *Session) DeleteActivity(id string) bool {
	return s.apply("delete activity", func(l *ledger.Ledger) ledger.Change { return l.DeleteActivity(id) })
}

func (s *Session) AddPayment(in ledger.NewPayment) (models.PendingPayment, bool) {
	var payment models.PendingPayment
	ok := s.apply("add payment", func(l *ledger.Ledger) ledger.Change {
		var c ledger.Change
		payment, c = l.AddPendingPayment(in)
		return c
	})
	return payment, ok
}

func (s *Session) TogglePayment(id string) bool {
	return s.apply("toggle payment", func(l *ledger.Ledger) ledger.Change { return l.TogglePaymentPaid(id) })
}

func (s *Session) DeletePayment(id string) bool {
	return s.apply("delete payment", func(l *ledger.Ledger) ledger.Change { return l.DeletePendingPayment(id) })
}

func (s *Session) SetFinance(field models.FinanceField, value decimal.Decimal) bool {
	return s.apply("set finance", func(l *ledger.Ledger) ledger.Change { return l.SetFinanceField(field, value) })
}

// Views

func (s *Session) Snapshot() ledger.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

func (s *Session) Tasks(f ledger.TaskFilter) ledger.TaskBoard {
	return ledger.GroupTasksByDay(s.Snapshot().Tasks, f)
}

func (s *Session) Week() ledger.ActivityWeek {
	return ledger.GroupActivitiesByDay(s.Snapshot().Activities)
}

func (s *Session) Payments() []ledger.PaymentView {
	return ledger.ClassifyPayments(s.Snapshot().Payments, s.opts.Today(), s.opts.DueSoonDays)
}

func (s *Session) Finances() models.FinanceTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Finances()
}

func (s *Session) Balance() decimal.Decimal {
	return ledger.ComputeAvailableBalance(s.Finances())
}

func (s *Session) Summary() ledger.Summary {
	return ledger.Summarize(s.Snapshot(), s.opts.Today(), s.opts.DueSoonDays)
}

func (s *Session) Today() models.Date {
	return s.opts.Today()
}

// DueSoonDays is the window, in days, a payment counts as due soon.
func (s *Session) DueSoonDays() int {
	return s.opts.DueSoonDays
}

// Status

// Notify posts a transient message, e.g. the outcome of a remote call.
func (s *Session) Notify(level Level, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Post(level, text)
}

// Status returns the live message, or the zero Status once it expired.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.Current()
}
