package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/storage"
)

// flakyStore fails every write while fail is set.
type flakyStore struct {
	*storage.JSONStore
	mu     sync.Mutex
	fail   bool
	writes int
}

func (f *flakyStore) PutAll(entries map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail {
		return errors.New("disk full")
	}
	return f.JSONStore.PutAll(entries)
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T) *flakyStore {
	t.Helper()
	js := storage.NewJSONStore(filepath.Join(t.TempDir(), "hogar.json"))
	if err := js.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return &flakyStore{JSONStore: js}
}

func newSession(t *testing.T, store storage.Provider, clock *testClock) *Session {
	t.Helper()
	n := 0
	s, err := Open(store, Options{
		Ledger: ledger.Options{
			Now: clock.Now,
			NewID: func() string {
				n++
				return fmt.Sprintf("id-%d", n)
			},
		},
		Today: func() models.Date { return models.DateOf(clock.Now()) },
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s
}

func fixedClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
}

func TestMutationsPersistAcrossSessions(t *testing.T) {
	store := newStore(t)
	clock := fixedClock()
	s := newSession(t, store, clock)

	task, ok := s.AddTask(ledger.NewTask{Category: "Limpieza", Description: "Barrer", Responsible: models.PartyB, AssignedDay: models.Martes})
	if !ok {
		t.Fatal("AddTask() was a no-op")
	}
	if !s.ToggleTask(task.ID) {
		t.Fatal("ToggleTask() was a no-op")
	}
	if _, ok := s.AddActivity(ledger.NewActivity{Title: "Fútbol", Day: models.Lunes, Time: "18:30"}); !ok {
		t.Fatal("AddActivity() was a no-op")
	}
	due := models.NewDate(2024, time.June, 12)
	if _, ok := s.AddPayment(ledger.NewPayment{Description: "Luz", Amount: decimal.NewFromInt(80), DueDate: due, Category: models.VariableExpense}); !ok {
		t.Fatal("AddPayment() was a no-op")
	}
	if !s.SetFinance(models.Income, decimal.NewFromInt(1000)) {
		t.Fatal("SetFinance() was a no-op")
	}

	reopened := newSession(t, store, clock)
	board := reopened.Tasks(ledger.TaskFilter{})
	tuesday := board.Day(models.Martes)
	if len(tuesday) != 1 || !tuesday[0].Completed {
		t.Fatalf("Martes tasks = %+v", tuesday)
	}
	if got := reopened.Week().Day(models.Lunes); len(got) != 1 || got[0].Title != "Fútbol" {
		t.Errorf("Lunes activities = %+v", got)
	}
	payments := reopened.Payments()
	if len(payments) != 1 || payments[0].Urgency != models.UrgencyDueSoon {
		t.Errorf("payments = %+v", payments)
	}
	if want := decimal.NewFromInt(920); !reopened.Balance().Equal(want) {
		t.Errorf("Balance() = %s, want %s", reopened.Balance(), want)
	}
}

func TestNoopDoesNotWrite(t *testing.T) {
	store := newStore(t)
	s := newSession(t, store, fixedClock())

	if _, ok := s.AddTask(ledger.NewTask{Category: "", Description: "x"}); ok {
		t.Error("AddTask() with empty category reported a change")
	}
	if s.ToggleTask("missing") || s.DeleteActivity("missing") || s.DeletePayment("missing") {
		t.Error("unknown id reported a change")
	}
	if store.writes != 0 {
		t.Errorf("no-op mutations wrote %d times", store.writes)
	}
}

func TestSaveFailureKeepsStateAndPostsStatus(t *testing.T) {
	store := newStore(t)
	clock := fixedClock()
	s := newSession(t, store, clock)
	store.setFail(true)

	task, ok := s.AddTask(ledger.NewTask{Category: "Cocina", Description: "Lavar platos"})
	if !ok {
		t.Fatal("AddTask() should still apply in memory")
	}
	if got := s.Tasks(ledger.TaskFilter{}).Len(); got != 1 {
		t.Errorf("in-memory task count = %d, want 1", got)
	}
	st := s.Status()
	if st.Level != LevelError || st.Text == "" {
		t.Errorf("Status() = %+v, want error message", st)
	}

	clock.Advance(2 * time.Second)
	if s.Status().Text == "" {
		t.Error("status expired too early")
	}
	clock.Advance(2 * time.Second)
	if got := s.Status(); got.Text != "" {
		t.Errorf("Status() after expiry = %+v", got)
	}

	store.setFail(false)
	if !s.ToggleTask(task.ID) {
		t.Fatal("ToggleTask() was a no-op")
	}
	reopened := newSession(t, store, clock)
	if got := reopened.Tasks(ledger.TaskFilter{}).Unassigned; len(got) != 1 || !got[0].Completed {
		t.Errorf("task not persisted after recovery: %+v", got)
	}
}

func TestRentScenarioThroughSession(t *testing.T) {
	store := newStore(t)
	s := newSession(t, store, fixedClock())

	p, ok := s.AddPayment(ledger.NewPayment{
		Description: "Renta",
		Amount:      decimal.NewFromInt(500),
		DueDate:     models.NewDate(2024, time.July, 1),
		Category:    models.FixedExpense,
	})
	if !ok {
		t.Fatal("AddPayment() was a no-op")
	}
	if got := s.Finances().FixedExpenses; !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("fixedExpenses = %s, want 500", got)
	}
	if !s.DeletePayment(p.ID) {
		t.Fatal("DeletePayment() was a no-op")
	}

	reopened := newSession(t, store, fixedClock())
	if got := reopened.Finances().FixedExpenses; !got.IsZero() {
		t.Errorf("fixedExpenses after delete = %s, want 0", got)
	}
	if len(reopened.Payments()) != 0 {
		t.Errorf("payments after delete = %+v", reopened.Payments())
	}
}

func TestConcurrentMutations(t *testing.T) {
	store := newStore(t)
	s, err := Open(store, Options{})
	if err != nil {
		t.Fatal(err)
	}

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddPayment(ledger.NewPayment{
				Description: fmt.Sprintf("pago %d", i),
				Amount:      decimal.NewFromInt(1),
				DueDate:     models.NewDate(2024, time.June, 20),
			})
		}(i)
	}
	wg.Wait()

	if got := s.Finances().FixedExpenses; !got.Equal(decimal.NewFromInt(n)) {
		t.Errorf("fixedExpenses = %s, want %d", got, n)
	}
	reopened, err := Open(store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	snap := reopened.Snapshot()
	if len(snap.Payments) != n || !snap.Finances.FixedExpenses.Equal(decimal.NewFromInt(n)) {
		t.Errorf("persisted %d payments totalling %s", len(snap.Payments), snap.Finances.FixedExpenses)
	}
}

func TestNotify(t *testing.T) {
	clock := fixedClock()
	s := newSession(t, newStore(t), clock)
	s.Notify(LevelSuccess, "Tarea enviada")
	if got := s.Status(); got.Text != "Tarea enviada" || got.Level != LevelSuccess {
		t.Errorf("Status() = %+v", got)
	}
	if !s.Status().ExpiresAt.Equal(clock.Now().Add(defaultStatusDuration)) {
		t.Errorf("ExpiresAt = %v", s.Status().ExpiresAt)
	}
}

func TestOpenFailsOnCorruptStore(t *testing.T) {
	store := newStore(t)
	if err := store.JSONStore.Put("familyTasks", []byte(`{"oops":true}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(store, Options{}); err == nil {
		t.Error("Open() accepted a corrupt collection")
	}
}
