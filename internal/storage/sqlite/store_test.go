package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/hogar/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", "hogar.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
}

func TestGetBeforeLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "hogar.db"))
	if _, _, err := s.Get("familyTasks"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Get() = %v, want ErrNotLoaded", err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	if _, ok, err := s.Get("familyTasks"); err != nil || ok {
		t.Fatalf("Get() on empty store = (%v, %v), want absent", ok, err)
	}
	if err := s.Put("familyTasks", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Put("familyTasks", []byte(`[{"id":"2"}]`)); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}
	got, ok, err := s.Get("familyTasks")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v)", ok, err)
	}
	if string(got) != `[{"id":"2"}]` {
		t.Errorf("Get() = %s, want last write", got)
	}
}

func TestPutAllAndReopen(t *testing.T) {
	s := setupTestStore(t)
	err := s.PutAll(map[string][]byte{
		"pendingPayments": []byte(`[]`),
		"familyFinances":  []byte(`{"income":"0"}`),
	})
	if err != nil {
		t.Fatalf("PutAll() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened := NewStore(s.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()
	for _, label := range []string{"pendingPayments", "familyFinances"} {
		if _, ok, err := reopened.Get(label); err != nil || !ok {
			t.Errorf("Get(%s) after reopen = (%v, %v)", label, ok, err)
		}
	}
}

func TestInitIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Put("weeklyActivities", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	if _, ok, _ := s.Get("weeklyActivities"); !ok {
		t.Error("second Init() lost data")
	}
}
