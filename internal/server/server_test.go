package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
	"github.com/julianstephens/hogar/internal/storage"
)

func setupServer(t *testing.T) *Server {
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
	return New(sess, Options{})
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

type appliedResponse struct {
	Applied bool                  `json:"applied"`
	Task    models.Task           `json:"task"`
	Payment models.PendingPayment `json:"payment"`
}

func TestAddTaskAndList(t *testing.T) {
	s := setupServer(t)

	resp := do(t, s, "POST", "/api/tasks", map[string]string{
		"category": "Limpieza", "task": "Barrer", "responsible": "pollito", "assignedDay": "martes",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/tasks status = %d, want 201", resp.StatusCode)
	}
	var added appliedResponse
	decode(t, resp, &added)
	if !added.Applied || added.Task.Responsible != models.PartyB || added.Task.AssignedDay != models.Martes {
		t.Fatalf("unexpected task: %+v", added)
	}

	do(t, s, "POST", "/api/tasks", map[string]string{"category": "Compras", "task": "Pan"})

	var board taskBoardResponse
	decode(t, do(t, s, "GET", "/api/tasks?responsible=Pollito", nil), &board)
	if board.Total != 1 || len(board.Unassigned) != 0 {
		t.Fatalf("filtered board = %+v", board)
	}
	if board.Days[1].Day != models.Martes || len(board.Days[1].Tasks) != 1 {
		t.Errorf("Martes = %+v", board.Days[1])
	}

	decode(t, do(t, s, "GET", "/api/tasks?search=pan", nil), &board)
	if board.Total != 1 || len(board.Unassigned) != 1 || board.Unassigned[0].Responsible != models.PartyA {
		t.Errorf("search board = %+v", board)
	}
}

func TestAddTaskMissingFieldsIsNotApplied(t *testing.T) {
	s := setupServer(t)

	resp := do(t, s, "POST", "/api/tasks", map[string]string{"category": "", "task": "Barrer"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got appliedResponse
	decode(t, resp, &got)
	if got.Applied {
		t.Error("empty category was applied")
	}

	var board taskBoardResponse
	decode(t, do(t, s, "GET", "/api/tasks", nil), &board)
	if board.Total != 0 {
		t.Errorf("task count = %d, want 0", board.Total)
	}
}

func TestRejectsMalformedFields(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		path string
		body map[string]string
	}{
		{"unknown party", "/api/tasks", map[string]string{"category": "a", "task": "b", "responsible": "Nadie"}},
		{"unknown day", "/api/tasks", map[string]string{"category": "a", "task": "b", "assignedDay": "Funday"}},
		{"bad clock", "/api/activities", map[string]string{"title": "a", "day": "Lunes", "time": "25:99"}},
		{"bad date", "/api/payments", map[string]string{"description": "a", "amount": "5", "dueDate": "10/06/2024"}},
		{"bad category", "/api/payments", map[string]string{"description": "a", "amount": "5", "category": "luxury"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, s, "POST", tt.path, tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestActivitiesSortedByTime(t *testing.T) {
	s := setupServer(t)
	do(t, s, "POST", "/api/activities", map[string]string{"title": "Cena", "day": "Lunes", "time": "18:30"})
	do(t, s, "POST", "/api/activities", map[string]string{"title": "Gimnasio", "day": "Lunes", "time": "09:00"})

	var days []activityDay
	decode(t, do(t, s, "GET", "/api/activities", nil), &days)
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	monday := days[0].Activities
	if len(monday) != 2 || monday[0].Time != "09:00" || monday[1].Time != "18:30" {
		t.Errorf("Lunes = %+v", monday)
	}

	var toggled appliedResponse
	decode(t, do(t, s, "POST", "/api/activities/"+monday[0].ID+"/toggle", nil), &toggled)
	if !toggled.Applied {
		t.Error("toggle was not applied")
	}
	decode(t, do(t, s, "DELETE", "/api/activities/"+monday[1].ID, nil), &toggled)
	if !toggled.Applied {
		t.Error("delete was not applied")
	}
	decode(t, do(t, s, "GET", "/api/activities", nil), &days)
	if len(days[0].Activities) != 1 || !days[0].Activities[0].Completed {
		t.Errorf("Lunes after toggle and delete = %+v", days[0].Activities)
	}
}

func TestRentScenario(t *testing.T) {
	s := setupServer(t)

	resp := do(t, s, "POST", "/api/payments", map[string]interface{}{
		"description": "Alquiler", "amount": 500, "dueDate": "2024-06-12", "category": "fixedExpenses",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var added appliedResponse
	decode(t, resp, &added)

	var fin financesResponse
	decode(t, do(t, s, "GET", "/api/finances", nil), &fin)
	if !fin.FixedExpenses.Equal(decimal.NewFromInt(500)) {
		t.Errorf("fixedExpenses = %s, want 500", fin.FixedExpenses)
	}

	resp = do(t, s, "GET", "/api/payments", nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(raw), `"urgency":"due_soon"`) {
		t.Errorf("payments = %s, want due_soon urgency", raw)
	}

	var deleted appliedResponse
	decode(t, do(t, s, "DELETE", "/api/payments/"+added.Payment.ID, nil), &deleted)
	if !deleted.Applied {
		t.Fatal("delete was not applied")
	}
	decode(t, do(t, s, "GET", "/api/finances", nil), &fin)
	if !fin.FixedExpenses.IsZero() {
		t.Errorf("fixedExpenses = %s, want 0", fin.FixedExpenses)
	}
	resp = do(t, s, "GET", "/api/payments", nil)
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("payments body = %s, want []", raw)
	}
}

func TestSetFinanceAndBalance(t *testing.T) {
	s := setupServer(t)

	for field, v := range map[string]interface{}{"income": 1000, "fixedExpenses": "400", "variableExpenses": 250} {
		var got appliedResponse
		decode(t, do(t, s, "PUT", "/api/finances/"+field, map[string]interface{}{"value": v}), &got)
		if !got.Applied {
			t.Errorf("PUT %s not applied", field)
		}
	}

	var fin financesResponse
	decode(t, do(t, s, "GET", "/api/finances", nil), &fin)
	if !fin.Balance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("availableBalance = %s, want 350", fin.Balance)
	}

	resp := do(t, s, "PUT", "/api/finances/savings", map[string]interface{}{"value": 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown field status = %d, want 404", resp.StatusCode)
	}

	var missing appliedResponse
	decode(t, do(t, s, "PUT", "/api/finances/income", map[string]interface{}{}), &missing)
	if missing.Applied {
		t.Error("missing value was applied")
	}
}

func TestToggleUnknownID(t *testing.T) {
	s := setupServer(t)
	for _, path := range []string{"/api/tasks/nope/toggle", "/api/activities/nope/toggle", "/api/payments/nope/toggle"} {
		var got appliedResponse
		decode(t, do(t, s, "POST", path, nil), &got)
		if got.Applied {
			t.Errorf("POST %s applied for an unknown id", path)
		}
	}
}

func TestSummaryAndStatus(t *testing.T) {
	s := setupServer(t)
	do(t, s, "POST", "/api/payments", map[string]interface{}{
		"description": "Agua", "amount": "30", "dueDate": "2024-06-05", "category": "variable",
	})

	var summary ledger.Summary
	decode(t, do(t, s, "GET", "/api/summary", nil), &summary)
	if summary.Payments != 1 || summary.Overdue != 1 {
		t.Errorf("summary = %+v", summary)
	}

	var status struct {
		Text  string `json:"text"`
		Level string `json:"level"`
	}
	decode(t, do(t, s, "GET", "/api/status", nil), &status)
	if status.Text != "" {
		t.Errorf("status = %+v, want empty", status)
	}
}

func TestExportWorkbook(t *testing.T) {
	s := setupServer(t)
	do(t, s, "POST", "/api/tasks", map[string]string{"category": "Limpieza", "task": "Barrer"})

	resp := do(t, s, "GET", "/api/export", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "hogar-2024-06-10.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("PK")) {
		t.Error("body is not a zip container")
	}
}
