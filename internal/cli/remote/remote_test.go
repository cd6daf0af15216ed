package remote

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/sheets"
)

// fakeSheet serves a header row plus whatever was posted.
type fakeSheet struct {
	mu   sync.Mutex
	rows [][]string
	fail bool
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if r.Method == http.MethodPost {
		var row sheets.Row
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, []string{row.Category, row.Task, row.Responsible, row.AssignedDay})
		_, _ = w.Write([]byte(`{"ok":true}`))
		return
	}
	all := append([][]string{{"Categoría", "Tarea", "Responsable", "Día"}}, f.rows...)
	_ = json.NewEncoder(w).Encode(all)
}

func setupTestContext(t *testing.T, endpoint string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	t.Setenv(constants.EnvRemoteEndpoint, "")
	settings := config.Default()
	settings.Remote.Endpoint = endpoint
	var out bytes.Buffer
	return &cli.Context{Settings: settings, Out: &out}, &out
}

func TestRemoteAddThenList(t *testing.T) {
	sheet := &fakeSheet{}
	srv := httptest.NewServer(sheet)
	defer srv.Close()
	ctx, out := setupTestContext(t, srv.URL)

	add := &RemoteAddCmd{Task: "Barrer", Category: "Limpieza", Responsible: models.PartyB, Day: models.Miercoles}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Tarea enviada") || !strings.Contains(out.String(), "1 tareas en la hoja") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if got := sheet.rows[0]; got[2] != "Pollito" || got[3] != "Miércoles" {
		t.Errorf("posted row = %v", got)
	}

	out.Reset()
	if err := (&RemoteListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Limpieza · Barrer (Pollito)") {
		t.Errorf("unexpected list:\n%s", out.String())
	}
}

func TestRemoteAddBlankTask(t *testing.T) {
	sheet := &fakeSheet{}
	srv := httptest.NewServer(sheet)
	defer srv.Close()
	ctx, _ := setupTestContext(t, srv.URL)

	err := (&RemoteAddCmd{Task: " ", Category: "Limpieza", Responsible: models.PartyA}).Run(ctx)
	if err == nil {
		t.Fatal("blank task was sent")
	}
	if len(sheet.rows) != 0 {
		t.Errorf("sheet received %d rows", len(sheet.rows))
	}
}

func TestRemoteFailures(t *testing.T) {
	sheet := &fakeSheet{fail: true}
	srv := httptest.NewServer(sheet)
	defer srv.Close()

	tests := []struct {
		name     string
		endpoint string
		cmd      interface{ Run(*cli.Context) error }
		want     string
	}{
		{"list server error", srv.URL, &RemoteListCmd{}, "No se pudieron cargar las tareas remotas"},
		{"add server error", srv.URL, &RemoteAddCmd{Task: "Pan", Category: "Compras", Responsible: models.PartyA}, "No se pudo enviar la tarea"},
		{"no endpoint", "", &RemoteListCmd{}, sheets.ErrNoEndpoint.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t, tt.endpoint)
			err := tt.cmd.Run(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
