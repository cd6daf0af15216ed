package data

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/config"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "hogar.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	n := 0
	var out bytes.Buffer
	return &cli.Context{
		Store:    store,
		Settings: config.Default(),
		Out:      &out,
		Now:      func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}, &out
}

func TestExportCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	sess, err := ctx.Session()
	if err != nil {
		t.Fatal(err)
	}
	sess.AddTask(ledger.NewTask{Category: "Limpieza", Description: "Barrer"})
	sess.AddPayment(ledger.NewPayment{Description: "Luz", Amount: decimal.NewFromInt(40), DueDate: models.NewDate(2024, time.June, 5)})

	dest := filepath.Join(t.TempDir(), "hogar.xlsx")
	if err := (&ExportCmd{File: dest}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("export is not a zip container")
	}
	if !strings.Contains(out.String(), "✓ Exported to "+dest) {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestExportCmd_Validate(t *testing.T) {
	tests := []struct {
		file    string
		wantErr bool
	}{
		{"hogar.xlsx", false},
		{"HOGAR.XLSX", false},
		{"hogar.csv", true},
		{"hogar", true},
	}
	for _, tt := range tests {
		if err := (&ExportCmd{File: tt.file}).Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
		}
	}
}

func TestImportCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	// Local storage keeps every value as a JSON string.
	dump := `{
		"familyTasks": "[{\"id\":\"1\",\"category\":\"Compras\",\"description\":\"Pan\",\"responsible\":\"Pollito\",\"completed\":true}]",
		"familyFinances": {"income": "1000", "fixedExpenses": "400", "variableExpenses": "250"},
		"unrelated": "ignored"
	}`
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(dump), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Imported 2 collections") {
		t.Errorf("unexpected output: %q", out.String())
	}

	sess, err := ctx.Session()
	if err != nil {
		t.Fatal(err)
	}
	tasks := sess.Tasks(ledger.TaskFilter{}).Unassigned
	if len(tasks) != 1 || !tasks[0].Completed || tasks[0].Responsible != models.PartyB {
		t.Errorf("imported tasks = %+v", tasks)
	}
	if !sess.Balance().Equal(decimal.NewFromInt(350)) {
		t.Errorf("balance = %s, want 350", sess.Balance())
	}
}

func TestImportCmd_NothingToImport(t *testing.T) {
	ctx, out := setupTestContext(t)
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(`{"other":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := (&ImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No hogar data found") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
