package sheets

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
)

// Notifier receives the transient status of each remote call.
type Notifier interface {
	Notify(level session.Level, text string)
}

// Remote applies the session status discipline to a Client: failures become
// a transient message and never propagate, a successful add is confirmed and
// followed by a full reload. There are no retries.
type Remote struct {
	client   *Client
	notifier Notifier

	mu   sync.Mutex
	rows []Row
}

func NewRemote(client *Client, notifier Notifier) *Remote {
	return &Remote{client: client, notifier: notifier, rows: []Row{}}
}

// Reload fetches every row. On failure the previous rows are kept.
func (r *Remote) Reload(ctx context.Context) bool {
	rows, err := r.client.FetchTasks(ctx)
	if err != nil {
		logger.Error("Failed to load remote tasks", "error", err)
		r.notifier.Notify(session.LevelError, "No se pudieron cargar las tareas remotas")
		return false
	}
	r.mu.Lock()
	r.rows = rows
	r.mu.Unlock()
	logger.Debug("Remote tasks loaded", "rows", len(rows))
	return true
}

// Add appends a row. A row missing category or task is a silent no-op, as
// for local tasks.
func (r *Remote) Add(ctx context.Context, row Row) bool {
	row.Category = strings.TrimSpace(row.Category)
	row.Task = strings.TrimSpace(row.Task)
	if row.Category == "" || row.Task == "" {
		return false
	}
	if err := r.client.AddTask(ctx, row); err != nil {
		logger.Error("Failed to add remote task", "error", err)
		r.notifier.Notify(session.LevelError, "No se pudo enviar la tarea")
		return false
	}
	r.notifier.Notify(session.LevelSuccess, "Tarea enviada")
	r.Reload(ctx)
	return true
}

func (r *Remote) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Row{}, r.rows...)
}

// Tasks maps the cached rows to tasks with positional ids.
func (r *Remote) Tasks() []models.Task {
	rows := r.Rows()
	tasks := make([]models.Task, 0, len(rows))
	for i, row := range rows {
		tasks = append(tasks, row.ToTask("row-"+strconv.Itoa(i+1)))
	}
	return tasks
}
