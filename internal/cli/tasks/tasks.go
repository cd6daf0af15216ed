package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
)

type TaskAddCmd struct {
	Description string         `arg:"" help:"What needs doing."`
	Category    string         `short:"c" help:"Task category (e.g. Limpieza)." required:""`
	Responsible models.Party   `short:"r" help:"Pollita, Pollito or Ambos." default:"Pollita"`
	Day         models.Weekday `short:"d" help:"Assigned day (Lunes..Domingo). Omit to leave unassigned."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	task, ok := sess.AddTask(ledger.NewTask{
		Category:    c.Category,
		Description: c.Description,
		Responsible: c.Responsible,
		AssignedDay: c.Day,
	})
	if !ok {
		return fmt.Errorf("task not added: category and description are required")
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Added task %s: %s · %s\n", task.ID, task.Category, task.Description)
	return nil
}

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.ToggleTask(c.ID) {
		return fmt.Errorf("task not found: %s", c.ID)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Toggled task %s\n", c.ID)
	return nil
}

type TaskListCmd struct {
	Responsible string `short:"r" help:"Only tasks for Pollita, Pollito or Ambos."`
	Search      string `short:"s" help:"Case-insensitive match on category or description."`
	ShowIDs     bool   `help:"Show task IDs."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	filter := ledger.TaskFilter{Search: c.Search}
	if r := strings.TrimSpace(c.Responsible); r != "" && !strings.EqualFold(r, "todos") {
		party, err := models.ParseParty(r)
		if err != nil {
			return err
		}
		filter.Responsible = party
	}

	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	board := sess.Tasks(filter)
	if board.Len() == 0 {
		ctx.Println("No hay tareas.")
		return nil
	}

	group := func(title string, tasks []models.Task) {
		if len(tasks) == 0 {
			return
		}
		ctx.Println(title)
		for _, t := range tasks {
			line := fmt.Sprintf("  %s %s · %s (%s)", cli.Checkbox(t.Completed), t.Category, t.Description, t.Responsible)
			if c.ShowIDs {
				line += "  " + t.ID
			}
			ctx.Println(line)
		}
	}
	group("Sin asignar", board.Unassigned)
	for _, d := range models.Weekdays {
		group(d.String(), board.Day(d))
	}
	return nil
}
