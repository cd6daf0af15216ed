package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
	"github.com/julianstephens/hogar/internal/sheets"
)

// printer prints successful remote calls and keeps the last failure for the
// command to return.
type printer struct {
	ctx    *cli.Context
	failed string
}

func (p *printer) Notify(level session.Level, text string) {
	if level == session.LevelError {
		p.failed = text
		return
	}
	p.ctx.Printf("✓ %s\n", text)
}

func (p *printer) err() error {
	if p.failed == "" {
		return errors.New("remote request failed")
	}
	return errors.New(p.failed)
}

func open(ctx *cli.Context) (*sheets.Remote, *printer, error) {
	client, err := sheets.NewClient(ctx.Settings.RemoteEndpoint(), ctx.Settings.RemoteTimeout())
	if err != nil {
		return nil, nil, err
	}
	p := &printer{ctx: ctx}
	return sheets.NewRemote(client, p), p, nil
}

type RemoteListCmd struct{}

func (c *RemoteListCmd) Run(ctx *cli.Context) error {
	remote, p, err := open(ctx)
	if err != nil {
		return err
	}
	if !remote.Reload(context.Background()) {
		return p.err()
	}

	tasks := remote.Tasks()
	if len(tasks) == 0 {
		ctx.Println("No hay tareas remotas.")
		return nil
	}
	for _, t := range tasks {
		day := "Sin asignar"
		if t.AssignedDay.Valid() {
			day = t.AssignedDay.String()
		}
		ctx.Printf("%-12s %s · %s (%s)\n", day, t.Category, t.Description, t.Responsible)
	}
	return nil
}

type RemoteAddCmd struct {
	Task        string         `arg:"" help:"What needs doing."`
	Category    string         `short:"c" help:"Task category." required:""`
	Responsible models.Party   `short:"r" help:"Pollita, Pollito or Ambos." default:"Pollita"`
	Day         models.Weekday `short:"d" help:"Assigned day (Lunes..Domingo)."`
}

func (c *RemoteAddCmd) Run(ctx *cli.Context) error {
	remote, p, err := open(ctx)
	if err != nil {
		return err
	}
	row := sheets.Row{
		Category:    c.Category,
		Task:        c.Task,
		Responsible: c.Responsible.String(),
	}
	if c.Day.Valid() {
		row.AssignedDay = c.Day.String()
	}
	if !remote.Add(context.Background(), row) {
		if p.failed == "" {
			return fmt.Errorf("task not sent: category and task are required")
		}
		return p.err()
	}
	ctx.Printf("%d tareas en la hoja\n", len(remote.Rows()))
	return nil
}
