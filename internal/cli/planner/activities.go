package planner

import (
	"fmt"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

type ActivityAddCmd struct {
	Title       string         `arg:"" help:"Activity title."`
	Day         models.Weekday `short:"d" help:"Day of the week (Lunes..Domingo)." required:""`
	Time        string         `short:"t" help:"Time of day (HH:MM)." required:""`
	Description string         `help:"Optional details."`
	Responsible models.Party   `short:"r" help:"Pollita, Pollito or Ambos." default:"Pollita"`
}

func (c *ActivityAddCmd) Validate() error {
	if _, err := utils.ParseTime(c.Time); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return nil
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	activity, ok := sess.AddActivity(ledger.NewActivity{
		Title:       c.Title,
		Description: c.Description,
		Day:         c.Day,
		Time:        c.Time,
		Responsible: c.Responsible,
	})
	if !ok {
		return fmt.Errorf("activity not added: title, day and time are required")
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Added activity %s: %s %s %s\n", activity.ID, activity.Day, activity.Time, activity.Title)
	return nil
}

type ActivityToggleCmd struct {
	ID string `arg:"" help:"Activity ID."`
}

func (c *ActivityToggleCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.ToggleActivity(c.ID) {
		return fmt.Errorf("activity not found: %s", c.ID)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Toggled activity %s\n", c.ID)
	return nil
}

type ActivityDeleteCmd struct {
	ID string `arg:"" help:"Activity ID."`
}

func (c *ActivityDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.DeleteActivity(c.ID) {
		return fmt.Errorf("activity not found: %s", c.ID)
	}
	if err := ctx.Saved(); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted activity %s\n", c.ID)
	return nil
}

// ActivityListCmd prints the week, every day in order, with each day's
// activities by time.
type ActivityListCmd struct {
	ShowIDs bool `help:"Show activity IDs."`
}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	week := sess.Week()
	today := sess.Today().Weekday()

	for _, d := range models.Weekdays {
		title := d.String()
		if d == today {
			title += " (hoy)"
		}
		ctx.Println(title)
		activities := week.Day(d)
		if len(activities) == 0 {
			ctx.Println("  Sin actividades")
			continue
		}
		for _, a := range activities {
			line := fmt.Sprintf("  %s %s %s (%s)", cli.Checkbox(a.Completed), a.Time, a.Title, a.Responsible)
			if a.Description != "" {
				line += " · " + a.Description
			}
			if c.ShowIDs {
				line += "  " + a.ID
			}
			ctx.Println(line)
		}
	}
	return nil
}
