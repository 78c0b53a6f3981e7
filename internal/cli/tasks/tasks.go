package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/mantenix/internal/adapter"
	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/constants"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/reconciler"
	"github.com/julianstephens/mantenix/internal/session"
	"github.com/julianstephens/mantenix/internal/validation"
)

// open builds a session and fetches both sources. A failed source has
// already been reported through the notifier, so it only gets logged here.
func open(ctx *cli.Context) (*session.Session, *reconciler.Reconciler, error) {
	sess, rec, err := ctx.NewSession(notifier.NewTerminal(ctx.Writer()))
	if err != nil {
		return nil, nil, err
	}
	if err := sess.Refresh(context.Background()); err != nil {
		logger.Warn("Partial refresh", "error", err)
	}
	return sess, rec, nil
}

type FilterFlags struct {
	Origin   string `help:"Only tasks from this origin (all, agenda, regular)." default:"all" enum:"all,agenda,regular"`
	Status   string `help:"Only tasks with this status."`
	Priority string `help:"Only tasks with this priority."`
	Search   string `short:"q" help:"Case-insensitive match on title and description."`
	Overdue  bool   `help:"Only overdue tasks."`
	Today    bool   `help:"Only tasks due today."`
	Person   string `help:"Only tasks assigned to this person. Use 'Unassigned' for tasks without one."`
	Group    string `help:"Only tasks in this task group."`
}

func (f FilterFlags) Filter() aggregate.Filter {
	return aggregate.Filter{
		Origin:      f.Origin,
		Status:      f.Status,
		Priority:    f.Priority,
		Search:      f.Search,
		OnlyOverdue: f.Overdue,
		OnlyToday:   f.Today,
		Person:      f.Person,
		GroupID:     f.Group,
	}
}

func formatTask(t models.UnifiedTask) string {
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format(constants.DateFormat)
	}
	assignee := t.AssigneeName
	if assignee == "" {
		assignee = constants.UnassignedName
	}
	return fmt.Sprintf("  %-14s %-11s %-7s %-10s %-14s %s",
		t.Key(), t.Status, t.Priority, due, assignee, t.Title)
}

type ListCmd struct {
	FilterFlags
	JSON bool `help:"Print the view as JSON."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	sess, rec, err := open(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	view, err := sess.View(c.Filter())
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(view.Result)
	}

	if len(view.Tasks) == 0 {
		ctx.Println("No tasks found")
		return nil
	}
	ctx.Printf("Tasks (%d of %d; agenda %d, tasks %d):\n",
		len(view.Tasks), view.Counts.Total, view.Counts.Agenda, view.Counts.Regular)
	for _, t := range view.Tasks {
		ctx.Println(formatTask(t))
	}
	return nil
}

type StatusCmd struct {
	Origin string `arg:"" help:"Task origin (agenda or regular)." enum:"agenda,regular"`
	ID     string `arg:"" help:"Task id."`
	Status string `arg:"" help:"New status (pending, in_progress, waiting, completed, cancelled)."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	sess, rec, err := open(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	status := models.Status(strings.ToLower(strings.TrimSpace(c.Status)))
	return sess.ChangeStatus(context.Background(), models.Origin(c.Origin), models.ID(c.ID), status)
}

type AddCmd struct {
	Origin      string `arg:"" help:"Where to create the task (agenda or regular)." enum:"agenda,regular"`
	Title       string `arg:"" help:"Task title."`
	Description string `help:"Description."`
	Priority    string `help:"Priority (low, medium, high, urgent)." default:"medium"`
	Due         string `help:"Due date (YYYY-MM-DD or RFC 3339)."`
	Assignee    string `help:"Person the task is assigned to."`
	Group       string `help:"Task group id."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	origin := models.Origin(c.Origin)
	priority := models.Priority(strings.ToLower(strings.TrimSpace(c.Priority)))
	if err := validation.NewTask(origin, c.Title, priority, c.Due, loc).Err("add task"); err != nil {
		return err
	}

	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	title := strings.TrimSpace(c.Title)
	due := strings.TrimSpace(c.Due)

	var id models.ID
	switch origin {
	case models.OriginAgenda:
		created, err := client.CreateAgendaTask(context.Background(), models.AgendaTask{
			Title:          title,
			Description:    c.Description,
			Status:         adapter.AgendaStatus(models.StatusPending),
			Priority:       adapter.AgendaPriority(priority),
			DueDate:        due,
			AssignedToName: c.Assignee,
			GroupID:        models.ID(c.Group),
		})
		if err != nil {
			return fmt.Errorf("failed to create agenda task: %w", err)
		}
		id = created.ID
	default:
		created, err := client.CreateRegularTask(context.Background(), models.RegularTask{
			Title:       title,
			Description: c.Description,
			Status:      string(models.StatusPending),
			Priority:    string(priority),
			DueDate:     due,
			Assignee:    c.Assignee,
			GroupID:     models.ID(c.Group),
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		id = created.ID
	}
	ctx.Printf("✓ Task created: %s (%s)\n", title, models.TaskKey(origin, id))
	return nil
}

type DeleteCmd struct {
	Origin string `arg:"" help:"Task origin (agenda or regular)." enum:"agenda,regular"`
	ID     string `arg:"" help:"Task id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	id := models.ID(strings.TrimSpace(c.ID))
	if id == "" {
		return apperrors.Validation("delete task", "task id is required")
	}
	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	origin := models.Origin(c.Origin)
	if origin == models.OriginAgenda {
		err = client.DeleteAgendaTask(context.Background(), id)
	} else {
		err = client.DeleteRegularTask(context.Background(), id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", models.TaskKey(origin, id), err)
	}
	ctx.Printf("✓ Task %s deleted\n", models.TaskKey(origin, id))
	return nil
}

type BoardCmd struct {
	FilterFlags
}

func (c *BoardCmd) Run(ctx *cli.Context) error {
	sess, rec, err := open(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	view, err := sess.View(c.Filter())
	if err != nil {
		return err
	}
	for _, col := range aggregate.GroupByStatus(view.Tasks) {
		ctx.Printf("%s (%d)\n", strings.ToUpper(string(col.Status)), len(col.Tasks))
		for _, t := range col.Tasks {
			ctx.Println(formatTask(t))
		}
		ctx.Println()
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	sess, rec, err := open(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	view, err := sess.View(aggregate.Filter{})
	if err != nil {
		return err
	}
	s := view.Summary
	ctx.Println("Unified view:")
	ctx.Printf("  Total:           %d (agenda %d, tasks %d)\n", view.Counts.Total, view.Counts.Agenda, view.Counts.Regular)
	ctx.Printf("  Pending:         %d\n", s.Pending)
	ctx.Printf("  In progress:     %d\n", s.InProgress)
	ctx.Printf("  Overdue:         %d\n", s.Overdue)
	ctx.Printf("  Completed today: %d\n", s.CompletedToday)

	client, err := ctx.Backend()
	if err != nil {
		return err
	}
	stats, err := client.GetAgendaStats(context.Background())
	if err != nil {
		ctx.Printf("\nAgenda stats unavailable: %v\n", err)
		return nil
	}
	ctx.Println("\nAgenda (backend):")
	ctx.Printf("  Total:           %d\n", stats.TotalTasks)
	ctx.Printf("  Pending:         %d\n", stats.PendingTasks)
	ctx.Printf("  In progress:     %d\n", stats.InProgressTasks)
	ctx.Printf("  Completed:       %d\n", stats.CompletedTasks)
	ctx.Printf("  Overdue:         %d\n", stats.OverdueTasks)
	ctx.Printf("  Due today:       %d\n", stats.DueToday)
	ctx.Printf("  Completion rate: %.0f%%\n", stats.CompletionRate)
	return nil
}

type GroupsCmd struct{}

func (c *GroupsCmd) Run(ctx *cli.Context) error {
	sess, rec, err := open(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	view, err := sess.View(aggregate.Filter{})
	if err != nil {
		return err
	}
	if len(view.Groups) == 0 {
		ctx.Println("No task groups found")
		return nil
	}
	ctx.Println("Task groups:")
	for _, g := range view.Groups {
		ctx.Printf("  %-20s %3d tasks  %3d pending  %3d in progress  %3d overdue  %3d done today  (%s)\n",
			g.Name, g.TotalTasks, g.PendingTasks, g.InProgress, g.OverdueTasks, g.CompletedToday, g.ID)
	}
	return nil
}
