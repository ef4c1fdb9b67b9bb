package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validate"
	"github.com/colonyops/taskboard/internal/core/view"
)

type EditCmd struct {
	flags *Flags
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "edit",
		Usage:       "Edit a task",
		UsageText:   "taskboard edit <no>",
		Description: `Opens an interactive form pre-filled with the task's current fields.`,
		Action:      cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: taskboard edit <no>")
	}
	no, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid task number %q", c.Args().First())
	}

	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	var current *task.Task
	for _, t := range ctrl.Derived().Tasks {
		if t.No == no {
			t := t
			current = &t
			break
		}
	}
	if current == nil {
		return board.ErrNotFound
	}

	edited := *current
	if err := cmd.runForm(ctrl.Derived(), &edited); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	patch := diffPatch(*current, edited)
	updated, err := ctrl.UpdateTask(ctx, no, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Task %d updated: %s\n", updated.No, updated.Title)
	return nil
}

func (cmd *EditCmd) runForm(derived view.Derived, t *task.Task) error {
	statusOptions := make([]huh.Option[string], 0, len(derived.Statuses)+1)
	statusOptions = append(statusOptions, huh.NewOption("(未設定)", ""))
	for _, s := range derived.Statuses {
		if s == task.UnsetStatusLabel {
			continue
		}
		statusOptions = append(statusOptions, huh.NewOption(s, s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validate.TaskTitle).
				Value(&t.Title),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&t.Status),
			huh.NewInput().
				Title("Priority").
				Value(&t.Priority),
			huh.NewInput().
				Title("Assignee").
				Value(&t.Assignee),
			huh.NewInput().
				Title("Major category").
				Value(&t.MajorCategory),
			huh.NewInput().
				Title("Minor category").
				Value(&t.MinorCategory),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, empty for none").
				Validate(validate.ISODate).
				Value(&t.DueDate),
			huh.NewText().
				Title("Notes").
				Value(&t.Notes),
		),
	).Run()
}

// diffPatch builds a patch holding only the fields that changed.
func diffPatch(before, after task.Task) task.Patch {
	var patch task.Patch
	if after.Title != before.Title {
		patch.Title = &after.Title
	}
	if after.Status != before.Status {
		patch.Status = &after.Status
	}
	if after.MajorCategory != before.MajorCategory {
		patch.MajorCategory = &after.MajorCategory
	}
	if after.MinorCategory != before.MinorCategory {
		patch.MinorCategory = &after.MinorCategory
	}
	if after.Assignee != before.Assignee {
		patch.Assignee = &after.Assignee
	}
	if after.Priority != before.Priority {
		patch.Priority = &after.Priority
	}
	if after.DueDate != before.DueDate {
		patch.DueDate = &after.DueDate
	}
	if after.Notes != before.Notes {
		patch.Notes = &after.Notes
	}
	return patch
}
