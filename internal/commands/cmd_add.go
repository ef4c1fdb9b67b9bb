package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validate"
	"github.com/colonyops/taskboard/internal/core/validation"
	"github.com/colonyops/taskboard/internal/core/view"
)

type AddCmd struct {
	flags *Flags

	// Command-specific flags
	title    string
	status   string
	major    string
	minor    string
	assignee string
	priority string
	due      string
	notes    string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "taskboard add [options]",
		Description: `Creates a task on the board.

When --title is omitted, an interactive form prompts for input with
suggestions drawn from the board's validation sets.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "task title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "initial status",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "major",
				Usage:       "major category",
				Destination: &cmd.major,
			},
			&cli.StringFlag{
				Name:        "minor",
				Usage:       "minor category",
				Destination: &cmd.minor,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "assignee name",
				Destination: &cmd.assignee,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority value",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "notes",
				Usage:       "free-form notes",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	if cmd.title == "" {
		derived := ctrl.Derived()
		sets, err := cmd.flags.App.Store.GetValidationSets(ctx)
		if err != nil {
			return fmt.Errorf("get validation sets: %w", err)
		}
		if err := cmd.runForm(derived, sets); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	created, err := ctrl.AddTask(ctx, task.Task{
		Title:         cmd.title,
		Status:        cmd.status,
		MajorCategory: cmd.major,
		MinorCategory: cmd.minor,
		Assignee:      cmd.assignee,
		Priority:      cmd.priority,
		DueDate:       cmd.due,
		Notes:         cmd.notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Task %d created: %s\n", created.No, created.Title)
	return nil
}

func (cmd *AddCmd) runForm(derived view.Derived, sets validation.Sets) error {
	statusOptions := make([]huh.Option[string], 0, len(derived.Statuses)+1)
	statusOptions = append(statusOptions, huh.NewOption("(未設定)", ""))
	for _, s := range derived.Statuses {
		if s == task.UnsetStatusLabel {
			continue
		}
		statusOptions = append(statusOptions, huh.NewOption(s, s))
	}

	priorities := task.PriorityOptions(sets.Values(validation.FieldPriority))
	priorityOptions := make([]huh.Option[string], 0, len(priorities)+1)
	priorityOptions = append(priorityOptions, huh.NewOption("(なし)", ""))
	for _, p := range priorities {
		priorityOptions = append(priorityOptions, huh.NewOption(p, p))
	}
	if cmd.priority == "" {
		cmd.priority = task.DefaultPriorityValue(priorities)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validate.TaskTitle).
				Value(&cmd.title),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&cmd.status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&cmd.priority),
			huh.NewInput().
				Title("Assignee").
				Value(&cmd.assignee),
			huh.NewInput().
				Title("Major category").
				Value(&cmd.major),
			huh.NewInput().
				Title("Minor category").
				Value(&cmd.minor),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, empty for none").
				Validate(validate.ISODate).
				Value(&cmd.due),
			huh.NewText().
				Title("Notes").
				Value(&cmd.notes),
		),
	).Run()
}
