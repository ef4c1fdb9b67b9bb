package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
)

type MvCmd struct {
	flags *Flags
}

// NewMvCmd creates a new mv command
func NewMvCmd(flags *Flags) *MvCmd {
	return &MvCmd{flags: flags}
}

// Register adds the mv command to the application
func (cmd *MvCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "mv",
		Usage:     "Move a task to another status",
		UsageText: "taskboard mv <no> <status>",
		Description: `Changes a task's status, the command-line equivalent of dragging a card
between kanban columns. Use "` + task.UnsetStatusLabel + `" to clear the status.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *MvCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: taskboard mv <no> <status>")
	}
	no, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid task number %q", c.Args().First())
	}
	status := c.Args().Get(1)

	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	if err := ctrl.MoveTask(ctx, no, status); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Task %d moved to %s\n", no, task.NormalizeStatusLabel(status))
	return nil
}
