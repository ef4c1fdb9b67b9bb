package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/view"
)

type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a task",
		UsageText: "taskboard rm <no>",
		Action:    cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: taskboard rm <no>")
	}
	no, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid task number %q", c.Args().First())
	}

	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	if err := ctrl.DeleteTask(ctx, no); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Task %d deleted\n", no)
	return nil
}
