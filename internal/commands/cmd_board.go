package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/view"
)

type BoardCmd struct {
	flags *Flags
}

// NewBoardCmd creates a new board command
func NewBoardCmd(flags *Flags) *BoardCmd {
	return &BoardCmd{flags: flags}
}

// Register adds the board command group to the application
func (cmd *BoardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "board",
		Usage:     "Save or reload the board file",
		UsageText: "taskboard board <save|reload>",
		Commands: []*cli.Command{
			{
				Name:   "save",
				Usage:  "Write the board to its backing file",
				Action: cmd.runSave,
			},
			{
				Name:   "reload",
				Usage:  "Re-read the board from its backing file",
				Action: cmd.runReload,
			},
		},
	})

	return app
}

func (cmd *BoardCmd) runSave(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	path, err := ctrl.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Board saved to %s\n", path)
	return nil
}

func (cmd *BoardCmd) runReload(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	if err := ctrl.Reload(ctx); err != nil {
		return err
	}

	derived := ctrl.Derived()
	fmt.Fprintf(c.Root().Writer, "Board reloaded: %d tasks, %d statuses\n",
		len(derived.Tasks), len(derived.Statuses))
	return nil
}
