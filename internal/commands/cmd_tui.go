package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive board",
		UsageText: "taskboard tui",
		Action:    cmd.Run,
	})

	return app
}

// Run starts the TUI. Also used as the default action when taskboard is
// invoked with no subcommand.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	model, err := tui.New(ctx, cmd.flags.App)
	if err != nil {
		return fmt.Errorf("init tui: %w", err)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
