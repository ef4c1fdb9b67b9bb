package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/filter"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
)

type PresetCmd struct {
	flags *Flags

	// flags
	viewKey  string
	assignee string
	keyword  string
	status   string
}

// NewPresetCmd creates a new preset command
func NewPresetCmd(flags *Flags) *PresetCmd {
	return &PresetCmd{flags: flags}
}

// Register adds the preset command group to the application
func (cmd *PresetCmd) Register(app *cli.Command) *cli.Command {
	viewFlag := &cli.StringFlag{
		Name:        "view",
		Usage:       "view key the preset belongs to (kanban-board, list, calendar, timeline)",
		Value:       string(view.KeyKanban),
		Destination: &cmd.viewKey,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "preset",
		Usage:     "Manage saved filter presets",
		UsageText: "taskboard preset <ls|save|rm> [options]",
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "List presets for a view",
				Flags:  []cli.Flag{viewFlag},
				Action: cmd.runLs,
			},
			{
				Name:      "save",
				Usage:     "Save a filter combination as a preset",
				UsageText: "taskboard preset save <name> [--assignee NAME] [--keyword TEXT] [--status LABEL]",
				Flags: []cli.Flag{
					viewFlag,
					&cli.StringFlag{
						Name:        "assignee",
						Aliases:     []string{"a"},
						Usage:       "assignee filter to store",
						Destination: &cmd.assignee,
					},
					&cli.StringFlag{
						Name:        "keyword",
						Aliases:     []string{"k"},
						Usage:       "keyword filter to store",
						Destination: &cmd.keyword,
					},
					&cli.StringFlag{
						Name:        "status",
						Aliases:     []string{"s"},
						Usage:       "restrict the stored status set to this status",
						Destination: &cmd.status,
					},
				},
				Action: cmd.runSave,
			},
			{
				Name:      "rm",
				Usage:     "Remove a preset",
				UsageText: "taskboard preset rm <name>",
				Flags:     []cli.Flag{viewFlag},
				Action:    cmd.runRm,
			},
		},
	})

	return app
}

func (cmd *PresetCmd) runLs(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.Key(cmd.viewKey))
	if err != nil {
		return err
	}

	loaded := ctrl.Presets()
	if len(loaded.Presets) == 0 {
		fmt.Fprintf(os.Stderr, "No presets for view %s\n", cmd.viewKey)
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tUPDATED\tLAST APPLIED")
	for _, p := range loaded.Presets {
		applied := "-"
		if p.LastAppliedAt > 0 {
			applied = time.UnixMilli(p.LastAppliedAt).Format("2006-01-02 15:04")
		}
		marker := ""
		if loaded.LastApplied != nil && loaded.LastApplied.Name == p.Name {
			marker = " *"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\t%s\n",
			p.Name, marker,
			time.UnixMilli(p.UpdatedAt).Format("2006-01-02 15:04"),
			applied)
	}
	return w.Flush()
}

func (cmd *PresetCmd) runSave(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: taskboard preset save <name>")
	}
	name := c.Args().First()

	ctrl, err := cmd.flags.App.Controller(ctx, view.Key(cmd.viewKey))
	if err != nil {
		return err
	}

	if cmd.assignee != "" {
		if cmd.assignee == "unassigned" {
			ctrl.SetAssignee(filter.AssigneeUnassigned)
		} else {
			ctrl.SetAssignee(cmd.assignee)
		}
	}
	if cmd.keyword != "" {
		ctrl.SetKeyword(cmd.keyword)
	}
	if cmd.status != "" {
		ctrl.SetStatuses(task.NormalizeStatusLabel(cmd.status))
	}

	result, err := ctrl.SavePreset(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Preset %q saved for view %s\n", result.Saved.Name, cmd.viewKey)
	return nil
}

func (cmd *PresetCmd) runRm(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: taskboard preset rm <name>")
	}
	name := c.Args().First()

	ctrl, err := cmd.flags.App.Controller(ctx, view.Key(cmd.viewKey))
	if err != nil {
		return err
	}

	if !ctrl.RemovePreset(name) {
		fmt.Fprintf(os.Stderr, "Preset %q not found\n", name)
		return nil
	}

	fmt.Fprintf(c.Root().Writer, "Preset %q removed\n", name)
	return nil
}
