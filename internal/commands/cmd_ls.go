package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/filter"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	assignee   string
	keyword    string
	status     string
	dueBefore  string
	dueAfter   string
	grouped    bool
	preset     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "taskboard ls [--assignee NAME] [--status LABEL] [--keyword TEXT] [--group] [--json]",
		Description: `Displays tasks filtered and sorted the same way the list view shows them.

Use --group for the major/minor category tree, --json for machine-readable
output. --assignee accepts a name or "unassigned".`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output tasks as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "filter by assignee (use \"unassigned\" for tasks without one)",
				Destination: &cmd.assignee,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "show only this status",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "keyword",
				Aliases:     []string{"k"},
				Usage:       "keyword match against title and notes",
				Destination: &cmd.keyword,
			},
			&cli.StringFlag{
				Name:        "due-before",
				Usage:       "only tasks due on or before YYYY-MM-DD",
				Destination: &cmd.dueBefore,
			},
			&cli.StringFlag{
				Name:        "due-after",
				Usage:       "only tasks due on or after YYYY-MM-DD",
				Destination: &cmd.dueAfter,
			},
			&cli.BoolFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "group output by major and minor category",
				Destination: &cmd.grouped,
			},
			&cli.StringFlag{
				Name:        "preset",
				Usage:       "apply a saved filter preset before listing",
				Destination: &cmd.preset,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyList)
	if err != nil {
		return err
	}

	if cmd.preset != "" {
		if !ctrl.ApplyPreset(cmd.preset) {
			return fmt.Errorf("preset %q not found", cmd.preset)
		}
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
	switch {
	case cmd.dueBefore != "" && cmd.dueAfter != "":
		ctrl.SetDueFilter(filter.DueFilter{Mode: filter.DueModeRange, From: cmd.dueAfter, To: cmd.dueBefore})
	case cmd.dueBefore != "":
		ctrl.SetDueFilter(filter.DueFilter{Mode: filter.DueModeBefore, From: cmd.dueBefore})
	case cmd.dueAfter != "":
		ctrl.SetDueFilter(filter.DueFilter{Mode: filter.DueModeAfter, From: cmd.dueAfter})
	}

	derived := ctrl.Derived()
	if len(derived.Sorted) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No tasks found\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, derived.Sorted)
	}

	if cmd.grouped {
		return cmd.printGrouped(out, derived)
	}
	return cmd.printTable(out, derived.Sorted)
}

func (cmd *LsCmd) printTable(out io.Writer, tasks []task.Task) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NO\tSTATUS\tTITLE\tASSIGNEE\tPRIORITY\tDUE")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.No, task.NormalizeStatusLabel(t.Status), t.Title, t.Assignee, t.Priority, t.DueDate)
	}
	return w.Flush()
}

func (cmd *LsCmd) printGrouped(out io.Writer, derived view.Derived) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, major := range derived.Groups {
		_, _ = fmt.Fprintf(w, "%s (%d)\n", major.Label, major.Count)
		for _, minor := range major.Minors {
			_, _ = fmt.Fprintf(w, "  %s (%d)\n", minor.Label, len(minor.Tasks))
			for _, t := range minor.Tasks {
				_, _ = fmt.Fprintf(w, "    %d\t%s\t%s\t%s\t%s\n",
					t.No, task.NormalizeStatusLabel(t.Status), t.Title, t.Assignee, t.DueDate)
			}
		}
	}
	return w.Flush()
}
