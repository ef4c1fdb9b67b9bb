package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/core/workload"
	"github.com/colonyops/taskboard/pkg/iojson"
)

type WorkloadCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewWorkloadCmd creates a new workload command
func NewWorkloadCmd(flags *Flags) *WorkloadCmd {
	return &WorkloadCmd{flags: flags}
}

// Register adds the workload command to the application
func (cmd *WorkloadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "workload",
		Usage:     "Show per-assignee workload",
		UsageText: "taskboard workload [--json]",
		Description: `Aggregates the visible tasks per assignee: totals, a status breakdown,
and due-risk counts. Assignees whose in-progress load crosses the
configured threshold are marked with "!".`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WorkloadCmd) run(ctx context.Context, c *cli.Command) error {
	ctrl, err := cmd.flags.App.Controller(ctx, view.KeyKanban)
	if err != nil {
		return err
	}

	derived := ctrl.Derived()
	summary := derived.Workload
	if len(summary.Assignees) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No tasks found\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, summary)
	}

	opts := workload.Options{
		InProgressKeywords: cmd.flags.Config.Workload.InProgressKeywords,
		HighlightThreshold: cmd.flags.Config.Workload.HighlightThreshold,
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	header := "ASSIGNEE\tTOTAL"
	for _, status := range summary.Statuses {
		header += "\t" + status
	}
	header += "\tWARN\tOVERDUE"
	_, _ = fmt.Fprintln(w, header)

	for _, entry := range summary.Assignees {
		label := entry.Label
		if workload.Highlight(entry, opts) {
			label += " !"
		}
		row := fmt.Sprintf("%s\t%d", label, entry.Total)
		for _, status := range summary.Statuses {
			row += fmt.Sprintf("\t%d", entry.StatusCounts[status])
		}
		row += fmt.Sprintf("\t%d\t%d", entry.Due.Warning, entry.Due.Overdue)
		_, _ = fmt.Fprintln(w, row)
	}
	return w.Flush()
}
