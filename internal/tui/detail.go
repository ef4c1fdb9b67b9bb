package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/task"
)

// renderDetail renders the selected task as a markdown overlay.
func (m *Model) renderDetail() string {
	t := m.selectedTask()
	if t == nil {
		return ""
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# #%d %s\n\n", t.No, t.Title)
	fmt.Fprintf(&md, "| | |\n|---|---|\n")
	fmt.Fprintf(&md, "| ステータス | %s |\n", task.NormalizeStatusLabel(t.Status))
	fmt.Fprintf(&md, "| 大分類 | %s |\n", orDash(t.MajorCategory))
	fmt.Fprintf(&md, "| 中分類 | %s |\n", orDash(t.MinorCategory))
	fmt.Fprintf(&md, "| 担当者 | %s |\n", orDash(t.Assignee))
	fmt.Fprintf(&md, "| 優先度 | %s |\n", orDash(t.Priority))

	due := orDash(t.DueDate)
	if state, ok := task.DueState(*t, time.Now()); ok {
		due = fmt.Sprintf("%s (%s)", t.DueDate, state.Label)
	}
	fmt.Fprintf(&md, "| 期限 | %s |\n", due)

	if strings.TrimSpace(t.Notes) != "" {
		fmt.Fprintf(&md, "\n## 備考\n\n%s\n", t.Notes)
	}

	width := maxInt(40, minInt(m.width-8, 100))
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("create glamour renderer")
		return overlayStyle.Render(md.String())
	}

	out, err := renderer.Render(md.String())
	if err != nil {
		log.Debug().Err(err).Msg("render task detail")
		return overlayStyle.Render(md.String())
	}
	return overlayStyle.Render(strings.TrimRight(out, "\n"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
