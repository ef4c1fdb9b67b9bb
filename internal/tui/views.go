package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskboard/internal/core/sorting"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/core/workload"
)

var viewTitles = map[view.Key]string{
	view.KeyKanban:   "Kanban",
	view.KeyList:     "List",
	view.KeyCalendar: "Calendar",
	view.KeyTimeline: "Timeline",
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.keyword.View())
		b.WriteString("\n")
	}

	var body string
	switch m.activeKey() {
	case view.KeyKanban:
		body = m.renderKanban()
	case view.KeyList:
		body = m.renderList()
	case view.KeyCalendar:
		body = m.renderCalendar()
	case view.KeyTimeline:
		body = m.renderTimeline()
	}

	if m.showDetail {
		if overlay := m.renderDetail(); overlay != "" {
			body = overlay
		}
	}

	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderWorkloadStrip())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(view.Keys))
	for i, key := range view.Keys {
		style := tabStyle
		if i == m.viewIdx {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, viewTitles[key])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func dueLabel(t task.Task, today time.Time) string {
	state, ok := task.DueState(t, today)
	if !ok {
		return ""
	}
	switch state.Level {
	case task.DueOverdue:
		return overdueStyle.Render(state.Label)
	case task.DueWarning:
		return warningStyle.Render(state.Label)
	default:
		return normalDueStyle.Render(state.Label)
	}
}

func (m *Model) renderKanban() string {
	cols, byStatus := m.kanbanColumns()
	if len(cols) == 0 {
		return mutedStyle.Render("no visible statuses")
	}

	today := time.Now()
	colWidth := maxInt(18, m.width/len(cols)-4)
	rendered := make([]string, 0, len(cols))

	for ci, status := range cols {
		var lines []string
		lines = append(lines, columnTitleStyle.Render(fmt.Sprintf("%s (%d)", status, len(byStatus[status]))))

		for ri, t := range byStatus[status] {
			style := cardStyle
			if ci == m.cursorCol && ri == m.cursorRow {
				style = selectedCardStyle
			}
			title := truncate(t.Title, colWidth-6)
			line := style.Render(fmt.Sprintf("#%d %s", t.No, title))
			if due := dueLabel(t, today); due != "" {
				line += " " + due
			}
			lines = append(lines, line)
		}

		rendered = append(rendered, columnStyle.Width(colWidth).Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderList() string {
	derived := m.active().Derived()
	if len(derived.Sorted) == 0 {
		return mutedStyle.Render("no tasks match the current filters")
	}

	var b strings.Builder
	b.WriteString(m.renderSortHeader(derived.Sort))
	b.WriteString("\n")

	today := time.Now()
	row := 0
	for _, major := range derived.Groups {
		b.WriteString(groupHeaderStyle.Render(fmt.Sprintf("%s (%d)", major.Label, major.Count)))
		b.WriteString("\n")
		for _, minor := range major.Minors {
			b.WriteString(subGroupHeaderStyle.Render("  " + minor.Label))
			b.WriteString("\n")
			for _, t := range minor.Tasks {
				line := fmt.Sprintf("    #%-3d %-12s %-30s %-10s %s",
					t.No,
					truncate(task.NormalizeStatusLabel(t.Status), 12),
					truncate(t.Title, 30),
					truncate(t.Assignee, 10),
					t.DueDate)
				if row == m.listRow {
					line = selectedCardStyle.Render(line)
				}
				if due := dueLabel(t, today); due != "" {
					line += " " + due
				}
				b.WriteString(line)
				b.WriteString("\n")
				row++
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderSortHeader(state sorting.State) string {
	parts := make([]string, 0, len(sortColumns))
	for i, col := range sortColumns {
		label := col
		if entry, idx := state.Find(col); idx >= 0 {
			if entry.Desc {
				label += "↓"
			} else {
				label += "↑"
			}
			label += fmt.Sprintf("%d", idx+1)
		}
		if i == m.sortCol {
			label = activeTabStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return "sort: " + strings.Join(parts, " ")
}

func (m *Model) renderCalendar() string {
	derived := m.active().Derived()
	base := time.Now().AddDate(0, m.monthOff, 0)
	year, month := base.Year(), base.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)

	byDay := make(map[string][]task.Task)
	for _, t := range derived.Filtered {
		if due, ok := task.ParseISODate(t.DueDate); ok {
			byDay[task.FormatISODate(due)] = append(byDay[task.FormatISODate(due)], t)
		}
	}

	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(first.Format("2006年1月")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(" 日  月  火  水  木  金  土"))
	b.WriteString("\n")

	today := task.FormatISODate(time.Now())
	cell := func(day time.Time) string {
		key := task.FormatISODate(day)
		count := len(byDay[key])
		text := fmt.Sprintf("%3d", day.Day())
		switch {
		case key == today:
			text = activeTabStyle.Render(text)
		case count > 0:
			text = warningStyle.Render(text)
		default:
			text = mutedStyle.Render(text)
		}
		if count > 0 {
			text += fmt.Sprintf("·%d", count)
		} else {
			text += "  "
		}
		return text
	}

	day := first.AddDate(0, 0, -int(first.Weekday()))
	for day.Before(first.AddDate(0, 1, 0)) {
		var week []string
		for i := 0; i < 7; i++ {
			if day.Month() == month {
				week = append(week, cell(day))
			} else {
				week = append(week, "     ")
			}
			day = day.AddDate(0, 0, 1)
		}
		b.WriteString(strings.Join(week, ""))
		b.WriteString("\n")
	}

	summary := derived.DueSummary
	b.WriteString(fmt.Sprintf("%s %s",
		overdueStyle.Render(fmt.Sprintf("期限超過 %d", summary.Overdue)),
		warningStyle.Render(fmt.Sprintf("期限間近 %d", summary.Warning))))
	return b.String()
}

func (m *Model) renderTimeline() string {
	derived := m.active().Derived()
	today := time.Now()

	type dated struct {
		date  time.Time
		tasks []task.Task
	}
	var groups []dated
	index := make(map[string]int)
	var undated []task.Task

	for _, t := range derived.Sorted {
		due, ok := task.ParseISODate(t.DueDate)
		if !ok {
			undated = append(undated, t)
			continue
		}
		key := task.FormatISODate(due)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, dated{date: due})
		}
		groups[i].tasks = append(groups[i].tasks, t)
	}

	// Chronological order regardless of the active sort.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].date.Before(groups[j].date)
	})

	if len(groups) == 0 && len(undated) == 0 {
		return mutedStyle.Render("no tasks match the current filters")
	}

	var b strings.Builder
	row := 0
	writeTask := func(t task.Task) {
		line := fmt.Sprintf("  #%-3d %-12s %-30s %s",
			t.No,
			truncate(task.NormalizeStatusLabel(t.Status), 12),
			truncate(t.Title, 30),
			truncate(t.Assignee, 10))
		if row == m.listRow {
			line = selectedCardStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		row++
	}

	for _, g := range groups {
		header := g.date.Format("2006-01-02 (Mon)")
		if state, ok := task.DueState(task.Task{DueDate: task.FormatISODate(g.date), Title: "x"}, today); ok {
			switch state.Level {
			case task.DueOverdue:
				header = overdueStyle.Render(header)
			case task.DueWarning:
				header = warningStyle.Render(header)
			default:
				header = groupHeaderStyle.Render(header)
			}
		} else {
			header = groupHeaderStyle.Render(header)
		}
		b.WriteString(header)
		b.WriteString("\n")
		for _, t := range g.tasks {
			writeTask(t)
		}
	}

	if len(undated) > 0 {
		b.WriteString(mutedStyle.Render("期限なし"))
		b.WriteString("\n")
		for _, t := range undated {
			writeTask(t)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderWorkloadStrip() string {
	derived := m.active().Derived()
	summary := derived.Workload
	if len(summary.Assignees) == 0 {
		return ""
	}

	opts := workload.Options{
		InProgressKeywords: m.app.Config.Workload.InProgressKeywords,
		HighlightThreshold: m.app.Config.Workload.HighlightThreshold,
	}

	const maxEntries = 5
	parts := make([]string, 0, maxEntries)
	for i, entry := range summary.Assignees {
		if i >= maxEntries {
			parts = append(parts, mutedStyle.Render(fmt.Sprintf("+%d", len(summary.Assignees)-maxEntries)))
			break
		}
		text := fmt.Sprintf("%s:%d", entry.Label, entry.Total)
		if entry.Due.Overdue > 0 {
			text += fmt.Sprintf("(!%d)", entry.Due.Overdue)
		}
		if workload.Highlight(entry, opts) {
			parts = append(parts, workloadHotStyle.Render(text))
		} else {
			parts = append(parts, workloadStyle.Render(text))
		}
	}
	return "負荷: " + strings.Join(parts, "  ")
}

func (m *Model) renderStatusBar() string {
	derived := m.active().Derived()
	left := fmt.Sprintf("%d/%d tasks", len(derived.Filtered), len(derived.Tasks))
	help := "tab:view  /:filter  a:assignee  m:move  enter:detail  r:reload  s:save  q:quit"
	if m.statusLine != "" {
		left += "  •  " + m.statusLine
	}
	return statusBarStyle.Render(left + "  •  " + help)
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
