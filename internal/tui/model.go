package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/colonyops/taskboard/internal/core/filter"
	"github.com/colonyops/taskboard/internal/core/sorting"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/taskboard"
)

// boardChangedMsg is delivered when the board file changes on disk.
type boardChangedMsg struct{}

// errMsg carries a recoverable error into the status bar.
type errMsg struct{ err error }

// sortColumns is the toggle order for list-view sorting.
var sortColumns = []string{
	sorting.ColumnNo,
	sorting.ColumnMajor,
	sorting.ColumnMinor,
	sorting.ColumnTask,
	sorting.ColumnStatus,
	sorting.ColumnAssignee,
	sorting.ColumnDue,
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx context.Context
	app *taskboard.App

	viewIdx int
	ctrls   map[view.Key]*view.Controller

	width  int
	height int

	cursorCol int // kanban column
	cursorRow int
	listRow   int
	sortCol   int // list-view sort column cursor
	monthOff  int // calendar month offset from today

	keyword    textinput.Model
	filtering  bool
	showDetail bool
	statusLine string

	pushEvents <-chan struct{}
}

// New creates the TUI model. Controllers are initialized lazily per view.
func New(ctx context.Context, app *taskboard.App) (*Model, error) {
	keyword := textinput.New()
	keyword.Placeholder = "keyword"
	keyword.Prompt = "/ "
	keyword.CharLimit = 120

	m := &Model{
		ctx:     ctx,
		app:     app,
		ctrls:   make(map[view.Key]*view.Controller),
		keyword: keyword,
	}

	// The kanban view is the landing view; initialize it eagerly so startup
	// errors surface before the program starts.
	if _, err := m.controller(view.KeyKanban); err != nil {
		return nil, err
	}

	push := make(chan struct{}, 1)
	m.pushEvents = push
	app.WatchBoard(ctx, func() {
		select {
		case push <- struct{}{}:
		default:
		}
	})

	return m, nil
}

func (m *Model) controller(key view.Key) (*view.Controller, error) {
	if ctrl, ok := m.ctrls[key]; ok {
		return ctrl, nil
	}
	ctrl, err := m.app.Controller(m.ctx, key)
	if err != nil {
		return nil, err
	}
	m.ctrls[key] = ctrl
	return ctrl, nil
}

func (m *Model) activeKey() view.Key {
	return view.Keys[m.viewIdx]
}

func (m *Model) active() *view.Controller {
	ctrl, err := m.controller(m.activeKey())
	if err != nil {
		// Fall back to the kanban controller; the error lands in the
		// status line on the next switch attempt.
		return m.ctrls[view.KeyKanban]
	}
	return ctrl
}

func (m *Model) waitForPush() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.pushEvents; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForPush()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardChangedMsg:
		m.statusLine = "board file changed, view refreshed"
		m.clampCursor()
		return m, m.waitForPush()

	case errMsg:
		m.statusLine = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.keyword.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.keyword, cmd = m.keyword.Update(msg)
			m.active().SetKeyword(m.keyword.Value())
			m.clampCursor()
			return m, cmd
		}
	}

	if m.showDetail {
		switch msg.String() {
		case "esc", "enter", "q":
			m.showDetail = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.switchView((m.viewIdx + 1) % len(view.Keys))
	case "shift+tab":
		m.switchView((m.viewIdx + len(view.Keys) - 1) % len(view.Keys))
	case "1", "2", "3", "4":
		m.switchView(int(msg.String()[0] - '1'))

	case "/":
		m.filtering = true
		m.keyword.SetValue(m.active().Filters().Keyword)
		m.keyword.Focus()
		return m, textinput.Blink

	case "esc":
		m.keyword.SetValue("")
		m.active().ResetFilters()
		m.statusLine = "filters reset"
		m.clampCursor()

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		m.moveHorizontal(-1)
	case "right", "l":
		m.moveHorizontal(1)

	case "enter":
		if m.selectedTask() != nil {
			m.showDetail = true
		}

	case "m":
		return m, m.moveSelected(1)
	case "M":
		return m, m.moveSelected(-1)

	case "a":
		m.cycleAssignee()
	case "u":
		m.active().SetAssignee(filter.AssigneeUnassigned)
		m.statusLine = "showing unassigned tasks"
		m.clampCursor()

	case "w":
		m.active().ApplyQuickDue("this-week")
		m.statusLine = "due filter: this week"
		m.clampCursor()
	case "W":
		m.active().ApplyQuickDue("next-week")
		m.statusLine = "due filter: next week"
		m.clampCursor()

	case "[":
		if m.activeKey() == view.KeyList {
			m.sortCol = (m.sortCol + len(sortColumns) - 1) % len(sortColumns)
		}
	case "]":
		if m.activeKey() == view.KeyList {
			m.sortCol = (m.sortCol + 1) % len(sortColumns)
		}
	case "o":
		if m.activeKey() == view.KeyList {
			m.active().ToggleSort(sortColumns[m.sortCol])
		}
	case "O":
		if m.activeKey() == view.KeyList {
			m.active().ClearSort()
		}

	case "r":
		if err := m.active().Reload(m.ctx); err != nil {
			m.statusLine = err.Error()
		} else {
			m.statusLine = "board reloaded"
		}
		m.clampCursor()
	case "s":
		path, err := m.active().Save(m.ctx)
		if err != nil {
			m.statusLine = err.Error()
		} else {
			m.statusLine = "saved to " + path
		}
	}

	return m, nil
}

func (m *Model) switchView(idx int) {
	if idx < 0 || idx >= len(view.Keys) {
		return
	}
	m.viewIdx = idx
	if _, err := m.controller(m.activeKey()); err != nil {
		m.statusLine = err.Error()
		m.viewIdx = 0
		return
	}
	m.clampCursor()
}

// kanbanColumns buckets the filtered set per visible status, preserving the
// status universe order.
func (m *Model) kanbanColumns() ([]string, map[string][]task.Task) {
	derived := m.active().Derived()
	byStatus := make(map[string][]task.Task)
	var visible []string
	for _, status := range derived.Statuses {
		if !derived.Filters.Statuses.Has(status) {
			continue
		}
		visible = append(visible, status)
	}
	for _, t := range derived.Sorted {
		status := task.NormalizeStatusLabel(t.Status)
		byStatus[status] = append(byStatus[status], t)
	}
	return visible, byStatus
}

func (m *Model) moveCursor(delta int) {
	switch m.activeKey() {
	case view.KeyKanban:
		cols, byStatus := m.kanbanColumns()
		if m.cursorCol >= len(cols) {
			return
		}
		rows := len(byStatus[cols[m.cursorCol]])
		m.cursorRow = clamp(m.cursorRow+delta, 0, rows-1)
	default:
		rows := len(m.active().Derived().Sorted)
		m.listRow = clamp(m.listRow+delta, 0, rows-1)
	}
}

func (m *Model) moveHorizontal(delta int) {
	switch m.activeKey() {
	case view.KeyKanban:
		cols, byStatus := m.kanbanColumns()
		m.cursorCol = clamp(m.cursorCol+delta, 0, len(cols)-1)
		if m.cursorCol < len(cols) {
			rows := len(byStatus[cols[m.cursorCol]])
			m.cursorRow = clamp(m.cursorRow, 0, rows-1)
		}
	case view.KeyCalendar:
		m.monthOff += delta
	}
}

func (m *Model) clampCursor() {
	switch m.activeKey() {
	case view.KeyKanban:
		cols, byStatus := m.kanbanColumns()
		m.cursorCol = clamp(m.cursorCol, 0, len(cols)-1)
		if m.cursorCol < len(cols) {
			m.cursorRow = clamp(m.cursorRow, 0, len(byStatus[cols[m.cursorCol]])-1)
		}
	default:
		m.listRow = clamp(m.listRow, 0, len(m.active().Derived().Sorted)-1)
	}
}

// selectedTask returns the task under the cursor, or nil.
func (m *Model) selectedTask() *task.Task {
	switch m.activeKey() {
	case view.KeyKanban:
		cols, byStatus := m.kanbanColumns()
		if m.cursorCol >= len(cols) {
			return nil
		}
		tasks := byStatus[cols[m.cursorCol]]
		if m.cursorRow >= len(tasks) {
			return nil
		}
		t := tasks[m.cursorRow]
		return &t
	default:
		sorted := m.active().Derived().Sorted
		if m.listRow >= len(sorted) {
			return nil
		}
		t := sorted[m.listRow]
		return &t
	}
}

// moveSelected shifts the selected task's status forward or backward through
// the status universe. The local move is optimistic; a store failure is
// reported without reverting.
func (m *Model) moveSelected(direction int) tea.Cmd {
	selected := m.selectedTask()
	if selected == nil {
		return nil
	}

	derived := m.active().Derived()
	statuses := derived.Statuses
	if len(statuses) == 0 {
		return nil
	}

	current := task.NormalizeStatusLabel(selected.Status)
	idx := 0
	for i, s := range statuses {
		if s == current {
			idx = i
			break
		}
	}
	next := statuses[(idx+direction+len(statuses))%len(statuses)]

	no := selected.No
	ctrl := m.active()
	m.statusLine = fmt.Sprintf("task %d → %s", no, next)
	return func() tea.Msg {
		if err := ctrl.MoveTask(m.ctx, no, next); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// cycleAssignee steps the assignee filter: ALL → each assignee → UNASSIGNED.
func (m *Model) cycleAssignee() {
	ctrl := m.active()
	derived := ctrl.Derived()
	names := task.UniqueAssignees(derived.Tasks)

	cycle := make([]string, 0, len(names)+2)
	cycle = append(cycle, filter.AssigneeAll)
	cycle = append(cycle, names...)
	cycle = append(cycle, filter.AssigneeUnassigned)

	current := derived.Filters.Assignee
	idx := 0
	for i, name := range cycle {
		if name == current {
			idx = i
			break
		}
	}
	next := cycle[(idx+1)%len(cycle)]
	ctrl.SetAssignee(next)

	label := next
	switch next {
	case filter.AssigneeAll:
		label = "all assignees"
	case filter.AssigneeUnassigned:
		label = filter.UnassignedLabel
	}
	m.statusLine = "assignee: " + label
	m.clampCursor()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
