// Package view wires the filter, sort, grouping, workload, and preset engines
// into one controller per concrete view. Every mutation is followed by a
// synchronous recomputation of the derived sets before control returns to the
// caller.
package view

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/filter"
	"github.com/colonyops/taskboard/internal/core/grouping"
	"github.com/colonyops/taskboard/internal/core/preset"
	"github.com/colonyops/taskboard/internal/core/sorting"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validate"
	"github.com/colonyops/taskboard/internal/core/validation"
	"github.com/colonyops/taskboard/internal/core/workload"
)

// Key identifies a concrete view. Presets are scoped by this key.
type Key string

const (
	KeyKanban   Key = "kanban-board"
	KeyList     Key = "list"
	KeyCalendar Key = "calendar"
	KeyTimeline Key = "timeline"
)

// Keys lists every view key in display order.
var Keys = []Key{KeyKanban, KeyList, KeyCalendar, KeyTimeline}

// Derived is the recomputed output handed to renderers after every change.
type Derived struct {
	Tasks      []task.Task
	Filtered   []task.Task
	Sorted     []task.Task
	Groups     []grouping.MajorGroup
	Workload   workload.Summary
	DueSummary task.DueSummary
	Statuses   []string
	Categories filter.CategoryOptions
	Filters    filter.State
	Sort       sorting.State
}

// Controller owns one view's state: the sanitized task set, the status
// universe, the filter and sort state, and the derived sets. Not safe for
// concurrent use; the caller serializes access.
type Controller struct {
	key      Key
	store    board.Store
	presets  *preset.Store
	onChange func(Derived)
	nowFn    func() time.Time

	tasks       []task.Task
	statuses    []string
	validations validation.Sets
	filters     filter.State
	sort        sorting.State
	workload    workload.Options

	derived              Derived
	initialPresetApplied bool
}

// Options configures a controller.
type Options struct {
	Key      Key
	Store    board.Store
	Presets  *preset.Store
	OnChange func(Derived)
	Workload workload.Options
	NowFn    func() time.Time
}

// NewController builds a controller. OnChange may be nil.
func NewController(opts Options) *Controller {
	nowFn := opts.NowFn
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Controller{
		key:      opts.Key,
		store:    opts.Store,
		presets:  opts.Presets,
		onChange: opts.OnChange,
		nowFn:    nowFn,
		filters:  filter.Default(nil),
		workload: opts.Workload,
	}
}

// Key returns the controller's view key.
func (c *Controller) Key() Key { return c.key }

// Derived returns the last recomputed output.
func (c *Controller) Derived() Derived { return c.derived }

// Filters returns the current filter state.
func (c *Controller) Filters() filter.State { return c.filters }

// Sort returns the current sort sequence.
func (c *Controller) Sort() sorting.State { return c.sort.Clone() }

// Init resolves the initial snapshot, applies the last-used preset once, and
// computes the first derived set.
func (c *Controller) Init(ctx context.Context) error {
	snap, err := c.resolveSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("resolve initial snapshot: %w", err)
	}
	c.applySnapshot(snap)
	c.maybeApplyInitialPreset()
	c.recompute()
	return nil
}

// resolveSnapshot tries the cheap full snapshot first, then a file reload,
// then the individual getters, in that order.
func (c *Controller) resolveSnapshot(ctx context.Context) (board.Snapshot, error) {
	snap, err := c.store.Snapshot(ctx)
	if err == nil {
		return snap, nil
	}
	log.Debug().Err(err).Msg("snapshot unavailable, trying reload")

	snap, reloadErr := c.store.ReloadFromFile(ctx)
	if reloadErr == nil {
		return snap, nil
	}
	log.Debug().Err(reloadErr).Msg("reload unavailable, trying individual getters")

	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("list tasks: %w", err)
	}
	statuses, err := c.store.ListStatuses(ctx)
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("list statuses: %w", err)
	}
	sets, err := c.store.GetValidationSets(ctx)
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("get validation sets: %w", err)
	}
	return board.Snapshot{Tasks: tasks, Statuses: statuses, Validations: sets}, nil
}

// applySnapshot installs a snapshot: sanitizes tasks, rebuilds the status
// universe, and reconciles the status selection against it.
func (c *Controller) applySnapshot(snap board.Snapshot) {
	c.tasks = task.SanitizeList(snap.Tasks)
	c.validations = validation.Normalize(snap.Validations)
	c.statuses = statusUniverse(c.tasks, c.validations, snap.Statuses)
	c.filters.Statuses = filter.ReconcileStatuses(c.filters.Statuses, c.statuses, c.tasks)
}

// statusUniverse merges the stored status list, validated statuses, and
// statuses observed on tasks. The unset sentinel leads the list whenever any
// task has an empty status.
func statusUniverse(tasks []task.Task, sets validation.Sets, stored []string) []string {
	base := validation.NormalizeValues(stored)
	if len(base) == 0 {
		base = append([]string(nil), sets.Values(validation.FieldStatus)...)
	}
	if len(base) == 0 {
		base = append([]string(nil), task.DefaultStatuses...)
	}

	seen := make(map[string]struct{}, len(base))
	universe := make([]string, 0, len(base)+1)
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		universe = append(universe, s)
	}

	hasEmpty := false
	for _, t := range tasks {
		status := task.NormalizeStatusLabel(t.Status)
		if status == task.UnsetStatusLabel {
			hasEmpty = true
			continue
		}
		if _, ok := seen[status]; !ok {
			seen[status] = struct{}{}
			universe = append(universe, status)
		}
	}
	if hasEmpty {
		if _, ok := seen[task.UnsetStatusLabel]; !ok {
			universe = append([]string{task.UnsetStatusLabel}, universe...)
		}
	}
	return universe
}

// recompute rebuilds every derived set and notifies the change listener.
func (c *Controller) recompute() {
	today := c.nowFn()
	filtered := filter.Apply(c.tasks, c.filters)
	fallback := sorting.DefaultFallback(c.statuses)
	sorted := sorting.Sort(filtered, c.sort, fallback)

	wl := c.workload
	if wl.Today.IsZero() {
		wl.Today = today
	}

	c.derived = Derived{
		Tasks:      c.tasks,
		Filtered:   filtered,
		Sorted:     sorted,
		Groups:     grouping.Build(sorted),
		Workload:   workload.Summarize(filtered, wl),
		DueSummary: task.SummarizeDue(filtered, today),
		Statuses:   append([]string(nil), c.statuses...),
		Categories: filter.CollectCategoryOptions(c.tasks, c.validations),
		Filters:    c.filters,
		Sort:       c.sort.Clone(),
	}
	if c.onChange != nil {
		c.onChange(c.derived)
	}
}

// Refresh re-reads current state from the store without touching the file.
func (c *Controller) Refresh(ctx context.Context) error {
	snap, err := c.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	c.applySnapshot(snap)
	c.recompute()
	return nil
}

// Reload re-reads the backing file and installs the result.
func (c *Controller) Reload(ctx context.Context) error {
	snap, err := c.store.ReloadFromFile(ctx)
	if err != nil {
		return fmt.Errorf("reload from file: %w", err)
	}
	c.applySnapshot(snap)
	c.recompute()
	return nil
}

// Save persists the board to its backing file and returns the descriptor.
func (c *Controller) Save(ctx context.Context) (string, error) {
	path, err := c.store.SaveToFile(ctx)
	if err != nil {
		return "", fmt.Errorf("save to file: %w", err)
	}
	return path, nil
}

// ApplyPush installs a realtime push payload as-is, without querying the
// store to fill gaps.
func (c *Controller) ApplyPush(snap board.Snapshot) {
	c.applySnapshot(snap)
	c.recompute()
}

// SetKeyword replaces the keyword clause.
func (c *Controller) SetKeyword(keyword string) {
	c.filters.Keyword = keyword
	c.recompute()
}

// SetAssignee replaces the assignee clause.
func (c *Controller) SetAssignee(assignee string) {
	if strings.TrimSpace(assignee) == "" {
		assignee = filter.AssigneeAll
	}
	c.filters.Assignee = assignee
	c.recompute()
}

// ToggleWorkloadAssignee applies the workload strip's toggle semantics:
// re-selecting the active assignee clears back to ALL.
func (c *Controller) ToggleWorkloadAssignee(selected string) {
	c.filters.Assignee = workload.ToggleAssignee(c.filters.Assignee, selected)
	c.recompute()
}

// ToggleStatus flips one status label in or out of the visible set.
func (c *Controller) ToggleStatus(label string) {
	if c.filters.Statuses.Has(label) {
		c.filters.Statuses.Remove(label)
	} else {
		c.filters.Statuses.Add(label)
	}
	c.filters.Statuses = filter.ReconcileStatuses(c.filters.Statuses, c.statuses, c.tasks)
	c.recompute()
}

// SetStatuses replaces the visible status set wholesale.
func (c *Controller) SetStatuses(labels ...string) {
	c.filters.Statuses = filter.NewStatusSet(labels...)
	c.recompute()
}

// SetDueFilter replaces the due clause.
func (c *Controller) SetDueFilter(df filter.DueFilter) {
	c.filters.Due = df
	c.recompute()
}

// ApplyQuickDue installs a named quick due preset. Unknown names are a no-op.
func (c *Controller) ApplyQuickDue(name string) bool {
	df, ok := filter.QuickDuePreset(name, c.nowFn())
	if !ok {
		return false
	}
	c.filters.Due = df
	c.recompute()
	return true
}

// SetCategory replaces the category clause. Changing major resets minor.
func (c *Controller) SetCategory(major, minor string) {
	if strings.TrimSpace(major) == "" {
		major = filter.CategoryAll
	}
	if strings.TrimSpace(minor) == "" || major != c.filters.Category.Major {
		minor = filter.CategoryMinorAll
	}
	c.filters.Category = filter.CategoryFilter{Major: major, Minor: minor}
	c.recompute()
}

// ResetFilters restores the neutral filter state over the current universe.
func (c *Controller) ResetFilters() {
	c.filters = filter.Default(c.statuses)
	c.recompute()
}

// ToggleSort cycles a list column through ascending, descending, off.
func (c *Controller) ToggleSort(column string) {
	c.sort = c.sort.Toggle(column)
	c.recompute()
}

// ClearSort drops the whole sort sequence back to the default ordering.
func (c *Controller) ClearSort() {
	c.sort = nil
	c.recompute()
}

// AddTask validates and creates a task, then refreshes.
func (c *Controller) AddTask(ctx context.Context, t task.Task) (task.Task, error) {
	if err := validate.TaskTitle(t.Title); err != nil {
		return task.Task{}, err
	}
	created, err := c.store.AddTask(ctx, t)
	if err != nil {
		return task.Task{}, fmt.Errorf("add task: %w", err)
	}
	if err := c.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateTask applies a partial update, then refreshes.
func (c *Controller) UpdateTask(ctx context.Context, no int, patch task.Patch) (task.Task, error) {
	if patch.Title != nil {
		if err := validate.TaskTitle(*patch.Title); err != nil {
			return task.Task{}, err
		}
	}
	updated, err := c.store.UpdateTask(ctx, no, patch)
	if err != nil {
		return task.Task{}, fmt.Errorf("update task %d: %w", no, err)
	}
	if err := c.Refresh(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteTask removes a task, then refreshes.
func (c *Controller) DeleteTask(ctx context.Context, no int) error {
	if err := c.store.DeleteTask(ctx, no); err != nil {
		return fmt.Errorf("delete task %d: %w", no, err)
	}
	return c.Refresh(ctx)
}

// MoveTask applies a status move optimistically: local state changes first,
// then the store is told. A store failure is reported but the optimistic
// state is not reverted; the next refresh reconciles.
func (c *Controller) MoveTask(ctx context.Context, no int, status string) error {
	raw := task.DenormalizeStatusLabel(status)
	for i := range c.tasks {
		if c.tasks[i].No == no {
			c.tasks[i].Status = raw
			break
		}
	}
	c.filters.Statuses = filter.ReconcileStatuses(c.filters.Statuses, c.statuses, c.tasks)
	c.recompute()

	if _, err := c.store.MoveTask(ctx, no, raw); err != nil {
		return fmt.Errorf("move task %d: %w", no, err)
	}
	return nil
}

// UpdateValidationSets pushes edited suggestion lists to the store and
// installs the resulting universe.
func (c *Controller) UpdateValidationSets(ctx context.Context, sets validation.Sets) error {
	validations, statuses, err := c.store.UpdateValidationSets(ctx, sets)
	if err != nil {
		return fmt.Errorf("update validation sets: %w", err)
	}
	c.validations = validation.Normalize(validations)
	c.statuses = statusUniverse(c.tasks, c.validations, statuses)
	c.filters.Statuses = filter.ReconcileStatuses(c.filters.Statuses, c.statuses, c.tasks)
	c.recompute()
	return nil
}

// Presets returns the saved presets for this view.
func (c *Controller) Presets() preset.LoadResult {
	if c.presets == nil {
		return preset.LoadResult{}
	}
	return c.presets.Load(string(c.key))
}

// SavePreset snapshots the current filter state under a name.
func (c *Controller) SavePreset(name string) (preset.SaveResult, error) {
	if err := validate.PresetName(name); err != nil {
		return preset.SaveResult{}, err
	}
	if c.presets == nil {
		return preset.SaveResult{}, fmt.Errorf("preset storage unavailable")
	}
	payload, err := json.Marshal(filter.ToSnapshot(c.filters))
	if err != nil {
		return preset.SaveResult{}, fmt.Errorf("marshal filter snapshot: %w", err)
	}
	return c.presets.Save(string(c.key), strings.TrimSpace(name), payload, preset.DefaultSaveOptions()), nil
}

// ApplyPreset installs a named preset's filter state. A missing preset or an
// undecodable payload leaves state untouched and returns applied=false.
func (c *Controller) ApplyPreset(name string) bool {
	if c.presets == nil {
		return false
	}
	result := c.presets.Apply(string(c.key), name, func(filters json.RawMessage, _ preset.Preset) bool {
		return c.installPresetFilters(filters)
	})
	if result.Applied == nil {
		return false
	}
	c.recompute()
	return true
}

// RemovePreset deletes a named preset. Missing names are not an error.
func (c *Controller) RemovePreset(name string) bool {
	if c.presets == nil {
		return false
	}
	return c.presets.Remove(string(c.key), name).Removed
}

// maybeApplyInitialPreset restores the last-used preset exactly once per
// controller lifetime, before the first recompute. The filters are installed
// directly: only an explicit apply stamps LastAppliedAt.
func (c *Controller) maybeApplyInitialPreset() {
	if c.initialPresetApplied || c.presets == nil {
		return
	}
	c.initialPresetApplied = true
	loaded := c.presets.Load(string(c.key))
	if loaded.LastApplied == nil {
		return
	}
	c.installPresetFilters(loaded.LastApplied.Filters)
}

func (c *Controller) installPresetFilters(filters json.RawMessage) bool {
	var snap filter.Snapshot
	if err := json.Unmarshal(filters, &snap); err != nil {
		log.Warn().Err(err).Str("view", string(c.key)).Msg("preset filters undecodable, skipping")
		return false
	}
	state := filter.FromSnapshot(snap)
	state.Statuses = filter.ReconcileStatuses(state.Statuses, c.statuses, c.tasks)
	c.filters = state
	return true
}
