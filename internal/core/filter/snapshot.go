package filter

import "sort"

// Snapshot is the JSON-safe, preset-friendly shape of a State. Presets store
// this structure opaquely; the engine only interprets it at the apply
// boundary.
type Snapshot struct {
	Assignee string           `json:"assignee"`
	Statuses []string         `json:"statuses"`
	Keyword  string           `json:"keyword"`
	Due      DueSnapshot      `json:"date"`
	Category CategorySnapshot `json:"category"`
}

// DueSnapshot mirrors DueFilter for serialization.
type DueSnapshot struct {
	Mode string `json:"mode"`
	From string `json:"from"`
	To   string `json:"to"`
}

// CategorySnapshot mirrors CategoryFilter for serialization.
type CategorySnapshot struct {
	Major string `json:"major"`
	Minor string `json:"minor"`
}

// ToSnapshot converts a State into its serializable form.
func ToSnapshot(state State) Snapshot {
	statuses := state.Statuses.Labels()
	// Stable output keeps persisted presets diff-friendly.
	sort.Strings(statuses)
	mode := string(state.Due.Mode)
	if mode == "" {
		mode = string(DueModeNone)
	}
	return Snapshot{
		Assignee: state.Assignee,
		Statuses: statuses,
		Keyword:  state.Keyword,
		Due:      DueSnapshot{Mode: mode, From: state.Due.From, To: state.Due.To},
		Category: CategorySnapshot{Major: state.Category.Major, Minor: state.Category.Minor},
	}
}

// FromSnapshot rebuilds a State from its serialized form. Missing sentinel
// values fall back to their unconstrained defaults.
func FromSnapshot(snap Snapshot) State {
	state := State{
		Assignee: snap.Assignee,
		Statuses: NewStatusSet(snap.Statuses...),
		Keyword:  snap.Keyword,
		Due: DueFilter{
			Mode: DueMode(snap.Due.Mode),
			From: snap.Due.From,
			To:   snap.Due.To,
		},
		Category: CategoryFilter{Major: snap.Category.Major, Minor: snap.Category.Minor},
	}
	if state.Assignee == "" {
		state.Assignee = AssigneeAll
	}
	if state.Due.Mode == "" {
		state.Due.Mode = DueModeNone
	}
	if state.Category.Major == "" {
		state.Category.Major = CategoryAll
	}
	if state.Category.Minor == "" {
		state.Category.Minor = CategoryMinorAll
	}
	return state
}
