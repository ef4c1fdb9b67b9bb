// Package preset implements saved filter presets: named, view-scoped
// snapshots of a filter state persisted through a key-value substrate.
//
// The store treats a preset's filter payload as opaque JSON. Storage failures
// and corrupt blobs degrade to an empty list; nothing here ever returns a
// parse error to the caller.
package preset

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// StorageKey is the substrate key holding the full preset blob.
const StorageKey = "kanban:filterPresets"

// Substrate is the minimal key-value storage the store persists through.
type Substrate interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Preset is one named filter snapshot. Filters is carried opaquely; the store
// never interprets it beyond JSON validity.
type Preset struct {
	Name          string          `json:"name"`
	Filters       json.RawMessage `json:"filters"`
	UpdatedAt     int64           `json:"updatedAt"`
	LastAppliedAt int64           `json:"lastAppliedAt,omitempty"`
}

func (p Preset) clone() Preset {
	out := p
	out.Filters = append(json.RawMessage(nil), p.Filters...)
	return out
}

func clonePresets(in []Preset) []Preset {
	out := make([]Preset, len(in))
	for i, p := range in {
		out[i] = p.clone()
	}
	return out
}

// Store manages presets for every view key over one substrate.
type Store struct {
	substrate Substrate
	nowFn     func() time.Time
}

// NewStore builds a store over a substrate.
func NewStore(substrate Substrate) *Store {
	return &Store{substrate: substrate, nowFn: time.Now}
}

// WithNow overrides the clock. Test hook.
func (s *Store) WithNow(nowFn func() time.Time) *Store {
	s.nowFn = nowFn
	return s
}

func (s *Store) nowMillis() int64 {
	return s.nowFn().UnixMilli()
}

// readBlob loads and sanitizes the full blob. When sanitization changed
// anything the repaired blob is written back, so manual edits and old corrupt
// state heal on first read.
func (s *Store) readBlob() map[string][]Preset {
	raw, err := s.substrate.Get(StorageKey)
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			log.Debug().Err(err).Msg("preset storage read failed, treating as empty")
		}
		return map[string][]Preset{}
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warn().Err(err).Msg("preset blob corrupt, resetting")
		s.writeBlob(map[string][]Preset{})
		return map[string][]Preset{}
	}

	blob := make(map[string][]Preset, len(parsed))
	dirty := false
	for viewKey, rawList := range parsed {
		var entries []json.RawMessage
		if err := json.Unmarshal(rawList, &entries); err != nil {
			// Non-array value under a view key: drop it.
			dirty = true
			continue
		}
		presets := make([]Preset, 0, len(entries))
		for _, entry := range entries {
			var p Preset
			if err := json.Unmarshal(entry, &p); err != nil || strings.TrimSpace(p.Name) == "" {
				dirty = true
				continue
			}
			if len(p.Filters) == 0 {
				p.Filters = json.RawMessage("{}")
				dirty = true
			}
			presets = append(presets, p)
		}
		if len(presets) != len(entries) {
			dirty = true
		}
		blob[viewKey] = presets
	}

	if dirty {
		s.writeBlob(blob)
	}
	return blob
}

func (s *Store) writeBlob(blob map[string][]Preset) {
	data, err := json.Marshal(blob)
	if err != nil {
		log.Error().Err(err).Msg("marshal preset blob")
		return
	}
	if err := s.substrate.Set(StorageKey, string(data)); err != nil {
		log.Warn().Err(err).Msg("preset storage write failed")
	}
}

// LoadResult is what Load returns: the view's presets and the most recently
// applied one, when any preset carries an applied stamp.
type LoadResult struct {
	Presets     []Preset
	LastApplied *Preset
}

// Load returns the presets for a view key. Never fails; storage problems
// yield an empty result.
func (s *Store) Load(viewKey string) LoadResult {
	presets := clonePresets(s.readBlob()[viewKey])
	var last *Preset
	for i := range presets {
		if presets[i].LastAppliedAt <= 0 {
			continue
		}
		if last == nil || presets[i].LastAppliedAt > last.LastAppliedAt {
			last = &presets[i]
		}
	}
	if last != nil {
		cloned := last.clone()
		last = &cloned
	}
	return LoadResult{Presets: presets, LastApplied: last}
}

// SaveOptions tunes Save. MarkAsApplied defaults to true via DefaultSaveOptions.
type SaveOptions struct {
	MarkAsApplied bool
}

// DefaultSaveOptions stamps the saved preset as applied.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{MarkAsApplied: true}
}

// SaveResult is what Save returns.
type SaveResult struct {
	Presets []Preset
	Saved   Preset
}

// Save creates or overwrites a preset by exact name, preserving list position
// on overwrite. UpdatedAt is always stamped; LastAppliedAt only when
// opts.MarkAsApplied.
func (s *Store) Save(viewKey, name string, filters json.RawMessage, opts SaveOptions) SaveResult {
	now := s.nowMillis()
	saved := Preset{
		Name:      name,
		Filters:   append(json.RawMessage(nil), filters...),
		UpdatedAt: now,
	}
	if len(saved.Filters) == 0 {
		saved.Filters = json.RawMessage("{}")
	}
	if opts.MarkAsApplied {
		saved.LastAppliedAt = now
	}

	blob := s.readBlob()
	presets := blob[viewKey]
	replaced := false
	for i := range presets {
		if presets[i].Name == name {
			if !opts.MarkAsApplied {
				saved.LastAppliedAt = presets[i].LastAppliedAt
			}
			presets[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, saved)
	}
	blob[viewKey] = presets
	s.writeBlob(blob)

	return SaveResult{Presets: clonePresets(presets), Saved: saved.clone()}
}

// RemoveResult is what Remove returns.
type RemoveResult struct {
	Presets []Preset
	Removed bool
}

// Remove deletes a preset by name. A missing name is not an error.
func (s *Store) Remove(viewKey, name string) RemoveResult {
	blob := s.readBlob()
	presets := blob[viewKey]
	next := make([]Preset, 0, len(presets))
	removed := false
	for _, p := range presets {
		if p.Name == name {
			removed = true
			continue
		}
		next = append(next, p)
	}
	if removed {
		blob[viewKey] = next
		s.writeBlob(blob)
	}
	return RemoveResult{Presets: clonePresets(next), Removed: removed}
}

// ApplyFunc receives the preset's cloned filters and metadata. Returning
// false vetoes the application: no applied stamp, nil result.
type ApplyFunc func(filters json.RawMessage, meta Preset) bool

// ApplyResult is what Apply returns. Applied is nil when the preset was not
// found or the callback vetoed.
type ApplyResult struct {
	Presets []Preset
	Applied *Preset
}

// Apply looks a preset up by name and hands its filters to applyFn. Only an
// accepted application stamps LastAppliedAt.
func (s *Store) Apply(viewKey, name string, applyFn ApplyFunc) ApplyResult {
	blob := s.readBlob()
	presets := blob[viewKey]
	for i := range presets {
		if presets[i].Name != name {
			continue
		}
		meta := presets[i].clone()
		if applyFn != nil && !applyFn(append(json.RawMessage(nil), presets[i].Filters...), meta) {
			return ApplyResult{Presets: clonePresets(presets)}
		}
		presets[i].LastAppliedAt = s.nowMillis()
		blob[viewKey] = presets
		s.writeBlob(blob)
		applied := presets[i].clone()
		return ApplyResult{Presets: clonePresets(presets), Applied: &applied}
	}
	return ApplyResult{Presets: clonePresets(presets)}
}
