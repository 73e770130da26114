// Package history keeps the capped log of past generations together with
// user-defined selection sets, and derives filtered/sorted projections on
// read.
package history

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adsmith/internal/persist"
	"adsmith/pkg/domain"
)

// MaxEntries caps the log at the most recent generations; the oldest
// entry is evicted on overflow.
const MaxEntries = 50

// ToneAll disables the tone filter.
const ToneAll = "all"

type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByTitle     SortField = "title"
	SortByTone      SortField = "tone"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter is the projection configuration applied by Filtered. Date bounds
// are inclusive on both ends when set.
type Filter struct {
	Search    string     `json:"searchTerm"`
	Tone      string     `json:"selectedTone"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	SortField SortField  `json:"sortField"`
	SortOrder SortOrder  `json:"sortOrder"`
}

// Store is the history container. It is constructed by the application
// root and passed to whatever needs it; there is no package-level
// instance.
type Store struct {
	mu     sync.RWMutex
	saver  persist.Saver
	ads    []domain.HistoryEntry
	sets   []domain.SelectionSet
	filter Filter
}

// snapshot is the persisted shape of the whole store state.
type snapshot struct {
	Ads           []domain.HistoryEntry `json:"ads"`
	SelectionSets []domain.SelectionSet `json:"selectionSets"`
	Filter        Filter                `json:"filter"`
}

// New builds a history store, restoring any snapshot held by saver.
func New(saver persist.Saver) *Store {
	s := &Store{
		saver: saver,
		filter: Filter{
			Tone:      ToneAll,
			SortField: SortByTimestamp,
			SortOrder: SortDesc,
		},
	}
	if saver != nil {
		var snap snapshot
		ok, err := saver.Load(context.Background(), persist.NamespaceHistory, &snap)
		if err != nil {
			slog.Warn("history snapshot load failed", "err", err)
		} else if ok {
			s.ads = snap.Ads
			s.sets = snap.SelectionSets
			if snap.Filter.Tone != "" {
				s.filter = snap.Filter
			}
		}
	}
	return s
}

func (s *Store) save() {
	if s.saver == nil {
		return
	}
	snap := snapshot{Ads: s.ads, SelectionSets: s.sets, Filter: s.filter}
	if err := s.saver.Save(context.Background(), persist.NamespaceHistory, snap); err != nil {
		slog.Warn("history snapshot save failed", "err", err)
	}
}

// Add assigns an id and timestamp, prepends the entry and truncates the
// log to MaxEntries. Entries are immutable once added.
func (s *Store) Add(input domain.HistoryInput, content domain.GeneratedContent) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Input:     input,
		Content:   content,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append([]domain.HistoryEntry{entry}, s.ads...)
	if len(s.ads) > MaxEntries {
		s.ads = s.ads[:MaxEntries]
	}
	s.save()
	return entry
}

// Remove deletes one entry by id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ad := range s.ads {
		if ad.ID == id {
			s.ads = append(s.ads[:i], s.ads[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// Clear drops every entry. Selection sets keep their (now dangling) ids;
// dangling references are filtered at load time instead.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = nil
	s.save()
}

// Entries returns a copy of the log, most recent first.
func (s *Store) Entries() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.ads))
	copy(out, s.ads)
	return out
}

// Get resolves one entry by id.
func (s *Store) Get(id string) (domain.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ad := range s.ads {
		if ad.ID == id {
			return ad, true
		}
	}
	return domain.HistoryEntry{}, false
}

// SetFilter replaces the projection configuration.
func (s *Store) SetFilter(f Filter) {
	if f.Tone == "" {
		f.Tone = ToneAll
	}
	if f.SortField == "" {
		f.SortField = SortByTimestamp
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.save()
}

// CurrentFilter returns the active projection configuration.
func (s *Store) CurrentFilter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Filtered recomputes the projection on every call: search, tone and date
// filters first, then the configured sort. It never mutates the log.
func (s *Store) Filtered() []domain.HistoryEntry {
	s.mu.RLock()
	ads := make([]domain.HistoryEntry, len(s.ads))
	copy(ads, s.ads)
	f := s.filter
	s.mu.RUnlock()
	return Project(ads, f)
}

// Project applies a filter and sort to a slice of entries. Pure: the
// input slice is filtered in place of a fresh slice and the original is
// left untouched.
func Project(ads []domain.HistoryEntry, f Filter) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(ads))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, ad := range ads {
		if search != "" && !matchesSearch(ad, search) {
			continue
		}
		if f.Tone != "" && f.Tone != ToneAll && string(ad.Input.Tone) != f.Tone {
			continue
		}
		if f.Start != nil && ad.CreatedAt.Before(*f.Start) {
			continue
		}
		if f.End != nil && ad.CreatedAt.After(*f.End) {
			continue
		}
		out = append(out, ad)
	}

	less := comparator(f.SortField)
	asc := f.SortOrder == SortAsc
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func matchesSearch(ad domain.HistoryEntry, search string) bool {
	if strings.Contains(strings.ToLower(ad.Input.Title), search) ||
		strings.Contains(strings.ToLower(ad.Input.Description), search) {
		return true
	}
	for _, k := range ad.Input.Keywords {
		if strings.Contains(strings.ToLower(k), search) {
			return true
		}
	}
	return false
}

func comparator(field SortField) func(a, b domain.HistoryEntry) bool {
	switch field {
	case SortByTitle:
		return func(a, b domain.HistoryEntry) bool {
			return strings.ToLower(a.Content.Title) < strings.ToLower(b.Content.Title)
		}
	case SortByTone:
		return func(a, b domain.HistoryEntry) bool {
			return a.Input.Tone < b.Input.Tone
		}
	default:
		return func(a, b domain.HistoryEntry) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
}

// AddSelectionSet bookmarks a list of entry ids under a name.
func (s *Store) AddSelectionSet(name string, adIDs []string) domain.SelectionSet {
	set := domain.SelectionSet{
		ID:        uuid.NewString(),
		Name:      name,
		AdIDs:     append([]string(nil), adIDs...),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, set)
	s.save()
	return set
}

// SelectionSets returns a copy of every set.
func (s *Store) SelectionSets() []domain.SelectionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SelectionSet, len(s.sets))
	copy(out, s.sets)
	return out
}

// RemoveSelectionSet deletes a set by id.
func (s *Store) RemoveSelectionSet(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, set := range s.sets {
		if set.ID == id {
			s.sets = append(s.sets[:i], s.sets[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// UpdateSelectionSet replaces the set with the given id. The id itself is
// preserved.
func (s *Store) UpdateSelectionSet(id string, updated domain.SelectionSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, set := range s.sets {
		if set.ID == id {
			updated.ID = id
			s.sets[i] = updated
			s.save()
			return true
		}
	}
	return false
}

// LoadSelectionSet resolves a set to the ids that still reference a live
// history entry. dropped counts dangling ids; the stored set is not
// rewritten, the caller decides whether to warn the user.
func (s *Store) LoadSelectionSet(id string) (valid []string, dropped int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.SelectionSet
	for i := range s.sets {
		if s.sets[i].ID == id {
			found = &s.sets[i]
			break
		}
	}
	if found == nil {
		return nil, 0, false
	}
	live := make(map[string]struct{}, len(s.ads))
	for _, ad := range s.ads {
		live[ad.ID] = struct{}{}
	}
	valid = make([]string, 0, len(found.AdIDs))
	for _, adID := range found.AdIDs {
		if _, exists := live[adID]; exists {
			valid = append(valid, adID)
		} else {
			dropped++
		}
	}
	return valid, dropped, true
}

// ImportSelectionSets appends externally supplied sets. Fresh ids and
// timestamps are always assigned so foreign ids can never collide with
// local ones.
func (s *Store) ImportSelectionSets(sets []domain.SelectionSet) []domain.SelectionSet {
	now := time.Now().UTC()
	imported := make([]domain.SelectionSet, 0, len(sets))
	for _, set := range sets {
		set.ID = uuid.NewString()
		set.CreatedAt = now
		imported = append(imported, set)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, imported...)
	s.save()
	return imported
}
