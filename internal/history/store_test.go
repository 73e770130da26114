package history

import (
	"fmt"
	"testing"
	"time"

	"adsmith/internal/persist"
	"adsmith/pkg/domain"
)

func entryInput(tone domain.Tone, title string, keywords ...string) domain.HistoryInput {
	return domain.HistoryInput{
		BrandName: "Acme",
		Product:   "Widget",
		Keywords:  keywords,
		Tone:      tone,
		Title:     title,
	}
}

func TestAddCapsAtFiftyMostRecentFirst(t *testing.T) {
	s := New(nil)
	for i := 0; i < 60; i++ {
		s.Add(entryInput(domain.ToneProfessional, fmt.Sprintf("ad-%d", i)), domain.GeneratedContent{Title: fmt.Sprintf("t-%d", i)})
	}
	entries := s.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(entries))
	}
	if entries[0].Input.Title != "ad-59" {
		t.Errorf("newest first: got %q", entries[0].Input.Title)
	}
	if entries[MaxEntries-1].Input.Title != "ad-10" {
		t.Errorf("oldest surviving entry should be ad-10, got %q", entries[MaxEntries-1].Input.Title)
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New(nil)
	a := s.Add(entryInput(domain.ToneCasual, "a"), domain.GeneratedContent{})
	s.Add(entryInput(domain.ToneCasual, "b"), domain.GeneratedContent{})

	if !s.Remove(a.ID) {
		t.Fatal("remove existing entry failed")
	}
	if s.Remove(a.ID) {
		t.Fatal("second remove should report false")
	}
	if len(s.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.Entries()))
	}
	s.Clear()
	if len(s.Entries()) != 0 {
		t.Fatal("clear left entries behind")
	}
}

func TestFilteredSearchIsCaseInsensitive(t *testing.T) {
	s := New(nil)
	s.Add(entryInput(domain.ToneCasual, "Summer Sale", "beach"), domain.GeneratedContent{})
	s.Add(entryInput(domain.ToneCasual, "Winter Deal", "snow"), domain.GeneratedContent{})

	s.SetFilter(Filter{Search: "SUMMER"})
	got := s.Filtered()
	if len(got) != 1 || got[0].Input.Title != "Summer Sale" {
		t.Fatalf("title search failed: %+v", got)
	}

	s.SetFilter(Filter{Search: "SNOW"})
	got = s.Filtered()
	if len(got) != 1 || got[0].Input.Title != "Winter Deal" {
		t.Fatalf("keyword search failed: %+v", got)
	}
}

func TestFilteredByTone(t *testing.T) {
	s := New(nil)
	s.Add(entryInput(domain.ToneUrgent, "u"), domain.GeneratedContent{})
	s.Add(entryInput(domain.ToneCasual, "c"), domain.GeneratedContent{})

	s.SetFilter(Filter{Tone: string(domain.ToneUrgent)})
	got := s.Filtered()
	if len(got) != 1 || got[0].Input.Tone != domain.ToneUrgent {
		t.Fatalf("tone filter failed: %+v", got)
	}

	s.SetFilter(Filter{Tone: ToneAll})
	if len(s.Filtered()) != 2 {
		t.Fatal("tone 'all' should pass everything")
	}
}

func TestFilteredDateRangeInclusive(t *testing.T) {
	now := time.Now().UTC()
	ads := []domain.HistoryEntry{
		{ID: "old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "mid", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "new", CreatedAt: now},
	}
	start := now.Add(-1 * time.Hour)
	end := now

	got := Project(ads, Filter{Start: &start, End: &end, SortField: SortByTimestamp, SortOrder: SortAsc})
	if len(got) != 2 || got[0].ID != "mid" || got[1].ID != "new" {
		t.Fatalf("inclusive range failed: %+v", got)
	}
}

func TestProjectSortComparators(t *testing.T) {
	base := time.Now().UTC()
	ads := []domain.HistoryEntry{
		{ID: "1", CreatedAt: base.Add(2 * time.Minute), Input: domain.HistoryInput{Tone: domain.ToneUrgent}, Content: domain.GeneratedContent{Title: "banana"}},
		{ID: "2", CreatedAt: base, Input: domain.HistoryInput{Tone: domain.ToneCasual}, Content: domain.GeneratedContent{Title: "Apple"}},
		{ID: "3", CreatedAt: base.Add(time.Minute), Input: domain.HistoryInput{Tone: domain.ToneFriendly}, Content: domain.GeneratedContent{Title: "cherry"}},
	}

	cases := []struct {
		name  string
		f     Filter
		order []string
	}{
		{"timestamp asc", Filter{SortField: SortByTimestamp, SortOrder: SortAsc}, []string{"2", "3", "1"}},
		{"timestamp desc", Filter{SortField: SortByTimestamp, SortOrder: SortDesc}, []string{"1", "3", "2"}},
		{"title asc", Filter{SortField: SortByTitle, SortOrder: SortAsc}, []string{"2", "1", "3"}},
		{"tone asc", Filter{SortField: SortByTone, SortOrder: SortAsc}, []string{"2", "3", "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(ads, tc.f)
			for i, want := range tc.order {
				if got[i].ID != want {
					t.Fatalf("position %d = %s, want %s (%+v)", i, got[i].ID, want, got)
				}
			}
		})
	}
}

func TestLoadSelectionSetFiltersDanglingIDs(t *testing.T) {
	s := New(nil)
	a := s.Add(entryInput(domain.ToneCasual, "a"), domain.GeneratedContent{})
	b := s.Add(entryInput(domain.ToneCasual, "b"), domain.GeneratedContent{})
	c := s.Add(entryInput(domain.ToneCasual, "c"), domain.GeneratedContent{})

	set := s.AddSelectionSet("launch", []string{a.ID, b.ID, c.ID})
	s.Remove(b.ID)

	valid, dropped, ok := s.LoadSelectionSet(set.ID)
	if !ok {
		t.Fatal("set not found")
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(valid) != 2 || valid[0] != a.ID || valid[1] != c.ID {
		t.Fatalf("valid = %v, want [%s %s]", valid, a.ID, c.ID)
	}

	// The stored set keeps the dangling id; it is filtered on load only.
	sets := s.SelectionSets()
	if len(sets) != 1 || len(sets[0].AdIDs) != 3 {
		t.Fatalf("stored set was rewritten: %+v", sets)
	}
}

func TestLoadSelectionSetUnknownID(t *testing.T) {
	s := New(nil)
	if _, _, ok := s.LoadSelectionSet("missing"); ok {
		t.Fatal("unknown set should report ok=false")
	}
}

func TestUpdateAndRemoveSelectionSet(t *testing.T) {
	s := New(nil)
	set := s.AddSelectionSet("old name", nil)

	updated := set
	updated.Name = "new name"
	updated.ID = "attacker-chosen"
	if !s.UpdateSelectionSet(set.ID, updated) {
		t.Fatal("update failed")
	}
	sets := s.SelectionSets()
	if sets[0].ID != set.ID || sets[0].Name != "new name" {
		t.Fatalf("update mangled the set: %+v", sets[0])
	}

	if !s.RemoveSelectionSet(set.ID) {
		t.Fatal("remove failed")
	}
	if len(s.SelectionSets()) != 0 {
		t.Fatal("set still present after remove")
	}
}

func TestImportSelectionSetsReassignsIDs(t *testing.T) {
	s := New(nil)
	local := s.AddSelectionSet("local", nil)

	imported := s.ImportSelectionSets([]domain.SelectionSet{
		{ID: local.ID, Name: "foreign", AdIDs: []string{"x"}},
	})
	if len(imported) != 1 {
		t.Fatalf("imported %d sets", len(imported))
	}
	if imported[0].ID == local.ID {
		t.Fatal("import must not preserve foreign ids")
	}
	if imported[0].Name != "foreign" || len(imported[0].AdIDs) != 1 {
		t.Fatalf("import dropped payload: %+v", imported[0])
	}
	if len(s.SelectionSets()) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(s.SelectionSets()))
	}
}

func TestStateSurvivesReloadThroughSaver(t *testing.T) {
	saver := persist.NewMemorySaver()

	s := New(saver)
	s.Add(entryInput(domain.ToneExcited, "persisted"), domain.GeneratedContent{Title: "gen"})
	s.AddSelectionSet("kept", nil)
	s.SetFilter(Filter{Search: "persisted", Tone: ToneAll})

	reloaded := New(saver)
	if len(reloaded.Entries()) != 1 || reloaded.Entries()[0].Input.Title != "persisted" {
		t.Fatalf("entries not restored: %+v", reloaded.Entries())
	}
	if len(reloaded.SelectionSets()) != 1 {
		t.Fatal("selection sets not restored")
	}
	if reloaded.CurrentFilter().Search != "persisted" {
		t.Fatalf("filter not restored: %+v", reloaded.CurrentFilter())
	}
}
