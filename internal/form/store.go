// Package form holds the in-progress submission, the single generated-ad
// slot and the transient flags around one in-flight generation.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"adsmith/internal/persist"
	"adsmith/pkg/domain"
)

// State is the externally visible form state. GeneratedAd is nil until a
// generation succeeds; it is replaced wholesale, never partially updated.
type State struct {
	Submission   domain.Submission   `json:"submission"`
	GeneratedAd  *domain.GeneratedAd `json:"generatedAd"`
	IsSubmitting bool                `json:"isSubmitting"`
	IsDraft      bool                `json:"isDraft"`
	Progress     int                 `json:"progress"`
	Errors       []string            `json:"errors"`
}

// Store is the form container, built by the application root and passed
// by reference to whatever needs it.
type Store struct {
	mu          sync.RWMutex
	saver       persist.Saver
	sub         domain.Submission
	generated   *domain.GeneratedAd
	submitting  bool
	isDraft     bool
	progress    int
	errs        []string
	seq         uint64 // latest issued generation request
	inFlightSeq uint64 // request currently holding the submitting flag
}

func initialSubmission() domain.Submission {
	return domain.Submission{
		Keywords: []string{},
		Tone:     domain.ToneProfessional,
	}
}

// New builds a form store, restoring a persisted draft submission when
// one exists. Transient flags always start cleared.
func New(saver persist.Saver) *Store {
	s := &Store{saver: saver, sub: initialSubmission()}
	if saver != nil {
		var draft domain.Submission
		ok, err := saver.Load(context.Background(), persist.NamespaceForm, &draft)
		if err != nil {
			slog.Warn("form draft load failed", "err", err)
		} else if ok {
			s.sub = draft
			s.isDraft = true
		}
	}
	return s
}

func (s *Store) saveDraft() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(context.Background(), persist.NamespaceForm, s.sub); err != nil {
		slog.Warn("form draft save failed", "err", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Submission:   s.sub,
		IsSubmitting: s.submitting,
		IsDraft:      s.isDraft,
		Progress:     s.progress,
		Errors:       append([]string(nil), s.errs...),
	}
	st.Submission.Keywords = append([]string(nil), s.sub.Keywords...)
	if s.generated != nil {
		ad := *s.generated
		st.GeneratedAd = &ad
	}
	return st
}

// Submission returns a copy of the in-progress submission.
func (s *Store) Submission() domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub := s.sub
	sub.Keywords = append([]string(nil), s.sub.Keywords...)
	return sub
}

// SetField mutates one submission field. It is allowed in any state and
// never validates values; validation is the caller's concern before
// submit. Unknown fields and type mismatches are rejected.
func (s *Store) SetField(field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case "campaignName":
		return s.setString(&s.sub.CampaignName, field, value)
	case "campaignDate":
		return s.setString(&s.sub.CampaignDate, field, value)
	case "brandName":
		return s.setString(&s.sub.BrandName, field, value)
	case "product":
		return s.setString(&s.sub.Product, field, value)
	case "userBenefit":
		return s.setString(&s.sub.UserBenefit, field, value)
	case "promotion":
		return s.setString(&s.sub.Promotion, field, value)
	case "audience":
		return s.setString(&s.sub.Audience, field, value)
	case "goal":
		return s.setString(&s.sub.Goal, field, value)
	case "additionalRules":
		return s.setString(&s.sub.AdditionalRules, field, value)
	case "csvData":
		return s.setString(&s.sub.CSVData, field, value)
	case "tone":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string", field)
		}
		tone, ok := domain.ParseTone(str)
		if !ok {
			return fmt.Errorf("unknown tone %q", str)
		}
		s.sub.Tone = tone
	case "keywords":
		keywords, err := stringSlice(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		s.sub.Keywords = dedupeKeywords(keywords)
	case "useLikedHeadlines":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s expects a boolean", field)
		}
		s.sub.UseLikedHeadlines = b
	case "likedHeadlines":
		liked, err := stringSlice(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		s.sub.LikedHeadlines = liked
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	s.isDraft = true
	s.saveDraft()
	return nil
}

func (s *Store) setString(dst *string, field string, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %s expects a string", field)
	}
	*dst = str
	s.isDraft = true
	s.saveDraft()
	return nil
}

// AddKeyword appends a keyword, rejecting blanks and duplicates.
// Insertion order is preserved.
func (s *Store) AddKeyword(keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.sub.Keywords {
		if k == keyword {
			return fmt.Errorf("keyword %q already present", keyword)
		}
	}
	s.sub.Keywords = append(s.sub.Keywords, keyword)
	s.isDraft = true
	s.saveDraft()
	return nil
}

// RemoveKeyword deletes a keyword by value.
func (s *Store) RemoveKeyword(keyword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.sub.Keywords {
		if k == keyword {
			s.sub.Keywords = append(s.sub.Keywords[:i], s.sub.Keywords[i+1:]...)
			s.isDraft = true
			s.saveDraft()
			return true
		}
	}
	return false
}

// Reset restores the fixed initial submission and clears the generated
// slot and transient flags. The generation sequence is not reset so
// in-flight completions from before the reset stay stale.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sub = initialSubmission()
	s.generated = nil
	s.isDraft = false
	s.progress = 0
	s.errs = nil
	s.saveDraft()
}

// BeginGeneration marks a new in-flight generation and returns its
// sequence number. Issuing a second submit while one is in flight is
// allowed; the sequence decides which response wins the slot.
func (s *Store) BeginGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inFlightSeq = s.seq
	s.submitting = true
	s.errs = nil
	return s.seq
}

// Submitting reports whether a generation is in flight.
func (s *Store) Submitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// CompleteGeneration installs the generated ad if seq is still the
// latest issued request. Stale responses are discarded and report false.
// The submitting flag is always released for the latest request,
// success or not.
func (s *Store) CompleteGeneration(seq uint64, ad domain.GeneratedAd) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.generated = &ad
	s.submitting = false
	s.progress = 100
	return true
}

// FailGeneration records a failure for the given request. The form stays
// populated so the user can resubmit. Stale failures are discarded.
func (s *Store) FailGeneration(seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.submitting = false
	s.progress = 0
	s.errs = append(s.errs, msg)
	return true
}

// GeneratedAd returns a copy of the slot content.
func (s *Store) GeneratedAd() (domain.GeneratedAd, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generated == nil {
		return domain.GeneratedAd{}, false
	}
	return *s.generated, true
}

func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings")
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings")
	}
}

func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
