// Package saved holds the durable curation state: the saved-ad cache
// over the remote document collection, and the local-only liked-headline
// list.
package saved

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"adsmith/internal/addoc"
	"adsmith/internal/persist"
	"adsmith/pkg/domain"
)

// ErrSignInRequired reports a remote operation attempted without a
// signed-in identity.
var ErrSignInRequired = errors.New("sign-in required")

// Store caches the remote saved-ad collection and owns the liked
// headlines. Saved ads and liked headlines are independent: saving an ad
// never implies liking its headline.
type Store struct {
	mu     sync.RWMutex
	remote addoc.Store
	saver  persist.Saver
	ads    []domain.SavedAd
	liked  []domain.LikedHeadline
}

type snapshot struct {
	SavedAds       []domain.SavedAd       `json:"savedAds"`
	LikedHeadlines []domain.LikedHeadline `json:"likedHeadlines"`
}

// New builds the store, restoring the persisted saved-ad cache and liked
// headlines when a snapshot exists.
func New(remote addoc.Store, saver persist.Saver) *Store {
	s := &Store{remote: remote, saver: saver}
	if saver != nil {
		var snap snapshot
		ok, err := saver.Load(context.Background(), persist.NamespaceCurated, &snap)
		if err != nil {
			slog.Warn("curated snapshot load failed", "err", err)
		} else if ok {
			s.ads = snap.SavedAds
			s.liked = snap.LikedHeadlines
		}
	}
	return s
}

func (s *Store) save() {
	if s.saver == nil {
		return
	}
	snap := snapshot{SavedAds: s.ads, LikedHeadlines: s.liked}
	if err := s.saver.Save(context.Background(), persist.NamespaceCurated, snap); err != nil {
		slog.Warn("curated snapshot save failed", "err", err)
	}
}

// LoadUserAds replaces the local cache wholesale from the remote
// collection. Full refresh, not an incremental sync; callers decide when
// a remote read is wanted.
func (s *Store) LoadUserAds(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	ads, err := s.remote.ListAds(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user ads: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = ads
	s.save()
	return nil
}

// Add keeps an ad. Signed-in users write through to the remote
// collection and adopt its document id; anonymous saves stay local with
// a client-generated id.
func (s *Store) Add(ctx context.Context, userID string, ad domain.SavedAd) (domain.SavedAd, error) {
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	if userID != "" {
		id, err := s.remote.SaveAd(ctx, userID, ad)
		if err != nil {
			return domain.SavedAd{}, fmt.Errorf("save ad: %w", err)
		}
		ad.ID = id
	} else if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append(s.ads, ad)
	s.save()
	return ad, nil
}

// Remove deletes one saved ad. The remote delete happens first; when it
// fails the local cache is left untouched and the whole operation fails.
func (s *Store) Remove(ctx context.Context, userID, adID string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	if err := s.remote.DeleteAd(ctx, userID, adID); err != nil {
		return fmt.Errorf("remove saved ad: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ad := range s.ads {
		if ad.ID == adID {
			s.ads = append(s.ads[:i], s.ads[i+1:]...)
			break
		}
	}
	s.save()
	return nil
}

// ClearAll empties the local cache only. It deliberately does not cascade
// to the remote collection: bulk clear is "clear my view", unlike
// single-item removal.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = nil
	s.save()
}

// List returns a copy of the cached saved ads.
func (s *Store) List() []domain.SavedAd {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SavedAd, len(s.ads))
	copy(out, s.ads)
	return out
}

// ToggleLiked flips the liked state of a headline. Identity is the
// headline text: presenting the same text a second time removes the
// prior entry instead of duplicating it. Reports whether the headline is
// liked after the call.
func (s *Store) ToggleLiked(headline, primaryText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.liked {
		if l.Headline == headline {
			s.liked = append(s.liked[:i], s.liked[i+1:]...)
			s.save()
			return false
		}
	}
	entry := domain.LikedHeadline{
		ID:          uuid.NewString(),
		Headline:    headline,
		PrimaryText: primaryText,
		CreatedAt:   time.Now().UTC(),
	}
	s.liked = append([]domain.LikedHeadline{entry}, s.liked...)
	s.save()
	return true
}

// LikedHeadlines returns a copy of the liked list, most recent first.
func (s *Store) LikedHeadlines() []domain.LikedHeadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LikedHeadline, len(s.liked))
	copy(out, s.liked)
	return out
}

// LikedHeadlineTexts returns just the headline strings, for prompt
// examples.
func (s *Store) LikedHeadlineTexts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.liked))
	for _, l := range s.liked {
		out = append(out, l.Headline)
	}
	return out
}
