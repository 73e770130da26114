package addoc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"adsmith/pkg/domain"
)

// MemoryStore keeps per-user collections in-process. Used by tests and
// database-less development runs.
type MemoryStore struct {
	mu    sync.RWMutex
	ads   map[string]map[string]domain.SavedAd // userID -> adID -> ad
	order map[string][]string                  // userID -> insertion order
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ads:   make(map[string]map[string]domain.SavedAd),
		order: make(map[string][]string),
	}
}

// SaveAd creates a document and returns its generated id.
func (m *MemoryStore) SaveAd(_ context.Context, userID string, ad domain.SavedAd) (string, error) {
	id := uuid.NewString()
	ad.ID = id
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ads[userID] == nil {
		m.ads[userID] = make(map[string]domain.SavedAd)
	}
	m.ads[userID][id] = ad
	m.order[userID] = append(m.order[userID], id)
	return id, nil
}

// ListAds returns the user's collection in insertion order.
func (m *MemoryStore) ListAds(_ context.Context, userID string) ([]domain.SavedAd, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.SavedAd, 0, len(m.order[userID]))
	for _, id := range m.order[userID] {
		if ad, ok := m.ads[userID][id]; ok {
			out = append(out, ad)
		}
	}
	return out, nil
}

// DeleteAd removes one document by id.
func (m *MemoryStore) DeleteAd(_ context.Context, userID, adID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ads[userID][adID]; !ok {
		return ErrNotFound
	}
	delete(m.ads[userID], adID)
	ids := m.order[userID][:0]
	for _, id := range m.order[userID] {
		if id != adID {
			ids = append(ids, id)
		}
	}
	m.order[userID] = ids
	return nil
}
