package persist

import (
	"context"
	"encoding/json"
	"sync"
)

// MemorySaver keeps snapshots in-process. Used by tests and redis-less
// development runs; state does not survive a restart.
type MemorySaver struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySaver initializes an empty in-memory Saver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{data: make(map[string][]byte)}
}

// Save replaces the snapshot for namespace.
func (s *MemorySaver) Save(_ context.Context, namespace string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[namespace] = data
	return nil
}

// Load reads the snapshot for namespace into v.
func (s *MemorySaver) Load(_ context.Context, namespace string, v any) (bool, error) {
	s.mu.RLock()
	data, ok := s.data[namespace]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
