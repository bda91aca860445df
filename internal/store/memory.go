package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ambia/UTAPWeLS/internal/model"
)

// InMemoryCaseStore implements CaseStore for testing and development.
// Wells are stored as serialized snapshots so callers cannot mutate stored
// state through retained pointers.
type InMemoryCaseStore struct {
	mu    sync.RWMutex
	wells map[string][]byte
}

// NewInMemoryCaseStore creates a new in-memory store.
func NewInMemoryCaseStore() *InMemoryCaseStore {
	return &InMemoryCaseStore{
		wells: make(map[string][]byte),
	}
}

// SaveWell persists a well, replacing any stored well of the same name.
func (s *InMemoryCaseStore) SaveWell(ctx context.Context, well *model.Well) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if well.Name == "" {
		return fmt.Errorf("well name is required")
	}

	data, err := json.Marshal(well)
	if err != nil {
		return fmt.Errorf("failed to marshal well: %w", err)
	}
	s.wells[well.Name] = data
	return nil
}

// LoadWell retrieves a well by name.
func (s *InMemoryCaseStore) LoadWell(ctx context.Context, name string) (*model.Well, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.wells[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrWellNotFound, name)
	}

	var well model.Well
	if err := json.Unmarshal(data, &well); err != nil {
		return nil, fmt.Errorf("failed to unmarshal well %q: %w", name, err)
	}
	return &well, nil
}

// DeleteWell removes a well.
func (s *InMemoryCaseStore) DeleteWell(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wells[name]; !exists {
		return fmt.Errorf("%w: %q", ErrWellNotFound, name)
	}
	delete(s.wells, name)
	return nil
}

// ListWells returns the stored well names, sorted.
func (s *InMemoryCaseStore) ListWells(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.wells))
	for name := range s.wells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HasWell reports whether a named well exists.
func (s *InMemoryCaseStore) HasWell(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.wells[name]
	return exists, nil
}

// Sync is a no-op for the in-memory store.
func (s *InMemoryCaseStore) Sync(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryCaseStore) Close() error {
	return nil
}
