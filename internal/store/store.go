// Package store keeps the loaded datasets, keyed by session id. It replaces
// what would otherwise be ambient global state with an explicit object that
// request handlers receive by injection.
package store

import (
	"sort"
	"sync"

	"github.com/nelsonhumberto/debug-tool/internal/dataset"
)

// Store maps session ids to the dataset snapshot that contains them. The
// lock guards only this table; dataset contents are immutable and need no
// synchronization.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
}

// New returns an empty store.
func New() *Store {
	return &Store{datasets: make(map[string]*dataset.Dataset)}
}

// Insert registers a dataset under every session id it materialized and
// returns those ids. A session id already present is remapped to the new
// dataset.
func (s *Store) Insert(ds *dataset.Dataset) []string {
	ids := ds.SessionIDs()

	s.mu.Lock()
	for _, id := range ids {
		s.datasets[id] = ds
	}
	s.mu.Unlock()

	return ids
}

// Get returns the dataset holding the given session.
func (s *Store) Get(sessionID string) (*dataset.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[sessionID]
	return ds, ok
}

// SessionIDs lists all known session ids, sorted.
func (s *Store) SessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.datasets))
	for id := range s.datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// First returns any one dataset, for queries that are not session-scoped.
func (s *Store) First() (*dataset.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.datasets))
	for id := range s.datasets {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Strings(ids)
	return s.datasets[ids[0]], true
}

// Clear removes every registered dataset.
func (s *Store) Clear() {
	s.mu.Lock()
	s.datasets = make(map[string]*dataset.Dataset)
	s.mu.Unlock()
}

// Len returns the number of registered session ids.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

// BlockInfo searches every dataset for a block descriptor.
func (s *Store) BlockInfo(blockID string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ds := range s.datasets {
		if block, ok := ds.BlockInfo(blockID); ok {
			return block, true
		}
	}
	return nil, false
}
