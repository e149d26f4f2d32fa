package genstore

import (
	"context"
	"sync"
)

// LocalGenStore keeps generations in-process. Correct for a single replica
// with an in-process Fast Cache; use RedisGenStore when replicas share one.
//
// The store holds one counter per namespace's featured key, so there is
// nothing to expire. A restart resets every counter to 0; the in-process
// cache it pairs with starts empty too.
type LocalGenStore struct {
	mu   sync.Mutex
	gens map[string]uint64
}

var _ GenStore = (*LocalGenStore)(nil)

func NewLocalGenStore() *LocalGenStore {
	return &LocalGenStore{gens: make(map[string]uint64)}
}

func (s *LocalGenStore) Snapshot(_ context.Context, k string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[k], nil
}

func (s *LocalGenStore) Bump(_ context.Context, k string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[k]++
	return s.gens[k], nil
}

func (s *LocalGenStore) Close(context.Context) error { return nil }
