// Package memory is an in-process catalog.Store used for local runs and tests.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/storefront/catalog"
)

type Store struct {
	mu  sync.RWMutex
	m   map[string]catalog.Product
	now func() time.Time
}

var _ catalog.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		m:   make(map[string]catalog.Product),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) FindAll(_ context.Context, f catalog.Filter) ([]catalog.Product, error) {
	s.mu.RLock()
	out := make([]catalog.Product, 0, len(s.m))
	for _, p := range s.m {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sortProducts(out)
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id string) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (s *Store) Create(_ context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.Validate(p); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// keep creation order strict even when the clock does not move
	for _, q := range s.m {
		if !now.After(q.CreatedAt) {
			now = q.CreatedAt.Add(time.Nanosecond)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.m[p.ID] = p
	return p, nil
}

func (s *Store) Save(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[p.ID]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = s.now()
	s.m[p.ID] = p
	return p, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.m, id)
	return nil
}

func (s *Store) Sample(ctx context.Context, n int) ([]catalog.Product, error) {
	all, err := s.FindAll(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all, nil
}

func (s *Store) Close() error { return nil }

func sortProducts(ps []catalog.Product) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}
