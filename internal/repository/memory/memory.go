package memory

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// MemStorage is a mutex-guarded in-memory implementation of
// repository.Storage, used by tests.
type MemStorage struct {
	mu    sync.RWMutex
	links map[string]*entry
	seq   int64
}

// entry keeps the insertion sequence so ListLinks can break created_at ties
// in insertion order.
type entry struct {
	link *domain.Link
	seq  int64
}

func New() *MemStorage {
	return &MemStorage{
		links: make(map[string]*entry),
	}
}

func (s *MemStorage) CreateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.Code]; exists {
		return repository.ErrCodeExists
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	s.seq++
	s.links[link.Code] = &entry{link: link, seq: s.seq}
	return nil
}

func (s *MemStorage) GetLink(_ context.Context, code string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.links[code]
	if !ok || e.link.Deleted {
		return nil, repository.ErrCodeNotFound
	}
	cp := *e.link
	return &cp, nil
}

func (s *MemStorage) ListLinks(_ context.Context) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*entry, 0, len(s.links))
	for _, e := range s.links {
		if !e.link.Deleted {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.link.CreatedAt.Equal(b.link.CreatedAt) {
			return a.link.CreatedAt.After(b.link.CreatedAt)
		}
		return a.seq < b.seq
	})

	links := make([]*domain.Link, len(entries))
	for i, e := range entries {
		cp := *e.link
		links[i] = &cp
	}
	return links, nil
}

func (s *MemStorage) SoftDeleteLink(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.links[code]; ok {
		e.link.Deleted = true
	}
	return nil
}

func (s *MemStorage) RecordClick(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.links[code]
	if !ok || e.link.Deleted {
		return repository.ErrCodeNotFound
	}
	now := time.Now()
	e.link.Clicks++
	e.link.LastClicked = &now
	return nil
}

func (s *MemStorage) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.links[code]
	return ok, nil
}
