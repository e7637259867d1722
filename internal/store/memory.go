package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rcliao/anger-log/internal/model"
)

// MemoryStore is a process-local Store. It is intended for tests and for
// running the server without a database file.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]model.Record
	order   []int64 // insertion order
	lastID  int64
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]model.Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, r model.Record) (*model.Record, error) {
	rec := r.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	rec.ID = s.lastID
	rec.CreatedAt = s.now().UTC()
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)

	out := rec.Clone()
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context, p ListParams) ([]model.Record, error) {
	all := s.snapshot()
	sortNewestFirst(all)

	offset := p.offset()
	if offset >= len(all) || p.limit() == 0 {
		return []model.Record{}, nil
	}
	end := offset + p.limit()
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

func (s *MemoryStore) ListByDateRange(_ context.Context, start, end time.Time) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Record{}
	for _, id := range s.order {
		rec := s.records[id]
		if inDateRange(rec.Date, start, end) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) All(_ context.Context) ([]model.Record, error) {
	return s.snapshot(), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// snapshot copies every record in insertion order under the read lock.
func (s *MemoryStore) snapshot() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

func sortNewestFirst(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
