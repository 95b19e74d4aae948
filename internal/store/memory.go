package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sells-group/nevintel/internal/model"
)

// MemoryStore is an in-memory Store used in tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string]model.Version
	seqs     map[string]int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		versions: make(map[string]model.Version),
		seqs:     make(map[string]int),
	}
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                      { return nil }

func (s *MemoryStore) NextSequence(ctx context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[date]++
	return s.seqs[date], nil
}

func (s *MemoryStore) PutVersion(ctx context.Context, v model.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[v.ID] = v
	return nil
}

func (s *MemoryStore) GetVersion(ctx context.Context, id string) (*model.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *MemoryStore) ListByDate(ctx context.Context, date string) ([]VersionRef, error) {
	refs, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []VersionRef
	for _, r := range refs {
		if r.Date == date {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]VersionRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]VersionRef, 0, len(s.versions))
	for _, v := range s.versions {
		date, seq, err := model.ParseVersionID(v.ID)
		if err != nil {
			continue
		}
		refs = append(refs, VersionRef{ID: v.ID, Date: date, Seq: seq, CreatedAt: v.CreatedAt})
	}
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].CreatedAt.Equal(refs[j].CreatedAt) {
			return refs[i].CreatedAt.Before(refs[j].CreatedAt)
		}
		return refs[i].Seq < refs[j].Seq
	})
	return refs, nil
}

func (s *MemoryStore) DeleteVersion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, id)
	return nil
}
