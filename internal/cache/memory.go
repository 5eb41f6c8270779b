// AngelaMos | 2026
// memory.go

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps listings in a bounded in-process LRU. Entry lifetime is
// fixed at construction; the ttl passed to Set is ignored.
type MemoryStore struct {
	entries *expirable.LRU[string, []byte]

	mu          sync.Mutex
	generations map[string]int64
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}

	return &MemoryStore{
		entries:     expirable.NewLRU[string, []byte](size, nil, ttl),
		generations: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := s.entries.Get(key)
	return data, ok, nil
}

func (s *MemoryStore) Set(
	_ context.Context,
	key string,
	value []byte,
	_ time.Duration,
) error {
	s.entries.Add(key, value)
	return nil
}

func (s *MemoryStore) Generation(_ context.Context, namespace string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[namespace], nil
}

func (s *MemoryStore) Bump(_ context.Context, namespace string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[namespace]++
	return s.generations[namespace], nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
