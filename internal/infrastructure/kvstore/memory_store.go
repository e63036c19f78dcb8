package kvstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"
)

// MemoryStore is a process-local KeyValueStore for tests and single-process runs.
// Values are copied on the way in and out.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]entity.KVItem
}

var _ repository.KeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entity.KVItem)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*entity.KVItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	item.Value = append([]byte(nil), item.Value...)
	return &item, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.items[key].Version + 1
	s.put(key, value, version)
	return version, nil
}

func (s *MemoryStore) CompareAndSwap(ctx context.Context, key string, expectedVersion int64, value []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[key].Version != expectedVersion {
		return 0, repository.ErrVersionConflict
	}
	version := expectedVersion + 1
	s.put(key, value, version)
	return version, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) put(key string, value []byte, version int64) {
	s.items[key] = entity.KVItem{
		Key:       key,
		Value:     append([]byte(nil), value...),
		Version:   version,
		UpdatedAt: time.Now(),
	}
}
