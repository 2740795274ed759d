package repository

import (
	"context"
	"sync"

	repo "storefront/internal/repository"
)

// プロセス内だけの保存。開発とテスト用
type StorageMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewStorageMemoryRepository() *StorageMemoryRepository {
	return &StorageMemoryRepository{data: map[string]map[string]string{}}
}

var _ repo.StorageRepository = (*StorageMemoryRepository)(nil)

func (r *StorageMemoryRepository) Get(_ context.Context, namespace string, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[namespace][key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (r *StorageMemoryRepository) Set(_ context.Context, namespace string, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ns, ok := r.data[namespace]
	if !ok {
		ns = map[string]string{}
		r.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (r *StorageMemoryRepository) Delete(_ context.Context, namespace string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.data[namespace], k)
	}
	return nil
}
