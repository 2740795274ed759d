package repository

import (
	"context"
	"errors"
	"time"

	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

// 1端末 = 1ハッシュ。TTLは最後の書き込みから数える
type StorageRedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStorageRedisRepository(rdb *redis.Client, ttl time.Duration) *StorageRedisRepository {
	return &StorageRedisRepository{rdb: rdb, ttl: ttl}
}

var _ repo.StorageRepository = (*StorageRedisRepository)(nil)

func (r *StorageRedisRepository) hashKey(namespace string) string {
	return "storefront:storage:" + namespace
}

func (r *StorageRedisRepository) Get(ctx context.Context, namespace string, key string) (string, error) {
	v, err := r.rdb.HGet(ctx, r.hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *StorageRedisRepository) Set(ctx context.Context, namespace string, key string, value string) error {
	hk := r.hashKey(namespace)

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, hk, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, hk, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *StorageRedisRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.HDel(ctx, r.hashKey(namespace), keys...).Err()
}
