package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет в кеше.
var ErrCacheMiss = errors.New("cache miss")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	// Incr увеличивает счётчик; window задаёт время жизни, отсчитываемое от первого увеличения.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
