package repository

import "context"

// CacheRepository stores encoded calculation results by canonical key.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
