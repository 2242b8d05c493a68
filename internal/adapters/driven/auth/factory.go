package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// TokenSource is implemented by every provider in this package.
type TokenSource interface {
	driven.TokenProvider

	// Token returns the current token with its expiry.
	Token(ctx context.Context) (domain.Token, error)
}

var (
	_ TokenSource = (*ClientCredentialsProvider)(nil)
	_ TokenSource = (*NullTokenProvider)(nil)
)

// NewProvider creates the provider described by settings.
// Returns NullTokenProvider when no token endpoint is configured.
// resolve turns a relative cache file path into an absolute one.
func NewProvider(settings domain.AuthSettings, resolve func(string) string, logger *zap.Logger, opts ...Option) TokenSource {
	if settings.TokenURL == "" {
		return NewNullTokenProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewClientCredentialsProvider(settings, NewStore(settings, resolve, logger), opts...)
}

// NewStore creates the token store: Redis when configured, else the cache file.
func NewStore(settings domain.AuthSettings, resolve func(string) string, logger *zap.Logger) driven.TokenStore {
	if r := settings.Redis; r != nil {
		client := redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
		return NewRedisTokenStore(client, r.Key, logger)
	}
	path := settings.CacheFile
	if path == "" {
		path = DefaultCacheFile
	}
	if resolve != nil {
		path = resolve(path)
	}
	return NewFileTokenStore(path, logger)
}
