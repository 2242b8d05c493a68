package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DefaultCacheFile is the token cache used when auth.cache_file is not set.
const DefaultCacheFile = "token_cache.json"

// DefaultRedisKey is the key tokens are stored under when auth.redis.key is not set.
const DefaultRedisKey = "jtlflow:token"

var (
	_ driven.TokenStore = (*FileTokenStore)(nil)
	_ driven.TokenStore = (*RedisTokenStore)(nil)
)

// FileTokenStore keeps the token as {"access_token", "expires_at"} JSON on disk.
type FileTokenStore struct {
	path   string
	logger *zap.Logger
}

// NewFileTokenStore creates a store backed by the file at path.
func NewFileTokenStore(path string, logger *zap.Logger) *FileTokenStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileTokenStore{path: path, logger: logger}
}

// Path returns the cache file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Load reads the cached token. A missing or corrupt file is a miss.
func (s *FileTokenStore) Load(_ context.Context) (domain.Token, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("error reading token cache", zap.String("path", s.path), zap.Error(err))
		}
		return domain.Token{}, false
	}
	var tok domain.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		s.logger.Warn("invalid JSON in token cache", zap.String("path", s.path), zap.Error(err))
		return domain.Token{}, false
	}
	return tok, tok.AccessToken != ""
}

// Save writes the token, replacing the file atomically.
func (s *FileTokenStore) Save(_ context.Context, token domain.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token cache dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// RedisTokenStore shares one token between every host running the flows.
// Entries expire in Redis together with the token.
type RedisTokenStore struct {
	client redis.Cmdable
	key    string
	now    func() time.Time
	logger *zap.Logger
}

// NewRedisTokenStore creates a store using client under key.
func NewRedisTokenStore(client redis.Cmdable, key string, logger *zap.Logger) *RedisTokenStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTokenStore{client: client, key: key, now: time.Now, logger: logger}
}

// Load reads the shared token. Connection errors and bad entries are misses.
func (s *RedisTokenStore) Load(ctx context.Context) (domain.Token, bool) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("error reading token from redis", zap.String("key", s.key), zap.Error(err))
		}
		return domain.Token{}, false
	}
	var tok domain.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		s.logger.Warn("invalid token entry in redis", zap.String("key", s.key), zap.Error(err))
		return domain.Token{}, false
	}
	return tok, tok.AccessToken != ""
}

// Save stores the token with a TTL matching its expiry.
func (s *RedisTokenStore) Save(ctx context.Context, token domain.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	ttl := token.Expiry().Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("save token to redis: %w", err)
	}
	return nil
}
