package raida

import (
	"context"
	"errors"
	"sync"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const DefaultTokenRedisKey = "contest_gateway:raida:token"

type TokenStore interface {
	Load(ctx context.Context) (Token, bool, error)
	// Save ttl 为 0 时不过期
	Save(ctx context.Context, tok Token, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore 进程内 token 存储
type MemoryTokenStore struct {
	mu  sync.RWMutex
	tok Token
	ok  bool
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(_ context.Context) (Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok, s.ok, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, tok Token, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok, s.ok = tok, true
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok, s.ok = Token{}, false
	return nil
}

// RedisTokenStore 多副本共享 token, key 的过期时间由 TokenProvider 按失败策略给出
type RedisTokenStore struct {
	client redis.Cmdable
	key    string
}

var _ TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client redis.Cmdable, key string) *RedisTokenStore {
	if key == "" {
		key = DefaultTokenRedisKey
	}
	return &RedisTokenStore{
		client: client,
		key:    key,
	}
}

func (s *RedisTokenStore) Load(ctx context.Context) (Token, bool, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Token{}, false, nil
	}
	if err != nil {
		return Token{}, false, err
	}
	var tok Token
	if err = json.Unmarshal(val, &tok); err != nil {
		return Token{}, false, err
	}
	return tok, true, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, tok Token, ttl time.Duration) error {
	val, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, val, ttl).Err()
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
