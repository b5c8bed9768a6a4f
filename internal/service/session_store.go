package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Claves del medio persistente.
const (
	SessionTokenKey  = "token"
	SessionExpiryKey = "expiry"
)

// SessionStore abstrae el medio donde vive la sesion (cookies, archivo,
// redis, postgres o memoria). Set debe aplicar todos los valores o ninguno.
// Un ttl <= 0 significa sin vida acotada.
type SessionStore interface {
	Get(key string) (string, bool, error)
	Set(values map[string]string, ttl time.Duration) error
	Clear(keys ...string) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memorySessionStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemorySessionStore() SessionStore {
	return newMemorySessionStore(time.Now)
}

func newMemorySessionStore(now func() time.Time) *memorySessionStore {
	return &memorySessionStore{
		items: make(map[string]memoryEntry),
		now:   now,
	}
}

func (s *memorySessionStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.items, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *memorySessionStore) Set(values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	for k, v := range values {
		s.items[k] = memoryEntry{value: v, expiresAt: expiresAt}
	}
	return nil
}

func (s *memorySessionStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

const redisSessionSetScript = `
local ttl = tonumber(ARGV[1])
for i, key in ipairs(KEYS) do
  if ttl > 0 then
    redis.call("SET", key, ARGV[i + 1], "PX", ttl)
  else
    redis.call("SET", key, ARGV[i + 1])
  end
end
return #KEYS
`

type redisSessionClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionStore struct {
	client  redisSessionClient
	prefix  string
	timeout time.Duration
}

// NewRedisSessionStore guarda la sesion bajo docflow:session:<sessionKey>:.
func NewRedisSessionStore(client *redis.Client, sessionKey string) SessionStore {
	if client == nil {
		return nil
	}
	return newRedisSessionStore(client, sessionKey)
}

func newRedisSessionStore(client redisSessionClient, sessionKey string) *redisSessionStore {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		sessionKey = "default"
	}
	return &redisSessionStore{
		client:  client,
		prefix:  "docflow:session:" + sessionKey + ":",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisSessionStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisSessionStore) Set(values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	keys := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)
	args = append(args, ttl.Milliseconds())
	for _, name := range names {
		keys = append(keys, s.prefix+name)
		args = append(args, values[name])
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Eval(ctx, redisSessionSetScript, keys, args...).Err()
}

func (s *redisSessionStore) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.prefix+k)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, full...).Err()
}
