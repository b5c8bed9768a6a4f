package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docflow/internal/config"
	"docflow/internal/db"
	"docflow/internal/repository"
	"docflow/internal/service"
)

var ErrUnknownStore = errors.New("unknown session store")

// StoreOpener abre el medio de sesion. El func devuelto libera recursos.
type StoreOpener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.SessionStore, func(), error)

// OpenSessionStore elige el medio segun SESSION_STORE.
func OpenSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.SessionStore, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "", "file":
		path, err := sessionFilePath(cfg)
		if err != nil {
			return nil, noop, err
		}
		return service.NewFileSessionStore(path), noop, nil

	case "memory":
		return service.NewMemorySessionStore(), noop, nil

	case "redis":
		if cfg.RedisAddr == "" {
			return nil, noop, errors.New("REDIS_ADDR not configured")
		}
		key, err := resolveSessionKey(cfg)
		if err != nil {
			return nil, noop, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		logger.Debug("session store: redis", zap.String("addr", cfg.RedisAddr))
		return service.NewRedisSessionStore(client, key), func() { _ = client.Close() }, nil

	case "postgres":
		key, err := resolveSessionKey(cfg)
		if err != nil {
			return nil, noop, err
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		store := repository.NewPgSessionStore(pool, key)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ensure session schema: %w", err)
		}
		logger.Debug("session store: postgres")
		return store, pool.Close, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.SessionStore)
}

func sessionFilePath(cfg *config.Config) (string, error) {
	if cfg.SessionFile != "" {
		return cfg.SessionFile, nil
	}
	return service.DefaultSessionFile()
}

// resolveSessionKey usa SESSION_KEY o, si falta, una clave generada una vez
// y guardada junto al archivo de sesion.
func resolveSessionKey(cfg *config.Config) (string, error) {
	if key := strings.TrimSpace(cfg.SessionKey); key != "" {
		return key, nil
	}
	sessionFile, err := sessionFilePath(cfg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(filepath.Dir(sessionFile), "session-key")
	if data, err := os.ReadFile(path); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	key := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", err
	}
	return key, nil
}
