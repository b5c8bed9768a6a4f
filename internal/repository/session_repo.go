package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS client_sessions (
		session_key TEXT NOT NULL,
		name        TEXT NOT NULL,
		value       TEXT NOT NULL,
		expires_at  TIMESTAMPTZ,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (session_key, name)
	)
`

// PgSessionStore guarda los valores de sesion de un cliente en postgres.
// Cumple service.SessionStore.
type PgSessionStore struct {
	pool       *pgxpool.Pool
	sessionKey string
	timeout    time.Duration
}

func NewPgSessionStore(pool *pgxpool.Pool, sessionKey string) *PgSessionStore {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		sessionKey = "default"
	}
	return &PgSessionStore{
		pool:       pool,
		sessionKey: sessionKey,
		timeout:    2 * time.Second,
	}
}

// EnsureSchema crea la tabla client_sessions si no existe.
func (r *PgSessionStore) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, sessionSchema)
	return err
}

func (r *PgSessionStore) Get(key string) (string, bool, error) {
	const query = `
		SELECT value
		FROM client_sessions
		WHERE session_key = $1 AND name = $2
		  AND (expires_at IS NULL OR expires_at > now())
	`
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var value string
	err := r.pool.QueryRow(ctx, query, r.sessionKey, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set escribe todos los valores en una misma transaccion.
func (r *PgSessionStore) Set(values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	const query = `
		INSERT INTO client_sessions (session_key, name, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (session_key, name)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()
	`
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expiresAt = &t
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for name, value := range values {
			if _, err := tx.Exec(ctx, query, r.sessionKey, name, value, expiresAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PgSessionStore) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `
		DELETE FROM client_sessions
		WHERE session_key = $1 AND name = ANY($2)
	`
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	_, err := r.pool.Exec(ctx, query, r.sessionKey, keys)
	return err
}
