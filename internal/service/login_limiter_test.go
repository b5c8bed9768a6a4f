package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestMemoryLoginLimiter(t *testing.T) {
	now := fixedNow
	l := newMemoryLoginLimiter(time.Minute, 2, func() time.Time { return now })

	if !l.Allow("ana@example.com|1.2.3.4") || !l.Allow(" ANA@example.com|1.2.3.4 ") {
		t.Fatalf("expected first two attempts allowed")
	}
	if l.Allow("ana@example.com|1.2.3.4") {
		t.Fatalf("expected third attempt denied")
	}
	if !l.Allow("otro@example.com|1.2.3.4") {
		t.Fatalf("expected independent keys")
	}
	if l.Allow("  ") {
		t.Fatalf("expected empty key rejected")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("ana@example.com|1.2.3.4") {
		t.Fatalf("expected attempts allowed after the window")
	}
}

func TestMemoryLoginLimiterEvictsIdleKeys(t *testing.T) {
	now := fixedNow
	l := newMemoryLoginLimiter(time.Minute, 2, func() time.Time { return now })

	l.Allow("a@example.com|1.1.1.1")
	l.Allow("b@example.com|1.1.1.1")
	if len(l.hits) != 2 {
		t.Fatalf("expected two tracked keys, got %d", len(l.hits))
	}

	now = now.Add(2 * time.Minute)
	if !l.Allow("c@example.com|1.1.1.1") {
		t.Fatalf("expected new key allowed")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expected idle keys evicted, got %d", len(l.hits))
	}
	if _, ok := l.hits["c@example.com|1.1.1.1"]; !ok {
		t.Fatalf("expected current key kept")
	}
}

func TestRedisLoginLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLoginLimiter
		if !l.Allow("ana@example.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newRedisLoginLimiter(mock, 2*time.Minute, 3)
		if !l.Allow(" Ana@Example.com|10.0.0.1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "docflow:login:rl:ana@example.com|10.0.0.1" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisLoginAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newRedisLoginLimiter(&mockRedisEvaler{result: 4}, time.Minute, 3)
		if l.Allow("ana@example.com") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newRedisLoginLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute, 3)
		if !l.Allow("ana@example.com") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
