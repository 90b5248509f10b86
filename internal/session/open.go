package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnknownDriver is returned by Open for an unsupported backend name.
var ErrUnknownDriver = errors.New("session: unknown store driver")

// Options selects and configures the visitor key-space backend.
type Options struct {
	Driver     string // "memory", "sqlite" or "redis"
	SQLitePath string
	RedisAddr  string
	TTL        time.Duration
}

// Open builds the Store named by opts.Driver. The returned close func is
// never nil when err is nil.
func Open(ctx context.Context, opts Options) (Store[Values], func() error, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore[Values](), func() error { return nil }, nil
	case "sqlite":
		st, err := NewSQLiteStore[Values](opts.SQLitePath, opts.TTL)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", opts.RedisAddr, err)
		}
		st := NewRedisStore[Values](client, "", opts.TTL)
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
