package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps JSON-encoded values in a single table so visitor data
// survives server restarts.
type SQLiteStore[T any] struct {
	db  *sql.DB
	mu  sync.Mutex // serializes writes to avoid SQLITE_BUSY
	ttl time.Duration
}

// NewSQLiteStore opens (or creates) the database at dsn. A zero ttl keeps
// rows forever.
func NewSQLiteStore[T any](dsn string, ttl time.Duration) (*SQLiteStore[T], error) {
	if !strings.Contains(dsn, "busy_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn = fmt.Sprintf("%s%s_pragma=busy_timeout=5000", dsn, sep)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS kv_sessions (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_kv_sessions_updated_at ON kv_sessions(updated_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv_sessions table: %w", err)
	}
	return &SQLiteStore[T]{db: db, ttl: ttl}, nil
}

func (s *SQLiteStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var data string
	var updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT data, updated_at FROM kv_sessions WHERE id = ?", id).Scan(&data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get session %s: %w", id, err)
	}
	if s.ttl > 0 && time.Since(time.Unix(updated, 0)) > s.ttl {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return zero, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return v, true, nil
}

func (s *SQLiteStore[T]) Put(ctx context.Context, id string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_sessions (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Cleanup removes rows older than the store's ttl.
func (s *SQLiteStore[T]) Cleanup(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM kv_sessions WHERE updated_at < ?",
		time.Now().Add(-s.ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore[T]) NewID() string {
	return uuid.NewString()
}

func (s *SQLiteStore[T]) Close() error {
	return s.db.Close()
}
