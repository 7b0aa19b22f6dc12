package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

const schemaLockID int64 = 2026101901

// CacheStore persists embedding cache entries in the resume_cache table.
type CacheStore struct {
	db       *sql.DB
	executor *resilience.Executor
	now      func() time.Time
}

func NewCacheStore(db *sql.DB, executor *resilience.Executor) *CacheStore {
	return &CacheStore{db: db, executor: executor, now: time.Now}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *CacheStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/mcp startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS resume_cache (
	cache_key TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

type lookup struct {
	payload []byte
	found   bool
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := resilience.Call(ctx, s.executor, "postgres.cache_get", func(ctx context.Context) (lookup, error) {
		var payload []byte
		err := s.db.QueryRowContext(ctx, `SELECT payload FROM resume_cache WHERE cache_key = $1`, key).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return lookup{}, nil
		}
		if err != nil {
			return lookup{}, fmt.Errorf("select cache entry: %w", err)
		}
		return lookup{payload: payload, found: true}, nil
	}, classifyPostgresError)
	if err != nil {
		return nil, false, resilience.WrapTemporary("postgres cache get", err, classifyPostgresError)
	}
	return res.payload, res.found, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.executor.Execute(ctx, "postgres.cache_set", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO resume_cache (cache_key, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (cache_key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
`, key, value, s.now().UTC())
		if err != nil {
			return fmt.Errorf("upsert cache entry: %w", err)
		}
		return nil
	}, classifyPostgresError)
	return resilience.WrapTemporary("postgres cache set", err, classifyPostgresError)
}

func (s *CacheStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resume_cache WHERE cache_key = $1`, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
