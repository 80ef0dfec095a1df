package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Keys of the persisted local state.
const (
	KeyPostsCache          = "blog_posts_cache"
	KeyPostsCacheTimestamp = "blog_posts_cache_timestamp"
	KeyEditPost            = "editPost"
)

var (
	// ErrStorage wraps every failure of the persisted key/value store.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound is returned by Get for a missing key.
	ErrNotFound = errors.New("key not found")
)

// Repository is a small key/value store on top of sqlite. Values are
// zstd-compressed at rest.
type Repository struct {
	db    *sql.DB
	codec zstdCodec
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %v", ErrStorage, err)
	}
	codec, err := newZstdCodec()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init compression: %w: %v", ErrStorage, err)
	}
	return &Repository{db: db, codec: codec}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	r.codec.close()
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w: %v", ErrStorage, err)
	}
	return nil
}

func (r *Repository) CheckWritable(ctx context.Context) error {
	const checkKey = "__write_check__"
	if err := r.Set(ctx, checkKey, []byte("ok")); err != nil {
		return err
	}
	return r.Delete(ctx, checkKey)
}

func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var stored []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w: %v", key, ErrStorage, err)
	}
	value, err := r.codec.decode(stored)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w: %v", key, ErrStorage, err)
	}
	return value, nil
}

func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`, key, r.codec.encode(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %q: %w: %v", key, ErrStorage, err)
	}
	return nil
}

// SetMany writes all pairs in one transaction.
func (r *Repository) SetMany(ctx context.Context, values map[string][]byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %v", ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO kv (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`)
	if err != nil {
		return fmt.Errorf("prepare set statement: %w: %v", ErrStorage, err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, r.codec.encode(value), now); err != nil {
			return fmt.Errorf("set %q: %w: %v", key, ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w: %v", ErrStorage, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w: %v", key, ErrStorage, err)
	}
	return nil
}
