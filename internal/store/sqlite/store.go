// Package sqlite provides a SQLite key-value backend for the store package.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ohmyreads/ohmyreads-server/internal/store"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
) WITHOUT ROWID;
`

// KV is a store.KV backed by a single SQLite table.
type KV struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.KV = (*KV)(nil)

// Open creates a SQLite database at path. ":memory:" gives a private in-memory database.
// It configures WAL mode, sets pragmas, and creates the kv table.
func Open(path string, logger *slog.Logger) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if path == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite database opened", "path", path)
	}
	return &KV{db: db, logger: logger}, nil
}

// View implements store.KV.
func (k *KV) View(ctx context.Context, fn func(store.Txn) error) error {
	return k.run(ctx, true, fn)
}

// Update implements store.KV.
func (k *KV) Update(ctx context.Context, fn func(store.Txn) error) error {
	return k.run(ctx, false, fn)
}

func (k *KV) run(ctx context.Context, readOnly bool, fn func(store.Txn) error) error {
	tx, err := k.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&txn{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Ping implements store.KV.
func (k *KV) Ping(ctx context.Context) error {
	return k.db.PingContext(ctx)
}

// Close implements store.KV.
func (k *KV) Close() error {
	if k.logger != nil {
		k.logger.Info("Closing sqlite database")
	}
	return k.db.Close()
}

type txn struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *txn) Get(key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (t *txn) Set(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (t *txn) Delete(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Scan reads the matching rows fully before calling fn so fn may issue
// further queries on the same transaction.
func (t *txn) Scan(prefix string, fn func(key string, value []byte) error) error {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key`,
		prefix, prefixUpperBound(prefix))
	if err != nil {
		return fmt.Errorf("scan %s: %w", prefix, err)
	}

	type pair struct {
		key   string
		value []byte
	}
	var pairs []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.key, &p.value); err != nil {
			rows.Close()
			return fmt.Errorf("scan row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, p := range pairs {
		if !strings.HasPrefix(p.key, prefix) {
			continue
		}
		if err := fn(p.key, p.value); err != nil {
			if errors.Is(err, store.ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}

// prefixUpperBound returns the smallest string greater than every string
// starting with prefix.
func prefixUpperBound(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	// Prefix is empty or all 0xff bytes: no upper bound.
	return "\U0010FFFF\U0010FFFF"
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
