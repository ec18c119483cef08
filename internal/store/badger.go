package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// BadgerKV is the default KV backend.
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a Badger database at path.
// An empty path opens an in-memory database.
func OpenBadger(path string, logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true       // Survive crashes without corrupting goal counters
		opts.CompactL0OnClose = true // Faster startup
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened", "path", path, "in_memory", path == "")
	}
	return &BadgerKV{db: db, logger: logger}, nil
}

// View implements KV.
func (b *BadgerKV) View(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// Update implements KV.
func (b *BadgerKV) Update(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// Ping implements KV.
func (b *BadgerKV) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close implements KV.
func (b *BadgerKV) Close() error {
	if b.logger != nil {
		b.logger.Info("Closing badger database")
	}
	return b.db.Close()
}

type badgerTxn struct {
	txn *badger.Txn
}

func (t *badgerTxn) Get(key string) ([]byte, error) {
	item, err := t.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return item.ValueCopy(nil)
}

func (t *badgerTxn) Set(key string, value []byte) error {
	return t.txn.Set([]byte(key), value)
}

func (t *badgerTxn) Delete(key string) error {
	return t.txn.Delete([]byte(key))
}

func (t *badgerTxn) Scan(prefix string, fn func(key string, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := t.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(string(item.KeyCopy(nil)), val); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}
