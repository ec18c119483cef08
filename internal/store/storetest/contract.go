// Package storetest holds a behavioral test suite every store.KV backend must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmyreads/ohmyreads-server/internal/store"
)

// RunKVContract exercises kv against the store.KV contract.
func RunKVContract(t *testing.T, kv store.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		err := kv.View(ctx, func(txn store.Txn) error {
			_, err := txn.Get("nope")
			return err
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set get delete", func(t *testing.T) {
		require.NoError(t, kv.Update(ctx, func(txn store.Txn) error {
			return txn.Set("a:1", []byte(`{"n":1}`))
		}))

		var got []byte
		require.NoError(t, kv.View(ctx, func(txn store.Txn) error {
			var err error
			got, err = txn.Get("a:1")
			return err
		}))
		assert.JSONEq(t, `{"n":1}`, string(got))

		require.NoError(t, kv.Update(ctx, func(txn store.Txn) error {
			return txn.Delete("a:1")
		}))
		err := kv.View(ctx, func(txn store.Txn) error {
			_, err := txn.Get("a:1")
			return err
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("failed update rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := kv.Update(ctx, func(txn store.Txn) error {
			if err := txn.Set("rb:1", []byte("x")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = kv.View(ctx, func(txn store.Txn) error {
			_, err := txn.Get("rb:1")
			return err
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("scan is prefix bounded and ordered", func(t *testing.T) {
		require.NoError(t, kv.Update(ctx, func(txn store.Txn) error {
			for _, k := range []string{"p:b", "p:a", "p:c", "q:a", "p"} {
				if err := txn.Set(k, []byte(k)); err != nil {
					return err
				}
			}
			return nil
		}))

		var keys []string
		require.NoError(t, kv.View(ctx, func(txn store.Txn) error {
			return txn.Scan("p:", func(key string, _ []byte) error {
				keys = append(keys, key)
				return nil
			})
		}))
		assert.Equal(t, []string{"p:a", "p:b", "p:c"}, keys)
	})

	t.Run("scan stops early", func(t *testing.T) {
		var keys []string
		require.NoError(t, kv.View(ctx, func(txn store.Txn) error {
			return txn.Scan("p:", func(key string, _ []byte) error {
				keys = append(keys, key)
				return store.ErrStopScan
			})
		}))
		assert.Len(t, keys, 1)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, kv.Ping(ctx))
	})
}
