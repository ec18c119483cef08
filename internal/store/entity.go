package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Entity provides generic JSON CRUD over the KV for one domain type.
//
// Layout:
//
//	<prefix><id>                       -> JSON document
//	<prefix>idx:<name>:<value>         -> id   (unique index)
//	<prefix>midx:<name>:<value>:<id>   -> id   (multi index)
type Entity[T any] struct {
	kv      KV
	prefix  string
	indexes []index[T]
}

type index[T any] struct {
	name            string
	unique          bool
	keyGen          func(*T) []string
	lookupTransform func(string) string
}

// NewEntity creates an Entity for type T stored under prefix.
func NewEntity[T any](kv KV, prefix string) *Entity[T] {
	return &Entity[T]{kv: kv, prefix: prefix}
}

// WithIndex adds a unique secondary index.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, unique: true, keyGen: keyGen})
	return e
}

// WithIndexTransform adds a unique secondary index whose lookups pass through
// lookupTransform first (e.g. case folding).
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, unique: true, keyGen: keyGen, lookupTransform: lookupTransform})
	return e
}

// WithMultiIndex adds a non-unique secondary index.
func (e *Entity[T]) WithMultiIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, keyGen: keyGen})
	return e
}

func (e *Entity[T]) indexKey(idx index[T], value, id string) string {
	if idx.unique {
		return e.prefix + "idx:" + idx.name + ":" + value
	}
	return e.prefix + "midx:" + idx.name + ":" + value + ":" + id
}

func (e *Entity[T]) isIndexKey(key string) bool {
	rest := key[len(e.prefix):]
	return strings.HasPrefix(rest, "idx:") || strings.HasPrefix(rest, "midx:")
}

// Create stores a new entity. Returns ErrAlreadyExists if the id or a unique
// index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.kv.Update(ctx, func(txn Txn) error {
		if _, err := txn.Get(e.prefix + id); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}
		if err := e.checkConflicts(txn, id, entity, nil); err != nil {
			return err
		}
		if err := txn.Set(e.prefix+id, data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
}

// Get retrieves an entity by id. Returns ErrNotFound if absent.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	var entity T
	err := e.kv.View(ctx, func(txn Txn) error {
		val, err := txn.Get(e.prefix + id)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetByIndex retrieves an entity through a unique index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var id string
	err := e.kv.View(ctx, func(txn Txn) error {
		val, err := txn.Get(e.prefix + "idx:" + indexName + ":" + value)
		if err != nil {
			return err
		}
		id = string(val)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.Get(ctx, id)
}

// ListByIndex returns all entities carrying value in a multi index.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	var out []*T
	err := e.kv.View(ctx, func(txn Txn) error {
		return txn.Scan(e.prefix+"midx:"+indexName+":"+value+":", func(_ string, idVal []byte) error {
			doc, err := txn.Get(e.prefix + string(idVal))
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			var entity T
			if err := json.Unmarshal(doc, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			out = append(out, &entity)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put creates or replaces an entity, keeping indexes consistent.
func (e *Entity[T]) Put(ctx context.Context, id string, entity *T) error {
	return e.write(ctx, id, entity, false)
}

// Update replaces an existing entity. Returns ErrNotFound if absent.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	return e.write(ctx, id, entity, true)
}

func (e *Entity[T]) write(ctx context.Context, id string, entity *T, mustExist bool) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.kv.Update(ctx, func(txn Txn) error {
		var old *T
		val, err := txn.Get(e.prefix + id)
		switch {
		case err == nil:
			old = new(T)
			if err := json.Unmarshal(val, old); err != nil {
				return fmt.Errorf("failed to unmarshal old entity: %w", err)
			}
		case errors.Is(err, ErrNotFound):
			if mustExist {
				return ErrNotFound
			}
		default:
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		if old != nil {
			if err := e.deleteIndexes(txn, id, old); err != nil {
				return err
			}
		}
		if err := e.checkConflicts(txn, id, entity, old); err != nil {
			return err
		}
		if err := txn.Set(e.prefix+id, data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
}

// Delete removes an entity and its index keys. Deleting a missing id is a no-op.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	return e.kv.Update(ctx, func(txn Txn) error {
		val, err := txn.Get(e.prefix + id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}
		var entity T
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		if err := e.deleteIndexes(txn, id, &entity); err != nil {
			return err
		}
		return txn.Delete(e.prefix + id)
	})
}

// List returns all entities whose id starts with idPrefix, in key order.
func (e *Entity[T]) List(ctx context.Context, idPrefix string) ([]*T, error) {
	var out []*T
	err := e.kv.View(ctx, func(txn Txn) error {
		return txn.Scan(e.prefix+idPrefix, func(key string, val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if e.isIndexKey(key) {
				return nil
			}
			var entity T
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity %s: %w", key, err)
			}
			out = append(out, &entity)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Entity[T]) checkConflicts(txn Txn, id string, entity, old *T) error {
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		reused := map[string]bool{}
		if old != nil {
			for _, k := range idx.keyGen(old) {
				reused[k] = true
			}
		}
		for _, value := range idx.keyGen(entity) {
			if reused[value] {
				continue
			}
			owner, err := txn.Get(e.indexKey(idx, value, id))
			if err == nil && string(owner) != id {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, value, ErrAlreadyExists)
			}
			if err != nil && !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) writeIndexes(txn Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Set(e.indexKey(idx, value, id), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexes(txn Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Delete(e.indexKey(idx, value, id)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}
