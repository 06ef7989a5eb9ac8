package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection stores a whole slice under one key. Every write rewrites the slice,
// so concurrent writers in different processes are last-write-wins.
type Collection[T any] struct {
	store Store
	key   string
	mu    sync.Mutex
}

func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, raw)
}

// Update runs fn over the current items and saves what it returns.
// Updates through the same Collection are serialised.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.Save(ctx, updated)
}
