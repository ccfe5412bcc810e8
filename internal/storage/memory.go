package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStorage keeps documents as JSON in process memory. Values are
// copied on every read and write so callers never share state with the store.
type MemoryStorage struct {
	mu    sync.RWMutex
	colls map[string]map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{colls: make(map[string]map[string][]byte)}
}

func (m *MemoryStorage) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStorage) Close() error {
	return nil
}

type memoryCollection struct {
	store *MemoryStorage
	name  string
}

func (c *memoryCollection) Put(ctx context.Context, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	docs, ok := c.store.colls[c.name]
	if !ok {
		docs = make(map[string][]byte)
		c.store.colls[c.name] = docs
	}
	docs[id] = data
	return nil
}

func (c *memoryCollection) Get(ctx context.Context, id string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.RLock()
	data, ok := c.store.colls[c.name][id]
	c.store.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, ok := c.store.colls[c.name][id]; !ok {
		return ErrNotFound
	}
	delete(c.store.colls[c.name], id)
	return nil
}

func (c *memoryCollection) List(ctx context.Context, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.RLock()
	docs := c.store.colls[c.name]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw := make([][]byte, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, docs[id])
	}
	c.store.mu.RUnlock()

	return decodeList(raw, dst)
}
