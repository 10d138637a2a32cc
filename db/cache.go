package db

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// Cache keeps the last fetched copy of each collection in front of a Store. A collection
// is loaded the first time it is listed and is only reloaded by an explicit Refresh.
// Writes go to the store first and the cached copy is updated only once the write
// succeeds, so a failed write never leaves the cache ahead of the store.
type Cache struct {
	store Store

	mu      sync.Mutex
	entries map[string][]Document
	// Bumped by every successful write. A load is only kept when no write to the
	// collection finished while it ran.
	gens map[string]uint64
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:   store,
		entries: make(map[string][]Document),
		gens:    make(map[string]uint64),
	}
}

func (c *Cache) Unwrap() Store {
	return c.store
}

func (c *Cache) Close() {
	c.store.Close()
}

func (c *Cache) ListAll(ctx context.Context, collection string) ([]Document, error) {
	c.mu.Lock()
	docs, ok := c.entries[collection]
	c.mu.Unlock()
	if ok {
		return cloneDocs(docs), nil
	}

	docs, err := c.load(ctx, collection, false)
	if err != nil {
		return nil, err
	}
	return cloneDocs(docs), nil
}

// load lists the collection from the store and caches the result. When a write to the
// collection finishes during the list the result may be missing it, so it is listed
// again. Unless replace is set, a copy cached by a concurrent load wins.
func (c *Cache) load(ctx context.Context, collection string, replace bool) ([]Document, error) {
	for {
		c.mu.Lock()
		gen := c.gens[collection]
		c.mu.Unlock()

		docs, err := c.store.ListAll(ctx, collection)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gens[collection] != gen {
			c.mu.Unlock()
			continue
		}
		if cached, ok := c.entries[collection]; ok && !replace {
			docs = cached
		} else {
			c.entries[collection] = docs
		}
		c.mu.Unlock()
		return docs, nil
	}
}

func (c *Cache) Get(ctx context.Context, collection, id string) (*Document, error) {
	c.mu.Lock()
	docs, ok := c.entries[collection]
	c.mu.Unlock()
	if !ok {
		return c.store.Get(ctx, collection, id)
	}

	i := slices.IndexFunc(docs, func(d Document) bool { return d.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	d := cloneDoc(docs[i])
	return &d, nil
}

func (c *Cache) Put(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, collection, id, json.RawMessage(data)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.upsert(collection, Document{ID: id, Data: data})
	return nil
}

func (c *Cache) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := c.store.Merge(ctx, collection, id, fields); err != nil {
		return err
	}

	// The merged result only exists in the store, read it back.
	d, err := c.store.Get(ctx, collection, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.gens[collection]++
		delete(c.entries, collection)
		return nil
	}
	c.upsert(collection, *d)
	return nil
}

func (c *Cache) Delete(ctx context.Context, collection, id string) error {
	if err := c.store.Delete(ctx, collection, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(collection, id)
	return nil
}

func (c *Cache) Apply(ctx context.Context, b *Batch) error {
	ops, err := b.encode()
	if err != nil {
		return err
	}
	if err := c.store.Apply(ctx, b); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range ops {
		switch o.kind {
		case opPut:
			c.upsert(o.collection, Document{ID: o.id, Data: o.data})
		case opDelete:
			c.remove(o.collection, o.id)
		}
	}
	return nil
}

// Refresh reloads the given collections from the store. With no arguments every
// collection that is currently cached is reloaded. A collection that fails to load
// keeps its previous copy.
func (c *Cache) Refresh(ctx context.Context, collections ...string) error {
	if len(collections) == 0 {
		c.mu.Lock()
		for name := range c.entries {
			collections = append(collections, name)
		}
		c.mu.Unlock()
	}

	for _, name := range collections {
		if _, err := c.load(ctx, name, true); err != nil {
			return err
		}
	}
	return nil
}

// Cached reports whether a copy of the collection is held.
func (c *Cache) Cached(collection string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[collection]
	return ok
}

// upsert must be called with the lock held. Collections that were never listed stay
// unloaded.
func (c *Cache) upsert(collection string, d Document) {
	c.gens[collection]++
	docs, ok := c.entries[collection]
	if !ok {
		return
	}
	if i := slices.IndexFunc(docs, func(e Document) bool { return e.ID == d.ID }); i >= 0 {
		docs = slices.Clone(docs)
		docs[i] = d
	} else {
		docs = append(slices.Clone(docs), d)
	}
	c.entries[collection] = docs
}

// remove must be called with the lock held.
func (c *Cache) remove(collection, id string) {
	c.gens[collection]++
	docs, ok := c.entries[collection]
	if !ok {
		return
	}
	c.entries[collection] = slices.DeleteFunc(slices.Clone(docs), func(e Document) bool { return e.ID == id })
}

func cloneDocs(docs []Document) []Document {
	result := make([]Document, len(docs))
	for i, d := range docs {
		result[i] = cloneDoc(d)
	}
	return result
}

func cloneDoc(d Document) Document {
	return Document{ID: d.ID, Data: slices.Clone(d.Data)}
}
