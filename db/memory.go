package db

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// NewMemory returns a Store that keeps everything in process memory. It is used by the
// tests and by the server when no database is configured.
func NewMemory() Store {
	return &memoryDB{collections: make(map[string]map[string]*memoryDoc)}
}

type memoryDoc struct {
	seq  int64
	data json.RawMessage
}

type memoryDB struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]*memoryDoc
}

func (db *memoryDB) Close() {}

func (db *memoryDB) ListAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()

	docs := db.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return int(docs[a].seq - docs[b].seq)
	})

	results := make([]Document, 0, len(ids))
	for _, id := range ids {
		results = append(results, Document{ID: id, Data: slices.Clone(docs[id].data)})
	}
	return results, nil
}

func (db *memoryDB) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()

	d, ok := db.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: slices.Clone(d.data)}, nil
}

func (db *memoryDB) Put(ctx context.Context, collection, id string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s/%s: %w", collection, id, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.put(collection, id, data)
	return nil
}

func (db *memoryDB) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	set, deleted, err := splitMerge(fields)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	merged := make(map[string]json.RawMessage)
	if d, ok := db.collections[collection][id]; ok {
		if err := json.Unmarshal(d.data, &merged); err != nil {
			return fmt.Errorf("error decoding %s/%s: %w", collection, id, err)
		}
	}
	var updates map[string]json.RawMessage
	if err := json.Unmarshal(set, &updates); err != nil {
		return fmt.Errorf("error decoding merge fields: %w", err)
	}
	for k, v := range updates {
		merged[k] = v
	}
	for _, k := range deleted {
		delete(merged, k)
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("error encoding %s/%s: %w", collection, id, err)
	}
	db.put(collection, id, data)
	return nil
}

func (db *memoryDB) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.collections[collection], id)
	return nil
}

func (db *memoryDB) Apply(ctx context.Context, b *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ops, err := b.encode()
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, o := range ops {
		switch o.kind {
		case opPut:
			db.put(o.collection, o.id, o.data)
		case opDelete:
			delete(db.collections[o.collection], o.id)
		}
	}
	return nil
}

// put must be called with the write lock held.
func (db *memoryDB) put(collection, id string, data json.RawMessage) {
	docs, ok := db.collections[collection]
	if !ok {
		docs = make(map[string]*memoryDoc)
		db.collections[collection] = docs
	}
	if d, ok := docs[id]; ok {
		d.data = data
		return
	}
	db.seq++
	docs[id] = &memoryDoc{seq: db.seq, data: data}
}
