package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names of the league documents.
const (
	CollectionLeague      = "league"
	CollectionDraftOrder  = "draftOrder"
	CollectionStandings   = "standings"
	CollectionPunishments = "punishments"
	CollectionMembers     = "members"
	CollectionAccounts    = "accounts"

	// LeagueInfoID is the id of the singleton league document.
	LeagueInfoID = "info"
)

var (
	ErrNotFound error = errors.New("document not found")
)

// DeleteField removes a field when used as a value in Store.Merge.
var DeleteField = deleteField{}

type deleteField struct{}

// Document is a single record of a collection.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document data into v.
func (d *Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("error decoding document %s: %w", d.ID, err)
	}
	return nil
}

// Store is a document store of independent collections. There is no query filtering,
// pagination or compare-and-swap; every list returns the whole collection.
type Store interface {
	// ListAll returns every document of the collection, oldest first.
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// Get returns ErrNotFound if there is no document with the id.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Put creates or fully overwrites a document.
	Put(ctx context.Context, collection, id string, v any) error
	// Merge sets the given top level fields, creating the document if needed. A field
	// set to DeleteField is removed.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Apply commits all the writes of the batch or none of them.
	Apply(ctx context.Context, b *Batch) error
	Close()
}

// Refresher is implemented by stores that keep local copies of collections.
type Refresher interface {
	Refresh(ctx context.Context, collections ...string) error
}

type opKind int

const (
	opPut opKind = iota
	opDelete
)

type op struct {
	kind       opKind
	collection string
	id         string
	value      any
	data       json.RawMessage
}

// Batch is a set of writes applied atomically by Store.Apply.
type Batch struct {
	ops []op
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Put(collection, id string, v any) *Batch {
	b.ops = append(b.ops, op{kind: opPut, collection: collection, id: id, value: v})
	return b
}

func (b *Batch) Delete(collection, id string) *Batch {
	b.ops = append(b.ops, op{kind: opDelete, collection: collection, id: id})
	return b
}

func (b *Batch) Len() int {
	return len(b.ops)
}

// encode marshals every put so a bad value fails the batch before anything is written.
func (b *Batch) encode() ([]op, error) {
	result := make([]op, len(b.ops))
	for i, o := range b.ops {
		if o.kind == opPut {
			data, err := json.Marshal(o.value)
			if err != nil {
				return nil, fmt.Errorf("error encoding %s/%s: %w", o.collection, o.id, err)
			}
			o.data = data
		}
		result[i] = o
	}
	return result, nil
}

// splitMerge separates the fields to set from the fields to delete.
func splitMerge(fields map[string]any) (json.RawMessage, []string, error) {
	set := make(map[string]any, len(fields))
	del := make([]string, 0)
	for k, v := range fields {
		if _, ok := v.(deleteField); ok {
			del = append(del, k)
			continue
		}
		set[k] = v
	}
	data, err := json.Marshal(set)
	if err != nil {
		return nil, nil, fmt.Errorf("error encoding merge fields: %w", err)
	}
	return data, del, nil
}
