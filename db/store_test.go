package db

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a counter to keep collection names unique per test run, since the postgres store is
// shared between tests.
var collectionCtr = int32(0)

func newCollection(name string) string {
	return fmt.Sprintf("%s-%d", name, atomic.AddInt32(&collectionCtr, 1))
}

type pick struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Name     string `json:"memberName"`
	Year     string `json:"year"`
}

func runStoreTests(t *testing.T, s Store) {
	t.Run("put get list", func(t *testing.T) { testPutGetList(t, s) })
	t.Run("merge", func(t *testing.T) { testMerge(t, s) })
	t.Run("delete", func(t *testing.T) { testDelete(t, s) })
	t.Run("apply", func(t *testing.T) { testApply(t, s) })
	t.Run("apply bad value", func(t *testing.T) { testApplyBadValue(t, s) })
}

func testPutGetList(t *testing.T, s Store) {
	ctx := context.Background()
	coll := newCollection("draftOrder")

	docs, err := s.ListAll(ctx, coll)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = s.Get(ctx, coll, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, coll, "a", pick{ID: "a", Position: 1, Name: "Alice", Year: "2025"}))
	require.NoError(t, s.Put(ctx, coll, "b", pick{ID: "b", Position: 2, Name: "Bob", Year: "2025"}))

	d, err := s.Get(ctx, coll, "a")
	require.NoError(t, err)
	var got pick
	require.NoError(t, d.Decode(&got))
	assert.Equal(t, pick{ID: "a", Position: 1, Name: "Alice", Year: "2025"}, got)

	// Overwrite keeps a single document.
	require.NoError(t, s.Put(ctx, coll, "a", pick{ID: "a", Position: 3, Name: "Alice", Year: "2025"}))
	docs, err = s.ListAll(ctx, coll)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	require.NoError(t, docs[0].Decode(&got))
	assert.Equal(t, 3, got.Position)

	// Collections are independent namespaces.
	other, err := s.ListAll(ctx, newCollection("standings"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func testMerge(t *testing.T, s Store) {
	ctx := context.Background()
	coll := newCollection("punishments")

	require.NoError(t, s.Put(ctx, coll, "p1", map[string]any{
		"title":          "Fun Run",
		"description":    "marathon",
		"assignedTo":     "noah",
		"assignedToName": "Noah",
		"completed":      false,
		"year":           "2025",
	}))

	require.NoError(t, s.Merge(ctx, coll, "p1", map[string]any{
		"title":          "Fun Run 2",
		"completed":      true,
		"assignedTo":     DeleteField,
		"assignedToName": DeleteField,
	}))

	d, err := s.Get(ctx, coll, "p1")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, d.Decode(&got))
	assert.Equal(t, map[string]any{
		"title":       "Fun Run 2",
		"description": "marathon",
		"completed":   true,
		"year":        "2025",
	}, got)

	// Merging into a missing document creates it.
	require.NoError(t, s.Merge(ctx, coll, "p2", map[string]any{"title": "New"}))
	d, err = s.Get(ctx, coll, "p2")
	require.NoError(t, err)
	got = nil
	require.NoError(t, d.Decode(&got))
	assert.Equal(t, map[string]any{"title": "New"}, got)
}

func testDelete(t *testing.T, s Store) {
	ctx := context.Background()
	coll := newCollection("standings")

	require.NoError(t, s.Put(ctx, coll, "s1", pick{ID: "s1"}))
	require.NoError(t, s.Delete(ctx, coll, "s1"))
	_, err := s.Get(ctx, coll, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is fine.
	assert.NoError(t, s.Delete(ctx, coll, "s1"))
}

func testApply(t *testing.T, s Store) {
	ctx := context.Background()
	coll := newCollection("draftOrder")

	require.NoError(t, s.Put(ctx, coll, "a", pick{ID: "a", Position: 1}))
	require.NoError(t, s.Put(ctx, coll, "b", pick{ID: "b", Position: 2}))
	require.NoError(t, s.Put(ctx, coll, "c", pick{ID: "c", Position: 3}))

	b := NewBatch().
		Delete(coll, "b").
		Put(coll, "c", pick{ID: "c", Position: 2})
	require.NoError(t, s.Apply(ctx, b))

	docs, err := s.ListAll(ctx, coll)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	positions := map[string]int{}
	for _, d := range docs {
		var p pick
		require.NoError(t, d.Decode(&p))
		positions[d.ID] = p.Position
	}
	assert.Equal(t, map[string]int{"a": 1, "c": 2}, positions)

	assert.NoError(t, s.Apply(ctx, NewBatch()))
}

func testApplyBadValue(t *testing.T, s Store) {
	ctx := context.Background()
	coll := newCollection("draftOrder")

	b := NewBatch().
		Put(coll, "a", pick{ID: "a", Position: 1}).
		Put(coll, "b", func() {})
	err := s.Apply(ctx, b)
	require.Error(t, err)

	// Nothing from the failed batch was written.
	docs, err := s.ListAll(ctx, coll)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentDecode_badData(t *testing.T) {
	d := Document{ID: "x", Data: []byte("{not json")}
	var v map[string]any
	err := d.Decode(&v)
	if err == nil {
		t.Fatal("expected an error decoding bad data")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("unexpected error type: %v", err)
	}
}
