package db

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_countsOperations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	s := Instrument(NewMemory(), reg)
	m := s.(*instrumented)

	require.NoError(t, s.Put(ctx, CollectionDraftOrder, "a", map[string]any{"position": 1}))
	_, err := s.ListAll(ctx, CollectionDraftOrder)
	require.NoError(t, err)
	_, err = s.Get(ctx, CollectionDraftOrder, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Apply(ctx, NewBatch().Delete(CollectionDraftOrder, "a")))
	assert.Error(t, s.Apply(ctx, NewBatch().Put(CollectionDraftOrder, "b", make(chan int))))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues(CollectionDraftOrder, "put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues(CollectionDraftOrder, "list", "ok")))
	// A missing document is an answer, not a failure.
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues(CollectionDraftOrder, "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("batch", "apply", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("batch", "apply", "error")))
}
