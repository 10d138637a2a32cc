package db

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrument wraps the store so every operation is counted and timed.
func Instrument(store Store, reg prometheus.Registerer) Store {
	m := &instrumented{
		store: store,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "washedup",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Document store operations by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "washedup",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of document store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "washedup",
			Subsystem: "store",
			Name:      "batch_writes",
			Help:      "Number of writes per atomic batch.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),
	}
	reg.MustRegister(m.ops, m.latency, m.batchSize)
	return m
}

type instrumented struct {
	store     Store
	ops       *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	batchSize prometheus.Histogram
}

func (m *instrumented) Unwrap() Store {
	return m.store
}

func (m *instrumented) Close() {
	m.store.Close()
}

func (m *instrumented) observe(collection, op string, start time.Time, err error) {
	result := "ok"
	if err != nil && !errors.Is(err, ErrNotFound) {
		result = "error"
	}
	m.ops.WithLabelValues(collection, op, result).Inc()
	m.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *instrumented) ListAll(ctx context.Context, collection string) ([]Document, error) {
	start := time.Now()
	docs, err := m.store.ListAll(ctx, collection)
	m.observe(collection, "list", start, err)
	return docs, err
}

func (m *instrumented) Get(ctx context.Context, collection, id string) (*Document, error) {
	start := time.Now()
	d, err := m.store.Get(ctx, collection, id)
	m.observe(collection, "get", start, err)
	return d, err
}

func (m *instrumented) Put(ctx context.Context, collection, id string, v any) error {
	start := time.Now()
	err := m.store.Put(ctx, collection, id, v)
	m.observe(collection, "put", start, err)
	return err
}

func (m *instrumented) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	start := time.Now()
	err := m.store.Merge(ctx, collection, id, fields)
	m.observe(collection, "merge", start, err)
	return err
}

func (m *instrumented) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := m.store.Delete(ctx, collection, id)
	m.observe(collection, "delete", start, err)
	return err
}

func (m *instrumented) Apply(ctx context.Context, b *Batch) error {
	start := time.Now()
	err := m.store.Apply(ctx, b)
	m.observe("batch", "apply", start, err)
	if err == nil {
		m.batchSize.Observe(float64(b.Len()))
	}
	return err
}
