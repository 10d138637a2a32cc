package mockdb

import (
	"context"

	"github.com/mww/washed_up/db"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (m *DB) ListAll(ctx context.Context, collection string) ([]db.Document, error) {
	args := m.Called(ctx, collection)

	var r []db.Document
	if args.Get(0) != nil {
		r = args.Get(0).([]db.Document)
	}
	return r, args.Error(1)
}

func (m *DB) Get(ctx context.Context, collection, id string) (*db.Document, error) {
	args := m.Called(ctx, collection, id)

	var d *db.Document
	if args.Get(0) != nil {
		d = args.Get(0).(*db.Document)
	}
	return d, args.Error(1)
}

func (m *DB) Put(ctx context.Context, collection, id string, v any) error {
	args := m.Called(ctx, collection, id, v)
	return args.Error(0)
}

func (m *DB) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *DB) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *DB) Apply(ctx context.Context, b *db.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *DB) Close() {
	m.Called()
}
