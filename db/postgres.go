package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func New(ctx context.Context, connString string) (Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &postgresDB{pool: pool}, nil
}

type postgresDB struct {
	pool *pgxpool.Pool
}

func (db *postgresDB) Close() {
	db.pool.Close()
}

func (db *postgresDB) ListAll(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT id, data FROM documents
					WHERE collection=@collection
					ORDER BY created, id`

	args := pgx.NamedArgs{
		"collection": collection,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", collection, err)
	}
	defer rows.Close()

	results := make([]Document, 0, 16)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s document: %w", collection, err)
		}
		results = append(results, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", collection, err)
	}

	return results, nil
}

func (db *postgresDB) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `SELECT id, data FROM documents WHERE collection=@collection AND id=@id`

	args := pgx.NamedArgs{
		"collection": collection,
		"id":         id,
	}
	d, err := scanDocument(db.pool.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error reading %s/%s: %w", collection, id, err)
	}
	return d, nil
}

func (db *postgresDB) Put(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s/%s: %w", collection, id, err)
	}

	if _, err := db.pool.Exec(ctx, upsertQuery, namedArgsForPut(collection, id, data)); err != nil {
		return fmt.Errorf("error saving %s/%s: %w", collection, id, err)
	}
	return nil
}

func (db *postgresDB) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	const query = `INSERT INTO documents (collection, id, data)
		VALUES (@collection, @id, @data)
		ON CONFLICT (collection, id) DO UPDATE
		SET data=(documents.data || EXCLUDED.data) - @deleted::text[],
			updated=now()`

	data, deleted, err := splitMerge(fields)
	if err != nil {
		return err
	}

	args := namedArgsForPut(collection, id, data)
	args["deleted"] = deleted
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error merging %s/%s: %w", collection, id, err)
	}
	return nil
}

func (db *postgresDB) Delete(ctx context.Context, collection, id string) error {
	if _, err := db.pool.Exec(ctx, deleteQuery, namedArgsForDelete(collection, id)); err != nil {
		return fmt.Errorf("error deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

func (db *postgresDB) Apply(ctx context.Context, b *Batch) error {
	ops, err := b.encode()
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, o := range ops {
		switch o.kind {
		case opPut:
			_, err = tx.Exec(ctx, upsertQuery, namedArgsForPut(o.collection, o.id, o.data))
		case opDelete:
			_, err = tx.Exec(ctx, deleteQuery, namedArgsForDelete(o.collection, o.id))
		}
		if err != nil {
			return fmt.Errorf("error applying batch write to %s/%s: %w", o.collection, o.id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error commiting batch transaction: %w", err)
	}
	return nil
}

const upsertQuery = `INSERT INTO documents (collection, id, data)
	VALUES (@collection, @id, @data)
	ON CONFLICT (collection, id) DO UPDATE
	SET data=EXCLUDED.data,
		updated=now()`

const deleteQuery = `DELETE FROM documents WHERE collection=@collection AND id=@id`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var data []byte
	if err := row.Scan(&d.ID, &data); err != nil {
		return nil, err
	}
	d.Data = json.RawMessage(data)
	return &d, nil
}

func namedArgsForPut(collection, id string, data json.RawMessage) pgx.NamedArgs {
	return pgx.NamedArgs{
		"collection": collection,
		"id":         id,
		// Sent as text so pgx passes the JSON through unchanged.
		"data": string(data),
	}
}

func namedArgsForDelete(collection, id string) pgx.NamedArgs {
	return pgx.NamedArgs{
		"collection": collection,
		"id":         id,
	}
}
