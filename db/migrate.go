package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the documents schema up to date. Only postgres stores need it.
func Migrate(ctx context.Context, s Store) error {
	pg, ok := unwrap(s).(*postgresDB)
	if !ok {
		return nil
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pg.pool)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}

// wrapper is implemented by stores that decorate another store.
type wrapper interface {
	Unwrap() Store
}

func unwrap(s Store) Store {
	for {
		w, ok := s.(wrapper)
		if !ok {
			return s
		}
		next := w.Unwrap()
		if next == nil {
			return s
		}
		s = next
	}
}
