package testutils

import (
	"context"
	"log"
	"time"

	"github.com/mww/washed_up/containers"
	"github.com/mww/washed_up/db"
)

// TestDB is a migrated postgres store running in a throwaway container.
type TestDB struct {
	pg *containers.Postgres
	DB db.Store
}

func NewTestDB() *TestDB {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := containers.StartPostgres(ctx)
	if err != nil {
		log.Fatalf("error starting test database: %v", err)
	}

	store, err := db.New(ctx, pg.ConnectionString())
	if err != nil {
		_ = pg.Stop(context.Background())
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := db.Migrate(ctx, store); err != nil {
		store.Close()
		_ = pg.Stop(context.Background())
		log.Fatalf("error migrating db in test container: %v", err)
	}

	return &TestDB{pg: pg, DB: store}
}

func (db *TestDB) Shutdown() {
	db.DB.Close()
	if err := db.pg.Stop(context.Background()); err != nil {
		log.Printf("%v", err)
	}
}
