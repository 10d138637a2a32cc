package db

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/mww/washed_up/containers"
)

// A test global postgres store shared by all of the tests instead of setting up a new
// one each time. It is nil when running with -short.
var testDB Store

// TestMain controls the main for the tests and allows for setup and shutdown of the tests
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	pg, err := containers.StartPostgres(ctx)
	if err != nil {
		fmt.Printf("error starting postgres: %v\n", err)
		os.Exit(-1)
	}

	defer func() {
		// Catch all panics to make sure the container is stopped
		if r := recover(); r != nil {
			_ = pg.Stop(ctx)
			fmt.Printf("panic - %v\n", r)
		}
	}()

	testDB, err = New(ctx, pg.ConnectionString())
	if err != nil {
		fmt.Printf("error connecting to db: %v\n", err)
		_ = pg.Stop(ctx)
		os.Exit(-1)
	}
	if err := Migrate(ctx, testDB); err != nil {
		fmt.Printf("error migrating db: %v\n", err)
		testDB.Close()
		_ = pg.Stop(ctx)
		os.Exit(-1)
	}

	code := m.Run()
	testDB.Close()
	if err := pg.Stop(ctx); err != nil {
		fmt.Println(err)
	}
	os.Exit(code)
}

func postgresForTest(t *testing.T) Store {
	if testDB == nil {
		t.Skip("postgres container not started in -short mode")
	}
	return testDB
}

func TestPostgres_store(t *testing.T) {
	runStoreTests(t, postgresForTest(t))
}

func TestPostgres_migrateIsIdempotent(t *testing.T) {
	s := postgresForTest(t)
	if err := Migrate(context.Background(), s); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
}

func TestMemory_store(t *testing.T) {
	runStoreTests(t, NewMemory())
}

func TestCache_store(t *testing.T) {
	runStoreTests(t, NewCache(NewMemory()))
}
