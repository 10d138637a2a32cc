// Package containers starts throwaway infrastructure for the integration tests.
package containers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ImageEnv overrides the postgres image, e.g. to match the production server version.
const ImageEnv = "WASHED_UP_TEST_POSTGRES_IMAGE"

const (
	defaultImage = "postgres:16.3-alpine"
	database     = "washed_up"
	user         = "wuuser"
	password     = "secret"
)

// Postgres is an empty postgres database. The documents schema is created by the store
// migrations.
type Postgres struct {
	container *postgres.PostgresContainer
	connStr   string
}

func StartPostgres(ctx context.Context) (*Postgres, error) {
	image := os.Getenv(ImageEnv)
	if image == "" {
		image = defaultImage
	}

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(database),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			// The server restarts once after the init phase, so wait for the second message.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("error starting %s: %w", image, err)
	}

	// The container is not configured for TLS.
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, fmt.Errorf("error getting connection string: %w", err)
	}

	return &Postgres{container: container, connStr: connStr}, nil
}

func (p *Postgres) ConnectionString() string {
	return p.connStr
}

func (p *Postgres) Stop(ctx context.Context) error {
	if err := p.container.Terminate(ctx); err != nil {
		return fmt.Errorf("error terminating postgres container: %w", err)
	}
	return nil
}
