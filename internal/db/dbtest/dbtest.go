// Package dbtest starts and prepares PostgreSQL and Redis for tests.
package dbtest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"medportal/internal/db"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MigrationsPath points at the repository migrations directory unless
// TEST_MIGRATIONS_PATH is set.
func MigrationsPath() string {
	if path := os.Getenv("TEST_MIGRATIONS_PATH"); path != "" {
		return path
	}
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

func ApplyMigrations(migrationsPath string, connString string) (err error) {
	m, err := db.NewMigrator(migrationsPath, connString)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, m.Close()) }()
	return m.Up()
}

// CreateTestPool connects to TEST_POSTGRESQL_URL or, if it is not set, to a
// throwaway PostgreSQL container. The test is skipped if neither is available.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		connString = StartTestPostgres(t)
	}

	if err := ApplyMigrations(MigrationsPath(), connString); err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// StartTestPostgres starts an empty PostgreSQL container and returns its
// connection string.
func StartTestPostgres(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("medportal_test"),
		postgres.WithUsername("medportal"),
		postgres.WithPassword("medportal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Could not get PostgreSQL connection string: %v", err)
	}
	return connString
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE \"user\" RESTART IDENTITY")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}

// CreateTestRedisClient connects to TEST_REDIS_URL or, if it is not set, to a
// throwaway Redis container. The test is skipped if neither is available.
func CreateTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			t.Skipf("Redis is not available: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(ctx) })

		endpoint, err := container.Endpoint(ctx, "")
		if err != nil {
			t.Fatalf("Could not get Redis endpoint: %v", err)
		}
		redisURL = "redis://" + endpoint + "/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Could not parse Redis URL: %v", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Could not connect to Redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}
