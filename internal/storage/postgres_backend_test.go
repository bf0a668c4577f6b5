package storage_test

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/JamesPrial/gift-tracker/internal/storage"
)

// dockerAvailable checks whether the Docker daemon is reachable.
// testcontainers-go panics (rather than returning an error) when Docker
// is not installed, so check for it up-front.
func dockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// startPostgres spins up a PostgreSQL 16 container and returns its
// connection string. If Docker is not available the test is skipped.
func startPostgres(t *testing.T) string {
	t.Helper()

	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return connStr
}

func Test_PostgresBackend_Contract(t *testing.T) {
	connStr := startPostgres(t)

	// One container serves every subtest; a fresh namespace isolates them.
	var seq atomic.Int64
	runBackendContract(t, func(t *testing.T) storage.StorageBackend {
		ns := fmt.Sprintf("contract_%d", seq.Add(1))
		b, err := storage.NewPostgresBackend(connStr, ns)
		if err != nil {
			t.Fatalf("NewPostgresBackend() unexpected error: %v", err)
		}
		return b
	})
}

func Test_PostgresBackend_Schema(t *testing.T) {
	connStr := startPostgres(t)

	if _, err := storage.NewPostgresBackend(connStr, ""); err != nil {
		t.Fatalf("NewPostgresBackend() unexpected error: %v", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("pgx.Connect() unexpected error: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	var dataType string
	err = conn.QueryRow(ctx,
		`SELECT data_type FROM information_schema.columns
		 WHERE table_name = 'kv_entries' AND column_name = 'value'`,
	).Scan(&dataType)
	if err != nil {
		t.Fatalf("kv_entries.value column not found: %v", err)
	}
	if dataType != "jsonb" {
		t.Errorf("kv_entries.value type = %q, want jsonb", dataType)
	}

	// Second construction against the same database must not fail.
	if _, err := storage.NewPostgresBackend(connStr, ""); err != nil {
		t.Errorf("second NewPostgresBackend() unexpected error: %v", err)
	}
}

func Test_PostgresBackend_RejectsInvalidJSON(t *testing.T) {
	connStr := startPostgres(t)

	b, err := storage.NewPostgresBackend(connStr, "invalid")
	if err != nil {
		t.Fatalf("NewPostgresBackend() unexpected error: %v", err)
	}
	if err := b.Set("state", []byte("{broken")); err == nil {
		t.Error("Set() with invalid JSON expected error, got nil")
	}
	if _, err := b.Get("state"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after rejected Set error = %v, want ErrNotFound", err)
	}
}

func Test_PostgresBackend_NamespacesAreIsolated(t *testing.T) {
	connStr := startPostgres(t)

	alice, err := storage.NewPostgresBackend(connStr, "alice")
	if err != nil {
		t.Fatalf("NewPostgresBackend(alice): %v", err)
	}
	bob, err := storage.NewPostgresBackend(connStr, "bob")
	if err != nil {
		t.Fatalf("NewPostgresBackend(bob): %v", err)
	}

	if err := alice.Set("state", []byte(`{"who":"alice"}`)); err != nil {
		t.Fatalf("alice.Set(): %v", err)
	}
	if err := bob.Set("state", []byte(`{"who":"bob"}`)); err != nil {
		t.Fatalf("bob.Set(): %v", err)
	}
	if err := alice.Clear(); err != nil {
		t.Fatalf("alice.Clear(): %v", err)
	}

	got, err := bob.Get("state")
	if err != nil {
		t.Fatalf("bob.Get(): %v", err)
	}
	assertJSONEqual(t, got, []byte(`{"who":"bob"}`))
}

func Test_NewPostgresBackend_BadConnString(t *testing.T) {
	t.Parallel()
	_, err := storage.NewPostgresBackend("postgres://nobody@127.0.0.1:1/none?connect_timeout=1", "")
	if err == nil {
		t.Error("NewPostgresBackend() with unreachable server expected error, got nil")
	}
}
