//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/iocache"
	"github.com/huangsam/localcache/internal/localcache"
	"github.com/huangsam/localcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "localcache",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/localcache?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
}

// TestLocalcacheWithMySQL tests the CLI and the store with a MySQL backend.
func TestLocalcacheWithMySQL(t *testing.T) {
	ctx := context.Background()
	connStr := startMySQL(ctx, t)

	verifyCLI(t, schema.MySQLBackend, connStr)
	verifyPruneScenario(ctx, t, schema.MySQLBackend, connStr)
}

// TestLocalcacheWithPostgres tests the CLI and the store with a PostgreSQL backend.
func TestLocalcacheWithPostgres(t *testing.T) {
	ctx := context.Background()
	connStr := startPostgres(ctx, t)

	verifyCLI(t, schema.PostgreSQLBackend, connStr)
	verifyPruneScenario(ctx, t, schema.PostgreSQLBackend, connStr)
}

func verifyCLI(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Setenv("LOCALCACHE_BACKEND", string(backend))
	t.Setenv("LOCALCACHE_DB_CONNECT", connStr)

	_, err := runCommand(t, "clear", "--all")
	require.NoError(t, err)

	_, err = runCommand(t, "save", "user/1", `{"name":"ada"}`)
	require.NoError(t, err)

	out, err := runCommand(t, "get", "user/1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ada"}`, out)

	out, err = runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache Backend: "+string(backend))
	assert.Contains(t, out, "Total Entries: 1")

	_, err = runCommand(t, "store", "migrate", "--to", "1")
	require.NoError(t, err)
	_, err = runCommand(t, "store", "migrate")
	require.NoError(t, err)

	_, err = runCommand(t, "clear", "--all")
	require.NoError(t, err)
}

// verifyPruneScenario runs the four-key prune scenario directly against the SQL store.
func verifyPruneScenario(ctx context.Context, t *testing.T, backend schema.DatabaseBackend, connStr string) {
	require.NoError(t, iocache.ClearStore(ctx, &contract.Config{Backend: backend, DBConnect: connStr}))

	store, err := iocache.NewSQLStore(ctx, backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	seed := map[string]string{
		"a": `{"data":1,"timestamp":100}`,
		"b": `{"data":2,"timestamp":200}`,
		"c": `{"data":3,"timestamp":300}`,
		"d": `not json`,
	}
	for k, v := range seed {
		require.NoError(t, store.SetItem(ctx, k, v))
	}

	c := localcache.New(store)
	result, err := c.Prune(ctx, []contract.KeyMatcher{contract.Exact("a")}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Invalid)
	assert.Zero(t, result.Evicted)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	result, err = c.Prune(ctx, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Evicted)

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, keys)
}
