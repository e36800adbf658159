package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// entriesTable is the name of the table holding cache entries.
const entriesTable = "localcache_entries"

// SQLStore is a contract.Store backed by a database/sql connection.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	closed  atomic.Bool
	now     func() time.Time
}

var (
	_ contract.Store          = &SQLStore{} // Compile-time check
	_ contract.KeyLister      = &SQLStore{} // Compile-time check
	_ contract.StatusReporter = &SQLStore{} // Compile-time check
)

// NewSQLStore opens the database for backend, migrates its schema to the latest
// version and returns a store over it. The none backend yields an unavailable
// store without any connection.
func NewSQLStore(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	if backend == schema.NoneBackend {
		return &SQLStore{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := ensureSchema(backend, db, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLStore{
		db:      db,
		backend: backend,
		connStr: connStr,
		now:     time.Now,
	}, nil
}

// openDB opens a handle for backend without verifying the connection.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL cache: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL cache: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("%w: %s. Must be sqlite, mysql or postgresql", ErrUnsupportedBackend, backend)
	}
}

// Available implements contract.Store.
func (s *SQLStore) Available() bool {
	return s.backend != schema.NoneBackend && s.db != nil && !s.closed.Load()
}

// handle returns the live connection, or nil for the none backend.
func (s *SQLStore) handle() (*sql.DB, error) {
	if s.backend == schema.NoneBackend {
		return nil, nil
	}
	if s.db == nil || s.closed.Load() {
		return nil, contract.ErrStoreClosed
	}
	return s.db, nil
}

// Len implements contract.Store.
func (s *SQLStore) Len(ctx context.Context) (int, error) {
	db, err := s.handle()
	if db == nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table())
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Key implements contract.Store. Keys are ordered by cache_key.
func (s *SQLStore) Key(ctx context.Context, index int) (string, error) {
	db, err := s.handle()
	if db == nil {
		if err == nil {
			err = contract.ErrIndexOutOfRange
		}
		return "", err
	}
	if index < 0 {
		return "", contract.ErrIndexOutOfRange
	}

	var key string
	query := fmt.Sprintf("SELECT cache_key FROM %s ORDER BY cache_key LIMIT 1 OFFSET %s", s.table(), s.placeholder(1))
	err = db.QueryRowContext(ctx, query, index).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", contract.ErrIndexOutOfRange
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %d: %w", index, err)
	}
	return key, nil
}

// Keys implements contract.KeyLister.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	db, err := s.handle()
	if db == nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT cache_key FROM %s ORDER BY cache_key", s.table())
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// GetItem implements contract.Store.
func (s *SQLStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	db, err := s.handle()
	if db == nil {
		return "", false, err
	}

	var value string
	query := fmt.Sprintf("SELECT cache_value FROM %s WHERE cache_key = %s", s.table(), s.placeholder(1))
	err = db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem implements contract.Store.
func (s *SQLStore) SetItem(ctx context.Context, key, value string) error {
	db, err := s.handle()
	if db == nil {
		return err
	}
	_, err = db.ExecContext(ctx, s.upsertQuery(), key, value, s.now().UnixMilli())
	return err
}

// RemoveItem implements contract.Store.
func (s *SQLStore) RemoveItem(ctx context.Context, key string) error {
	db, err := s.handle()
	if db == nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE cache_key = %s", s.table(), s.placeholder(1))
	_, err = db.ExecContext(ctx, query, key)
	return err
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	if s.db == nil || !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// Backend returns the backend serving this store.
func (s *SQLStore) Backend() schema.DatabaseBackend {
	return s.backend
}

func (s *SQLStore) table() string {
	return quoteTableName(entriesTable, s.backend)
}

func (s *SQLStore) placeholder(n int) string {
	return placeholder(s.backend, n)
}

// upsertQuery returns the UPSERT query for the backend.
func (s *SQLStore) upsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, updated_at = new.updated_at`, s.table())

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, updated_at = EXCLUDED.updated_at`, s.table())

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, updated_at) VALUES (?, ?, ?)`, s.table())
	}
}

// Status implements contract.StatusReporter.
func (s *SQLStore) Status(ctx context.Context) (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(s.backend),
		Connected: s.Available(),
	}
	if !status.Connected {
		return status, nil
	}

	table := s.table()

	// Get total entries
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	// Get write time range
	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.LastEntryTime = time.UnixMilli(lastTs)
	status.OldestEntryTime = time.UnixMilli(oldestTs)

	// Estimate table size (approximate)
	switch s.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := s.db.QueryRowContext(ctx, sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}

	case schema.MySQLBackend:
		// Fallback rough estimate if information_schema query fails
		status.TableSizeBytes = int64(status.TotalEntries) * 1000

		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := s.db.QueryRowContext(ctx, sizeQuery, cfg.DBName, entriesTable).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.TotalEntries) * 1000
		}

	case schema.PostgreSQLBackend:
		sizeQuery := "SELECT pg_total_relation_size($1)"
		if err := s.db.QueryRowContext(ctx, sizeQuery, entriesTable).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.TotalEntries) * 1000 // Fallback rough estimate
		}
	}

	return status, nil
}
