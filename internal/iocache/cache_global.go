package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/memstore"
	"github.com/huangsam/localcache/internal/objstore"
	"github.com/huangsam/localcache/schema"
	"google.golang.org/api/option"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// InitStores initializes the global manager with the store described by cfg.
func InitStores(ctx context.Context, cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewStore(ctx, cfg)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize %s store: %w", cfg.Backend, err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = closeStore(Manager.store)
		}
	})
}

// NewStore builds the store for cfg.Backend. Callers own the result and should
// close it when it implements io.Closer.
func NewStore(ctx context.Context, cfg *contract.Config) (contract.Store, error) {
	switch cfg.Backend {
	case schema.MemoryBackend:
		return memstore.New(memstore.WithQuota(cfg.QuotaBytes)), nil

	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		store, err := NewSQLStore(ctx, cfg.Backend, cfg.DBConnect)
		if err != nil {
			return nil, err
		}
		return store, nil

	case schema.S3Backend:
		if cfg.Bucket == "" {
			return objstore.New(nil, cfg.Prefix), nil
		}
		bucket, err := objstore.NewS3Bucket(ctx, cfg.Bucket,
			objstore.WithRegion(cfg.Region),
			objstore.WithEndpoint(cfg.Endpoint),
		)
		if err != nil {
			return nil, err
		}
		return objstore.New(bucket, cfg.Prefix), nil

	case schema.GCSBackend:
		if cfg.Bucket == "" {
			return objstore.New(nil, cfg.Prefix), nil
		}
		var opts []option.ClientOption
		if cfg.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		}
		bucket, err := objstore.NewGCSBucket(ctx, cfg.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return objstore.New(bucket, cfg.Prefix), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}

// ClearStore wipes all cache data for the configured backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the entries and migration tables.
// For object stores, it deletes every object under the prefix.
// For memory and none, it does nothing.
func ClearStore(ctx context.Context, cfg *contract.Config) error {
	switch cfg.Backend {
	case schema.SQLiteBackend:
		dbFilePath := cfg.DBConnect
		if dbFilePath == "" {
			dbFilePath = GetDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(ctx, cfg.Backend, cfg.DBConnect, entriesTable, migrationsTable)

	case schema.S3Backend, schema.GCSBackend:
		store, err := NewStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore(store) }()
		return removeAll(ctx, store)

	case schema.MemoryBackend, schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(ctx context.Context, backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		if err := dropTable(ctx, db, backend, table); err != nil {
			return err
		}
	}
	return nil
}

func dropTable(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend, table string) error {
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

// removeAll deletes every key of an object store.
func removeAll(ctx context.Context, store contract.Store) error {
	if !store.Available() {
		return nil
	}
	lister, ok := store.(contract.KeyLister)
	if !ok {
		return fmt.Errorf("%w: store cannot list keys", ErrUnsupportedBackend)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := store.RemoveItem(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %q: %w", key, err)
		}
	}
	return nil
}
