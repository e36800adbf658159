package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the backend holding cache entries.
	DatabaseBackend string

	// EntryState represents how a stored value classifies under the entry format.
	EntryState string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MemoryBackend     DatabaseBackend = "memory"
	S3Backend         DatabaseBackend = "s3"
	GCSBackend        DatabaseBackend = "gcs"
	NoneBackend       DatabaseBackend = "none"
)

// All entry states.
const (
	ValidEntry   EntryState = "valid"
	LegacyEntry  EntryState = "legacy"  // parses, but carries no timestamp
	InvalidEntry EntryState = "invalid" // unparseable or null
)

// DefaultMaxEntries is the retained entry ceiling used when none is given.
const DefaultMaxEntries = 50

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
	S3Backend:         {},
	GCSBackend:        {},
	NoneBackend:       {},
}

// IsSQLBackend reports whether the backend is served by a database/sql driver.
func (b DatabaseBackend) IsSQLBackend() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		return true
	default:
		return false
	}
}
