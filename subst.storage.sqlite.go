package subst

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteConfig configures the SQLite storage driver.
type SQLiteConfig struct {
	// Path is the database file path, or ":memory:" for a private in-memory database.
	Path string

	// TablePrefix allows customizing the table name prefix.
	// Default: "subst_"
	TablePrefix string

	// QueryTimeout is the default timeout for queries.
	// Default: 30 seconds
	QueryTimeout time.Duration
}

// SQLiteStorage implements TemplateStorage using an embedded SQLite database.
// It is suitable for single-process use.
type SQLiteStorage struct {
	*sqlStorage
}

// SQLiteStorageDriver is the driver for creating SQLiteStorage instances.
type SQLiteStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameSQLite, &SQLiteStorageDriver{})
}

// Open creates a new SQLiteStorage. The connection string is the database path;
// an empty string opens an in-memory database.
func (d *SQLiteStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	storage, err := NewSQLiteStorage(SQLiteConfig{Path: connectionString})
	if err != nil {
		return nil, err
	}
	return storage, nil
}

var sqliteDialect = sqlDialect{
	bind: func(int) string {
		return "?"
	},
	schema: func(table string) []string {
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					id          TEXT PRIMARY KEY,
					name        TEXT NOT NULL,
					source      TEXT NOT NULL,
					version     INTEGER NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					metadata    TEXT,
					created_by  TEXT NOT NULL DEFAULT '',
					created_at  TEXT NOT NULL,
					updated_at  TEXT NOT NULL,
					UNIQUE (name, version)
				)`, table),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name)", table, table),
		}
	},
	timeArg: func(t time.Time) any {
		return t.UTC().Format(time.RFC3339Nano)
	},
}

// NewSQLiteStorage opens (or creates) a SQLite database and its schema.
func NewSQLiteStorage(config SQLiteConfig) (*SQLiteStorage, error) {
	if config.Path == "" {
		config.Path = SQLiteMemoryDSN
	}
	if config.QueryTimeout == 0 {
		config.QueryTimeout = SQLDefaultQueryTimeout
	}

	db, err := sql.Open(SQLiteDriverName, config.Path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageConnectFailed, Cause: err}
	}

	// SQLite serializes writers; a single connection also keeps an
	// in-memory database from being split across pool connections.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryTimeout)
	defer cancel()

	if config.Path != SQLiteMemoryDSN {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, &StorageError{Message: ErrMsgStorageConnectFailed, Cause: err}
		}
	}

	storage := &SQLiteStorage{
		sqlStorage: newSQLStorage(db, sqliteDialect, config.TablePrefix, config.QueryTimeout),
	}
	if err := storage.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}
