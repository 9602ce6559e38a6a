package database

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// Supported backend types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options selects and locates the storage backend
type Options struct {
	Type string // sqlite, postgres or memory
	Path string // SQLite database file
	URL  string // Postgres connection string
}

// Open returns the backend described by opts. SQL backends are migrated
// to the current schema before they are returned.
func Open(opts Options) (Backend, error) {
	switch opts.Type {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeSQLite, "":
		db, err := connectSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return newMigratedStore(db, "sqlite3")
	case TypePostgres:
		db, err := sqlx.Connect("postgres", opts.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return newMigratedStore(db, "postgres")
	default:
		return nil, fmt.Errorf("unsupported database type %q", opts.Type)
	}
}

func connectSQLite(path string) (*sqlx.DB, error) {
	if path == "" {
		path = filepath.Join("data", "voicelingo.db")
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

func newMigratedStore(db *sqlx.DB, dialect string) (Backend, error) {
	if err := migrate(db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db), nil
}

func migrate(db *sqlx.DB, dialect string) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
