// Package store persists run results into a DuckDB database for
// cross-run comparison of agents.
package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DefaultDBName is the database file kept under the output directory.
const DefaultDBName = "annobench.duckdb"

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema DDL used for initializing databases.
func SchemaDDL() string {
	return schemaDDL
}

// EnsureSchema applies the schema DDL to the provided connection.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: db is nil")
	}
	_, err := db.Exec(schemaDDL)
	return err
}

// OpenDefault opens the run database kept under outputDir, creating
// the directory and the file on first use.
func OpenDefault(outputDir string) (*sql.DB, error) {
	if outputDir == "" {
		return nil, errors.New("store: output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return Open(filepath.Join(outputDir, DefaultDBName))
}

// Open opens a DuckDB database at path and applies the schema. An empty
// path opens an in-memory database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
