// Package repositories opens the local SQLite database and brings its schema
// up to date. The per-table repositories live in subpackages.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/budgetbuddy/ledger/internal/client/migrations"
	"github.com/budgetbuddy/ledger/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// test seam
var gooseUpContext = goose.UpContext

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// DSN turns a file path into a modernc sqlite DSN with a busy timeout, so a
// background job and the REPL can share the file.
func DSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

// Open opens (creating if needed) the ledger database at path and migrates it.
// A single connection is used: SQLite serialises writers anyway and it keeps
// an open transaction from racing the live queries.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, "file:") {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("failed to prepare database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
