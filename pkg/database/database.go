package database

import (
	"context"
	"database/sql"
)

// Database owns the process-wide handle. Queries join the transaction carried
// by ctx, if any.
type Database struct {
	db *sql.DB
}

func (db *Database) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.loadDB(ctx).ExecContext(ctx, query, args...)
}

func (db *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.loadDB(ctx).QueryContext(ctx, query, args...)
}

func (db *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.loadDB(ctx).QueryRowContext(ctx, query, args...)
}

func (db *Database) Close() error {
	return db.db.Close()
}

func NewDatabase(db *sql.DB) *Database {
	return &Database{db: db}
}
