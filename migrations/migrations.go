// Package migrations holds the embedded Postgres schema and applies it with
// goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// TableName is the goose version table.
const TableName = "goose_places_version"

//go:embed sql/*.sql
var FS embed.FS

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down rolls back the latest migration.
func Down(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	var v int64
	err := run(ctx, db, func(ctx context.Context, db *sql.DB, dir string) error {
		var err error
		v, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return v, err
}

func run(ctx context.Context, db *sql.DB, f func(context.Context, *sql.DB, string) error) error {
	goose.SetBaseFS(FS)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(TableName)

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := f(ctx, db, "sql"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
