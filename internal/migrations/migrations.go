// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
    "context"
    "database/sql"
    "embed"
    "fmt"

    "github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, logger goose.Logger) error {
    goose.SetBaseFS(files)
    if logger != nil {
        goose.SetLogger(logger)
    }
    if err := goose.SetDialect("postgres"); err != nil {
        return fmt.Errorf("goose dialect: %w", err)
    }
    if err := goose.UpContext(ctx, db, "."); err != nil {
        return fmt.Errorf("migrate up: %w", err)
    }
    return nil
}
