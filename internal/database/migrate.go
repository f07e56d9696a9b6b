package database

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/auth-service/internal/migrations"
)

// Migrate applies all pending schema migrations embedded in the binary.
// It is safe to call on every startup; goose tracks applied versions in
// its own bookkeeping table.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
