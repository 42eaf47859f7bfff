package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"basket-shipping-service/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies every pending migration embedded in the migrations package.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migrate: create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: apply migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"dur_ms", r.Duration.Milliseconds(),
		)
	}

	return nil
}
