package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"basket-shipping-service/internal/adapters/repositories"
	"basket-shipping-service/internal/config"
	"basket-shipping-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool applies migrations and loads the default shipping tiers and
// free-shipping cities.
func main() {
	skipSeed := flag.Bool("migrate-only", false, "apply migrations without seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, *skipSeed); err != nil {
		slog.Error("dbtool failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, skipSeed bool) error {
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	slog.Info("applying migrations")
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}

	if skipSeed {
		return nil
	}

	slog.Info("seeding database", "path", cfg.SeedPath)
	seed, err := repositories.LoadSeed(cfg.SeedPath)
	if err != nil {
		return err
	}
	if err := repositories.Seed(ctx, database, seed); err != nil {
		return err
	}
	slog.Info("seeding complete",
		"rates", len(seed.Rates),
		"free_shipping_cities", len(seed.FreeShippingCities),
	)

	return nil
}
