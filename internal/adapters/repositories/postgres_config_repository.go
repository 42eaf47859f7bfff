package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/platform/obs"
)

// Postgres-backed implementation of the ConfigRepository port.
// The settings live in a single row with id = 1.
type PostgresConfigRepository struct {
	db dbtx
}

func NewPostgresConfigRepository(db dbtx) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

// GetConfig returns the settings row, inserting the defaults on first use.
func (r *PostgresConfigRepository) GetConfig(ctx context.Context) (_ domain.ShippingConfig, err error) {
	defer obs.Time(ctx, "config.GetConfig")(&err)

	cfg, err := r.selectConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.ShippingConfig{}, fmt.Errorf("repositories.PostgresConfigRepository.GetConfig: %w", err)
	}

	defaults := domain.DefaultShippingConfig()
	q := `
	INSERT INTO shipping_config (id, max_distance_km, min_order_amount)
	VALUES (1, $1, $2)
	ON CONFLICT (id) DO NOTHING;
	`
	if _, err := r.db.ExecContext(ctx, q, defaults.MaxDistanceKm, defaults.MinOrderAmount); err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("repositories.PostgresConfigRepository.GetConfig: insert defaults: %w", err)
	}

	// A concurrent request may have won the insert; read back whichever row exists.
	cfg, err = r.selectConfig(ctx)
	if err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("repositories.PostgresConfigRepository.GetConfig: %w", err)
	}
	return cfg, nil
}

// UpdateConfig upserts the settings row.
func (r *PostgresConfigRepository) UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error) {
	q := `
	INSERT INTO shipping_config (id, max_distance_km, min_order_amount, updated_at)
	VALUES (1, $1, $2, NOW())
	ON CONFLICT (id) DO UPDATE
	SET max_distance_km = EXCLUDED.max_distance_km,
		min_order_amount = EXCLUDED.min_order_amount,
		updated_at = EXCLUDED.updated_at
	RETURNING max_distance_km, min_order_amount, updated_at;
	`

	var out domain.ShippingConfig
	err := r.db.QueryRowContext(ctx, q, cfg.MaxDistanceKm, cfg.MinOrderAmount).
		Scan(&out.MaxDistanceKm, &out.MinOrderAmount, &out.UpdatedAt)
	if err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("repositories.PostgresConfigRepository.UpdateConfig: %w", err)
	}
	return out, nil
}

func (r *PostgresConfigRepository) selectConfig(ctx context.Context) (domain.ShippingConfig, error) {
	q := `
	SELECT max_distance_km, min_order_amount, updated_at
	FROM shipping_config
	WHERE id = 1;
	`

	var cfg domain.ShippingConfig
	if err := r.db.QueryRowContext(ctx, q).Scan(&cfg.MaxDistanceKm, &cfg.MinOrderAmount, &cfg.UpdatedAt); err != nil {
		return domain.ShippingConfig{}, err
	}
	return cfg, nil
}
