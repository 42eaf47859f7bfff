package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/platform/obs"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the RateRepository port.
type PostgresRateRepository struct {
	db dbtx
}

func NewPostgresRateRepository(db dbtx) *PostgresRateRepository {
	return &PostgresRateRepository{db: db}
}

const rateColumns = `id, min_distance_km, max_distance_km, price, active, created_at, updated_at`

// Return active tiers ordered by ascending min distance, then max distance.
func (r *PostgresRateRepository) ListActiveRates(ctx context.Context) (_ []domain.ShippingRate, err error) {
	defer obs.Time(ctx, "rates.ListActiveRates")(&err)

	q := `
	SELECT ` + rateColumns + `
	FROM shipping_rates
	WHERE active
	ORDER BY min_distance_km, max_distance_km, created_at;
	`

	rates, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repositories.PostgresRateRepository.ListActiveRates: %w", err)
	}
	return rates, nil
}

// Return every tier, active or not.
func (r *PostgresRateRepository) ListRates(ctx context.Context) ([]domain.ShippingRate, error) {
	q := `
	SELECT ` + rateColumns + `
	FROM shipping_rates
	ORDER BY min_distance_km, max_distance_km, created_at;
	`

	rates, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repositories.PostgresRateRepository.ListRates: %w", err)
	}
	return rates, nil
}

func (r *PostgresRateRepository) CreateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	q := `
	INSERT INTO shipping_rates (min_distance_km, max_distance_km, price, active)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + rateColumns + `;
	`

	row := r.db.QueryRowContext(ctx, q, rate.MinDistanceKm, rate.MaxDistanceKm, rate.Price, rate.Active)
	created, err := scanRate(row)
	if err != nil {
		return domain.ShippingRate{}, fmt.Errorf("repositories.PostgresRateRepository.CreateRate: %w", err)
	}
	return created, nil
}

func (r *PostgresRateRepository) UpdateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	q := `
	UPDATE shipping_rates
	SET min_distance_km = $2,
		max_distance_km = $3,
		price = $4,
		active = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + rateColumns + `;
	`

	row := r.db.QueryRowContext(ctx, q, rate.ID, rate.MinDistanceKm, rate.MaxDistanceKm, rate.Price, rate.Active)
	updated, err := scanRate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ShippingRate{}, fmt.Errorf("repositories.PostgresRateRepository.UpdateRate: %w", domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.ShippingRate{}, fmt.Errorf("repositories.PostgresRateRepository.UpdateRate: %w", err)
	}
	return updated, nil
}

func (r *PostgresRateRepository) DeleteRate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipping_rates WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("repositories.PostgresRateRepository.DeleteRate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repositories.PostgresRateRepository.DeleteRate: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repositories.PostgresRateRepository.DeleteRate: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func (r *PostgresRateRepository) query(ctx context.Context, q string, args ...any) ([]domain.ShippingRate, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query shipping_rates table: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.ShippingRate, 0, 8)
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return rates, nil
}

func scanRate(s scanner) (domain.ShippingRate, error) {
	var rate domain.ShippingRate
	err := s.Scan(
		&rate.ID,
		&rate.MinDistanceKm,
		&rate.MaxDistanceKm,
		&rate.Price,
		&rate.Active,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
	if err != nil {
		return domain.ShippingRate{}, fmt.Errorf("scan shipping rate: %w", err)
	}
	return rate, nil
}
