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

// Postgres-backed implementation of the FreeShippingCityRepository port.
//
// City names are stored already NFC-normalised and compared literally.
type PostgresFreeCityRepository struct {
	db dbtx
}

func NewPostgresFreeCityRepository(db dbtx) *PostgresFreeCityRepository {
	return &PostgresFreeCityRepository{db: db}
}

const freeCityColumns = `id, city, state, active, min_order_amount, created_at, updated_at`

func (r *PostgresFreeCityRepository) FindActive(ctx context.Context, city, state string) (_ domain.FreeShippingCity, err error) {
	defer obs.Time(ctx, "freeCities.FindActive")(&err)

	q := `
	SELECT ` + freeCityColumns + `
	FROM free_shipping_cities
	WHERE city = $1 AND state = $2 AND active;
	`

	rec, err := scanFreeCity(r.db.QueryRowContext(ctx, q, city, state))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.FindActive: %w", domain.ErrRecordNotFound)
	}
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.FindActive: %w", err)
	}
	return rec, nil
}

func (r *PostgresFreeCityRepository) List(ctx context.Context) ([]domain.FreeShippingCity, error) {
	q := `
	SELECT ` + freeCityColumns + `
	FROM free_shipping_cities
	ORDER BY state, city;
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repositories.PostgresFreeCityRepository.List: query free_shipping_cities table: %w", err)
	}
	defer rows.Close()

	cities := make([]domain.FreeShippingCity, 0, 8)
	for rows.Next() {
		rec, err := scanFreeCity(rows)
		if err != nil {
			return nil, fmt.Errorf("repositories.PostgresFreeCityRepository.List: %w", err)
		}
		cities = append(cities, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repositories.PostgresFreeCityRepository.List: row iteration: %w", err)
	}

	return cities, nil
}

func (r *PostgresFreeCityRepository) Create(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	q := `
	INSERT INTO free_shipping_cities (city, state, active, min_order_amount)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + freeCityColumns + `;
	`

	rec, err := scanFreeCity(r.db.QueryRowContext(ctx, q, c.City, c.State, c.Active, c.MinOrderAmount))
	if isUniqueViolation(err) {
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.Create: %w", domain.ErrDuplicateCity)
	}
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.Create: %w", err)
	}
	return rec, nil
}

func (r *PostgresFreeCityRepository) Update(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	q := `
	UPDATE free_shipping_cities
	SET city = $2,
		state = $3,
		active = $4,
		min_order_amount = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + freeCityColumns + `;
	`

	rec, err := scanFreeCity(r.db.QueryRowContext(ctx, q, c.ID, c.City, c.State, c.Active, c.MinOrderAmount))
	switch {
	case isUniqueViolation(err):
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.Update: %w", domain.ErrDuplicateCity)
	case errors.Is(err, sql.ErrNoRows):
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.Update: %w", domain.ErrRecordNotFound)
	case err != nil:
		return domain.FreeShippingCity{}, fmt.Errorf("repositories.PostgresFreeCityRepository.Update: %w", err)
	}
	return rec, nil
}

func (r *PostgresFreeCityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM free_shipping_cities WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("repositories.PostgresFreeCityRepository.Delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repositories.PostgresFreeCityRepository.Delete: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repositories.PostgresFreeCityRepository.Delete: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func scanFreeCity(s scanner) (domain.FreeShippingCity, error) {
	var c domain.FreeShippingCity
	err := s.Scan(
		&c.ID,
		&c.City,
		&c.State,
		&c.Active,
		&c.MinOrderAmount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("scan free shipping city: %w", err)
	}
	return c, nil
}
