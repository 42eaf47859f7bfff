package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"basket-shipping-service/internal/domain"

	"github.com/shopspring/decimal"
)

type RateSeed struct {
	MinDistanceKm float64         `json:"min_distance_km"`
	MaxDistanceKm float64         `json:"max_distance_km"`
	Price         decimal.Decimal `json:"price"`
}

type FreeCitySeed struct {
	City           string          `json:"city"`
	State          string          `json:"state"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
}

type ConfigSeed struct {
	MaxDistanceKm  float64         `json:"max_distance_km"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
}

type ShippingSeed struct {
	Config             *ConfigSeed    `json:"config"`
	Rates              []RateSeed     `json:"rates"`
	FreeShippingCities []FreeCitySeed `json:"free_shipping_cities"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(jsonPath string) (ShippingSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return ShippingSeed{}, fmt.Errorf("seed shipping: read %q: %w", jsonPath, err)
	}

	var data ShippingSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return ShippingSeed{}, fmt.Errorf("seed shipping: parse json: %w", err)
	}

	for i, r := range data.Rates {
		if r.MinDistanceKm < 0 || r.MaxDistanceKm < r.MinDistanceKm || r.Price.IsNegative() {
			return ShippingSeed{}, fmt.Errorf("seed shipping: invalid rate at index %d: %+v", i+1, r)
		}
	}

	for i, c := range data.FreeShippingCities {
		c.City = domain.NormalizeCity(c.City)
		c.State = domain.NormalizeState(c.State)
		if c.City == "" || len(c.State) != 2 || c.MinOrderAmount.IsNegative() {
			return ShippingSeed{}, fmt.Errorf("seed shipping: invalid free shipping city at index %d: %q/%q", i+1, c.City, c.State)
		}
		data.FreeShippingCities[i] = c
	}

	if data.Config != nil && data.Config.MaxDistanceKm <= 0 {
		return ShippingSeed{}, fmt.Errorf("seed shipping: config max_distance_km must be greater than zero")
	}

	return data, nil
}

// Seed writes the seed in one transaction. Rates are only inserted into an
// empty table; cities and settings are upserted, so seeding twice is harmless.
func Seed(ctx context.Context, db *sql.DB, data ShippingSeed) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed shipping: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if data.Config != nil {
		cfg := domain.ShippingConfig{MaxDistanceKm: data.Config.MaxDistanceKm, MinOrderAmount: data.Config.MinOrderAmount}
		if _, err := NewPostgresConfigRepository(tx).UpdateConfig(ctx, cfg); err != nil {
			return fmt.Errorf("seed shipping: config: %w", err)
		}
	}

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shipping_rates;`).Scan(&existing); err != nil {
		return fmt.Errorf("seed shipping: count rates: %w", err)
	}

	if existing == 0 {
		rates := NewPostgresRateRepository(tx)
		for _, r := range data.Rates {
			rate := domain.ShippingRate{
				MinDistanceKm: r.MinDistanceKm,
				MaxDistanceKm: r.MaxDistanceKm,
				Price:         r.Price,
				Active:        true,
			}
			if _, err := rates.CreateRate(ctx, rate); err != nil {
				return fmt.Errorf("seed shipping: insert rate %.2f-%.2f: %w", r.MinDistanceKm, r.MaxDistanceKm, err)
			}
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO free_shipping_cities (city, state, active, min_order_amount)
	VALUES ($1, $2, TRUE, $3)
	ON CONFLICT (city, state) DO UPDATE
	SET min_order_amount = EXCLUDED.min_order_amount,
		active = TRUE,
		updated_at = NOW();
	`)
	if err != nil {
		return fmt.Errorf("seed shipping: prepare city insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range data.FreeShippingCities {
		if _, err := stmt.ExecContext(ctx, domain.NormalizeCity(c.City), domain.NormalizeState(c.State), c.MinOrderAmount); err != nil {
			return fmt.Errorf("seed shipping: insert city %s/%s: %w", c.City, c.State, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed shipping: commit tx: %w", err)
	}

	return nil
}
