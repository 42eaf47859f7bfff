package services

import (
	"context"
	"fmt"
	"math"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAdmin is the back-office surface for tiers, settings and
// free-shipping cities.
type ShippingAdmin struct {
	rates  ports.RateRepository
	config ports.ConfigRepository
	cities ports.FreeShippingCityRepository
}

func NewShippingAdmin(
	rates ports.RateRepository,
	config ports.ConfigRepository,
	cities ports.FreeShippingCityRepository,
) *ShippingAdmin {
	return &ShippingAdmin{rates: rates, config: config, cities: cities}
}

func (a *ShippingAdmin) ListRates(ctx context.Context) ([]domain.ShippingRate, error) {
	rates, err := a.rates.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("services.ShippingAdmin.ListRates: %w", err)
	}
	return rates, nil
}

func (a *ShippingAdmin) CreateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	if err := validateRate(rate); err != nil {
		return domain.ShippingRate{}, fmt.Errorf("services.ShippingAdmin.CreateRate: %w", err)
	}

	created, err := a.rates.CreateRate(ctx, rate)
	if err != nil {
		return domain.ShippingRate{}, fmt.Errorf("services.ShippingAdmin.CreateRate: %w", err)
	}
	return created, nil
}

func (a *ShippingAdmin) UpdateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	if err := validateRate(rate); err != nil {
		return domain.ShippingRate{}, fmt.Errorf("services.ShippingAdmin.UpdateRate: %w", err)
	}

	updated, err := a.rates.UpdateRate(ctx, rate)
	if err != nil {
		return domain.ShippingRate{}, fmt.Errorf("services.ShippingAdmin.UpdateRate: %w", err)
	}
	return updated, nil
}

func (a *ShippingAdmin) DeleteRate(ctx context.Context, id uuid.UUID) error {
	if err := a.rates.DeleteRate(ctx, id); err != nil {
		return fmt.Errorf("services.ShippingAdmin.DeleteRate: %w", err)
	}
	return nil
}

func (a *ShippingAdmin) GetConfig(ctx context.Context) (domain.ShippingConfig, error) {
	cfg, err := a.config.GetConfig(ctx)
	if err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("services.ShippingAdmin.GetConfig: %w", err)
	}
	return cfg, nil
}

func (a *ShippingAdmin) UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error) {
	if !isFinite(cfg.MaxDistanceKm) || cfg.MaxDistanceKm <= 0 {
		return domain.ShippingConfig{}, fmt.Errorf("services.ShippingAdmin.UpdateConfig: %w: max distance must be greater than zero", domain.ErrValidation)
	}
	if !hasCentPrecision(cfg.MaxDistanceKm) {
		return domain.ShippingConfig{}, fmt.Errorf("services.ShippingAdmin.UpdateConfig: %w: max distance allows at most 2 decimal places", domain.ErrValidation)
	}
	if cfg.MinOrderAmount.IsNegative() {
		return domain.ShippingConfig{}, fmt.Errorf("services.ShippingAdmin.UpdateConfig: %w: minimum order amount must not be negative", domain.ErrValidation)
	}

	updated, err := a.config.UpdateConfig(ctx, cfg)
	if err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("services.ShippingAdmin.UpdateConfig: %w", err)
	}
	return updated, nil
}

func (a *ShippingAdmin) ListFreeCities(ctx context.Context) ([]domain.FreeShippingCity, error) {
	cities, err := a.cities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("services.ShippingAdmin.ListFreeCities: %w", err)
	}
	return cities, nil
}

func (a *ShippingAdmin) CreateFreeCity(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	city, err := normalizeFreeCity(city)
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("services.ShippingAdmin.CreateFreeCity: %w", err)
	}

	created, err := a.cities.Create(ctx, city)
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("services.ShippingAdmin.CreateFreeCity: %w", err)
	}
	return created, nil
}

func (a *ShippingAdmin) UpdateFreeCity(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	city, err := normalizeFreeCity(city)
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("services.ShippingAdmin.UpdateFreeCity: %w", err)
	}

	updated, err := a.cities.Update(ctx, city)
	if err != nil {
		return domain.FreeShippingCity{}, fmt.Errorf("services.ShippingAdmin.UpdateFreeCity: %w", err)
	}
	return updated, nil
}

func (a *ShippingAdmin) DeleteFreeCity(ctx context.Context, id uuid.UUID) error {
	if err := a.cities.Delete(ctx, id); err != nil {
		return fmt.Errorf("services.ShippingAdmin.DeleteFreeCity: %w", err)
	}
	return nil
}

// Only per-tier bounds are checked; gaps and overlaps between tiers are allowed.
func validateRate(r domain.ShippingRate) error {
	switch {
	case !isFinite(r.MinDistanceKm) || !isFinite(r.MaxDistanceKm):
		return fmt.Errorf("%w: distances must be finite numbers", domain.ErrValidation)
	case !hasCentPrecision(r.MinDistanceKm) || !hasCentPrecision(r.MaxDistanceKm):
		return fmt.Errorf("%w: distances allow at most 2 decimal places", domain.ErrValidation)
	case r.MinDistanceKm < 0:
		return fmt.Errorf("%w: min distance must not be negative", domain.ErrValidation)
	case r.MaxDistanceKm < r.MinDistanceKm:
		return fmt.Errorf("%w: max distance must be greater than or equal to min distance", domain.ErrValidation)
	case r.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}

func normalizeFreeCity(c domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	c.City = domain.NormalizeCity(c.City)
	c.State = domain.NormalizeState(c.State)

	switch {
	case c.City == "":
		return c, fmt.Errorf("%w: city is required", domain.ErrValidation)
	case len(c.State) != 2:
		return c, fmt.Errorf("%w: state must be a two-letter code", domain.ErrValidation)
	case c.MinOrderAmount.IsNegative():
		return c, fmt.Errorf("%w: minimum order amount must not be negative", domain.ErrValidation)
	}
	return c, nil
}

// Distances are stored as NUMERIC(10, 2); anything finer would be rounded
// and shift the inclusive tier bounds.
func hasCentPrecision(v float64) bool {
	return decimal.NewFromFloat(v).Exponent() >= -2
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
