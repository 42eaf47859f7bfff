package services

import (
	"context"
	"errors"
	"fmt"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"

	"github.com/shopspring/decimal"
)

// FreeShippingChecker decides whether a city/state pair ships for free.
type FreeShippingChecker struct {
	cities ports.FreeShippingCityRepository
}

func NewFreeShippingChecker(cities ports.FreeShippingCityRepository) *FreeShippingChecker {
	return &FreeShippingChecker{cities: cities}
}

// Check looks up an active exception for the destination and compares the
// order subtotal with its minimum.
func (c *FreeShippingChecker) Check(
	ctx context.Context,
	city, state string,
	subtotal decimal.Decimal,
) (domain.FreeShippingResult, error) {
	city = domain.NormalizeCity(city)
	state = domain.NormalizeState(state)

	if city == "" || state == "" {
		return domain.FreeShippingResult{Free: false, Reason: "city not eligible for free shipping"}, nil
	}

	rec, err := c.cities.FindActive(ctx, city, state)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.FreeShippingResult{Free: false, Reason: "city not eligible for free shipping"}, nil
	}
	if err != nil {
		return domain.FreeShippingResult{}, fmt.Errorf("services.FreeShippingChecker.Check: %w", err)
	}

	if rec.MinOrderAmount.IsZero() {
		return domain.FreeShippingResult{
			Free:   true,
			Reason: fmt.Sprintf("free shipping to %s/%s", rec.City, rec.State),
		}, nil
	}

	if subtotal.GreaterThanOrEqual(rec.MinOrderAmount) {
		return domain.FreeShippingResult{
			Free:   true,
			Reason: fmt.Sprintf("free shipping to %s/%s for orders from %s", rec.City, rec.State, rec.MinOrderAmount.StringFixed(2)),
		}, nil
	}

	return domain.FreeShippingResult{
		Free:   false,
		Reason: fmt.Sprintf("minimum order of %s for free shipping to %s/%s", rec.MinOrderAmount.StringFixed(2), rec.City, rec.State),
	}, nil
}
