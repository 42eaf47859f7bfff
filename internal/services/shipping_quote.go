package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"
)

// ShippingQuoter prices a destination from its distance to the store.
type ShippingQuoter struct {
	rates  ports.RateReader
	config ports.ConfigReader
	origin domain.Coordinates
}

func NewShippingQuoter(rates ports.RateReader, config ports.ConfigReader, origin domain.Coordinates) *ShippingQuoter {
	return &ShippingQuoter{rates: rates, config: config, origin: origin}
}

// Quote returns the tier price for a destination.
//
// Fails with *domain.OutOfRangeError beyond the configured radius and with
// *domain.NoRateError when no active tier covers the distance.
func (q *ShippingQuoter) Quote(ctx context.Context, destination domain.Coordinates) (domain.Quote, error) {
	distanceKm := Haversine(q.origin, destination)

	cfg, err := q.config.GetConfig(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("services.ShippingQuoter.Quote: load config: %w", err)
	}

	if distanceKm > cfg.MaxDistanceKm {
		return domain.Quote{}, &domain.OutOfRangeError{
			MaxDistanceKm: cfg.MaxDistanceKm,
			DistanceKm:    distanceKm,
		}
	}

	rates, err := q.rates.ListActiveRates(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("services.ShippingQuoter.Quote: load rates: %w", err)
	}

	rate, ok := SelectRate(rates, distanceKm)
	if !ok {
		return domain.Quote{}, &domain.NoRateError{DistanceKm: distanceKm}
	}

	return domain.Quote{
		DistanceKm: roundTo(distanceKm, 2),
		Price:      rate.Price,
		RateID:     rate.ID,
	}, nil
}

// SelectRate picks the first active tier covering distanceKm, scanning by
// ascending minimum distance. At a boundary shared by two adjacent tiers the
// lower tier wins.
func SelectRate(rates []domain.ShippingRate, distanceKm float64) (domain.ShippingRate, bool) {
	ordered := make([]domain.ShippingRate, 0, len(rates))
	for _, r := range rates {
		if r.Active {
			ordered = append(ordered, r)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MinDistanceKm != ordered[j].MinDistanceKm {
			return ordered[i].MinDistanceKm < ordered[j].MinDistanceKm
		}
		return ordered[i].MaxDistanceKm < ordered[j].MaxDistanceKm
	})

	for _, r := range ordered {
		if r.Covers(distanceKm) {
			return r, true
		}
	}
	return domain.ShippingRate{}, false
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
