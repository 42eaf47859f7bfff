package services

import (
	"context"
	"log/slog"

	"basket-shipping-service/internal/domain"
)

type addressLocator interface {
	LocateAddress(ctx context.Context, addr domain.Address) (domain.Coordinates, error)
}

// RouteSequencer orders a driver's pending deliveries.
type RouteSequencer struct {
	locator addressLocator
}

func NewRouteSequencer(locator addressLocator) *RouteSequencer {
	return &RouteSequencer{locator: locator}
}

// Sequence returns stops in greedy nearest-neighbour order.
//
// Stops are geocoded one at a time; a stop that cannot be located is kept and
// appended after the routed ones in its original relative order. With fewer
// than two locatable stops the input is returned as is. driver may be nil.
//
// The only error is the context's, when the caller gives up mid-way.
func (s *RouteSequencer) Sequence(
	ctx context.Context,
	stops []domain.DeliveryStop,
	driver *domain.Coordinates,
) ([]domain.DeliveryStop, error) {
	if len(stops) < 2 {
		return stops, nil
	}

	located := make([]int, 0, len(stops))
	points := make([]domain.Coordinates, 0, len(stops))
	unlocated := make([]int, 0)

	for i, stop := range stops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		coord, err := s.locator.LocateAddress(ctx, stop.Address)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			level := slog.LevelWarn
			if !IsLocationFailure(err) {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "route stop not geocoded",
				"order_id", stop.OrderID,
				"code", stop.Code,
				"error", err,
			)
			unlocated = append(unlocated, i)
			continue
		}

		located = append(located, i)
		points = append(points, coord)
	}

	if len(points) < 2 {
		return stops, nil
	}

	if driver != nil && !driver.Valid() {
		driver = nil
	}

	out := make([]domain.DeliveryStop, 0, len(stops))
	for _, idx := range NearestNeighborOrder(points, driver) {
		out = append(out, stops[located[idx]])
	}
	for _, idx := range unlocated {
		out = append(out, stops[idx])
	}

	return out, nil
}
