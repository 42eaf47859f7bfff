package ports

import (
	"context"

	"basket-shipping-service/internal/domain"
)

// Contract for an open geocoding service.
//
// found is false when the service answered successfully but had no match.
// A non-nil error means the call itself failed and wraps domain.ErrUnavailable.
type Geocoder interface {
	// Resolve a free-text address to its single best match.
	SearchText(ctx context.Context, query string) (coord domain.Coordinates, found bool, err error)
	// Resolve a postal code within a country, at lower precision.
	SearchPostalCode(ctx context.Context, postalCode string, country string) (coord domain.Coordinates, found bool, err error)
}
