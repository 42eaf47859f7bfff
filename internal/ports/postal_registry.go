package ports

import (
	"context"

	"basket-shipping-service/internal/domain"
)

// Port: the authoritative postal-code registry.
type PostalRegistry interface {
	// Return the address registered for a postal code.
	// Fails with domain.ErrNotFound for unknown codes and domain.ErrUnavailable
	// when the registry cannot be reached.
	LookupPostalCode(ctx context.Context, postalCode string) (domain.PostalAddress, error)
}
