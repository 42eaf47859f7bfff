package services

import (
	"context"
	"fmt"

	"basket-shipping-service/internal/domain"

	"github.com/shopspring/decimal"
)

type postalLocator interface {
	LookupPostalCode(ctx context.Context, postalCode string) (domain.PostalAddress, error)
	LocatePostalAddress(ctx context.Context, addr domain.PostalAddress) (domain.Coordinates, error)
}

type freeShippingChecker interface {
	Check(ctx context.Context, city, state string, subtotal decimal.Decimal) (domain.FreeShippingResult, error)
}

type quoter interface {
	Quote(ctx context.Context, destination domain.Coordinates) (domain.Quote, error)
}

// ShippingService answers the checkout question "what does shipping cost to
// this postal code?".
type ShippingService struct {
	locator postalLocator
	free    freeShippingChecker
	quoter  quoter
}

func NewShippingService(locator postalLocator, free freeShippingChecker, quoter quoter) *ShippingService {
	return &ShippingService{locator: locator, free: free, quoter: quoter}
}

// QuoteForPostalCode resolves the destination city, applies the free-shipping
// exception and only then geocodes and prices the destination.
func (s *ShippingService) QuoteForPostalCode(
	ctx context.Context,
	postalCode string,
	subtotal decimal.Decimal,
) (domain.ShippingQuote, error) {
	addr, err := s.locator.LookupPostalCode(ctx, postalCode)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("services.ShippingService.QuoteForPostalCode: %w", err)
	}

	free, err := s.free.Check(ctx, addr.City, addr.State, subtotal)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("services.ShippingService.QuoteForPostalCode: %w", err)
	}
	if free.Free {
		return domain.ShippingQuote{
			Free:   true,
			Reason: free.Reason,
			City:   addr.City,
			State:  addr.State,
		}, nil
	}

	coord, err := s.locator.LocatePostalAddress(ctx, addr)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("services.ShippingService.QuoteForPostalCode: %w", err)
	}

	quote, err := s.quoter.Quote(ctx, coord)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("services.ShippingService.QuoteForPostalCode: %w", err)
	}

	return domain.ShippingQuote{
		City:  addr.City,
		State: addr.State,
		Quote: quote,
	}, nil
}
