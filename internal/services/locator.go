package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"
)

// Country appended to free-text searches and used for postal-code searches.
const DefaultCountry = "Brasil"

// Locator chains the postal-code registry and the open geocoder.
//
// A text search is tried first; when it has no match, a coarser postal-code
// search follows. Transport failures end the chain immediately.
type Locator struct {
	registry ports.PostalRegistry
	geocoder ports.Geocoder
	country  string
}

func NewLocator(registry ports.PostalRegistry, geocoder ports.Geocoder, country string) *Locator {
	if country == "" {
		country = DefaultCountry
	}
	return &Locator{registry: registry, geocoder: geocoder, country: country}
}

// LookupPostalCode returns the registered address for a postal code.
func (l *Locator) LookupPostalCode(ctx context.Context, postalCode string) (domain.PostalAddress, error) {
	addr, err := l.registry.LookupPostalCode(ctx, postalCode)
	if err != nil {
		return domain.PostalAddress{}, fmt.Errorf("services.Locator.LookupPostalCode: %w", err)
	}
	return addr, nil
}

// ResolvePostalCode looks the code up in the registry and geocodes the result.
func (l *Locator) ResolvePostalCode(ctx context.Context, postalCode string) (domain.Coordinates, error) {
	addr, err := l.LookupPostalCode(ctx, postalCode)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("services.Locator.ResolvePostalCode: %w", err)
	}

	coord, err := l.LocatePostalAddress(ctx, addr)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("services.Locator.ResolvePostalCode: %w", err)
	}
	return coord, nil
}

// LocatePostalAddress geocodes an address already returned by the registry.
func (l *Locator) LocatePostalAddress(ctx context.Context, addr domain.PostalAddress) (domain.Coordinates, error) {
	coord, err := l.locate(ctx, l.postalAddressText(addr), addr.PostalCode)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("services.Locator.LocatePostalAddress: %w", err)
	}
	return coord, nil
}

// LocateAddress geocodes a delivery stop address.
func (l *Locator) LocateAddress(ctx context.Context, addr domain.Address) (domain.Coordinates, error) {
	coord, err := l.locate(ctx, addr.Format(), domain.NormalizePostalCode(addr.PostalCode))
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("services.Locator.LocateAddress: %w", err)
	}
	return coord, nil
}

func (l *Locator) locate(ctx context.Context, text string, postalCode string) (domain.Coordinates, error) {
	if strings.TrimSpace(text) != "" {
		coord, found, err := l.geocoder.SearchText(ctx, text)
		if err != nil {
			return domain.Coordinates{}, err
		}
		if found {
			return coord, nil
		}
	}

	if postalCode != "" {
		coord, found, err := l.geocoder.SearchPostalCode(ctx, postalCode, l.country)
		if err != nil {
			return domain.Coordinates{}, err
		}
		if found {
			return coord, nil
		}
	}

	return domain.Coordinates{}, domain.ErrNotFound
}

// "street, district, city - state, Brasil", skipping empty parts.
func (l *Locator) postalAddressText(addr domain.PostalAddress) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{addr.Street, addr.District} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	city := strings.TrimSpace(addr.City)
	state := strings.TrimSpace(addr.State)
	switch {
	case city != "" && state != "":
		parts = append(parts, city+" - "+state)
	case city != "":
		parts = append(parts, city)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append(parts, l.country), ", ")
}

// IsLocationFailure reports whether err means a destination could not be
// located, as opposed to an unexpected failure.
func IsLocationFailure(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnavailable)
}
