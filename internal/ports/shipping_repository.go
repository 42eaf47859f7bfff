package ports

import (
	"context"

	"basket-shipping-service/internal/domain"

	"github.com/google/uuid"
)

// Read side of the rate tiers used when pricing a quote.
type RateReader interface {
	// Return active tiers ordered by ascending min distance.
	ListActiveRates(ctx context.Context) ([]domain.ShippingRate, error)
}

// Port: persistence for shipping rate tiers.
type RateRepository interface {
	RateReader
	ListRates(ctx context.Context) ([]domain.ShippingRate, error)
	CreateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error)
	// Returns domain.ErrRecordNotFound when the id does not exist.
	UpdateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error)
	// Returns domain.ErrRecordNotFound when the id does not exist.
	DeleteRate(ctx context.Context, id uuid.UUID) error
}

// Read side of the singleton shipping settings.
type ConfigReader interface {
	// Return the settings, creating the default row if none exists.
	GetConfig(ctx context.Context) (domain.ShippingConfig, error)
}

// Port: persistence for the singleton shipping settings.
type ConfigRepository interface {
	ConfigReader
	UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error)
}

// Port: persistence for free-shipping city exceptions.
type FreeShippingCityRepository interface {
	// Return the active exception for an exact city/state pair.
	// Returns domain.ErrRecordNotFound when there is none.
	FindActive(ctx context.Context, city, state string) (domain.FreeShippingCity, error)
	List(ctx context.Context) ([]domain.FreeShippingCity, error)
	// Returns domain.ErrDuplicateCity when the city/state pair already exists.
	Create(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error)
	// Returns domain.ErrDuplicateCity or domain.ErrRecordNotFound.
	Update(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error)
	// Returns domain.ErrRecordNotFound when the id does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
