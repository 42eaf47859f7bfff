package services

import (
	"context"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"

	"github.com/google/uuid"
)

var (
	_ ports.PostalRegistry             = (*mockRegistry)(nil)
	_ ports.Geocoder                   = (*mockGeocoder)(nil)
	_ ports.RateRepository             = (*mockRateRepo)(nil)
	_ ports.ConfigRepository           = (*mockConfigRepo)(nil)
	_ ports.FreeShippingCityRepository = (*mockCityRepo)(nil)
)

type mockRegistry struct {
	LookupFn func(ctx context.Context, postalCode string) (domain.PostalAddress, error)
	calls    int
}

func (m *mockRegistry) LookupPostalCode(ctx context.Context, postalCode string) (domain.PostalAddress, error) {
	m.calls++
	return m.LookupFn(ctx, postalCode)
}

type mockGeocoder struct {
	SearchTextFn       func(ctx context.Context, query string) (domain.Coordinates, bool, error)
	SearchPostalCodeFn func(ctx context.Context, postalCode, country string) (domain.Coordinates, bool, error)

	textQueries   []string
	postalQueries []string
}

func (m *mockGeocoder) SearchText(ctx context.Context, query string) (domain.Coordinates, bool, error) {
	m.textQueries = append(m.textQueries, query)
	if m.SearchTextFn == nil {
		return domain.Coordinates{}, false, nil
	}
	return m.SearchTextFn(ctx, query)
}

func (m *mockGeocoder) SearchPostalCode(ctx context.Context, postalCode, country string) (domain.Coordinates, bool, error) {
	m.postalQueries = append(m.postalQueries, postalCode+"|"+country)
	if m.SearchPostalCodeFn == nil {
		return domain.Coordinates{}, false, nil
	}
	return m.SearchPostalCodeFn(ctx, postalCode, country)
}

func (m *mockGeocoder) calls() int { return len(m.textQueries) + len(m.postalQueries) }

type mockRateRepo struct {
	ListActiveFn func(ctx context.Context) ([]domain.ShippingRate, error)
	ListFn       func(ctx context.Context) ([]domain.ShippingRate, error)
	CreateFn     func(ctx context.Context, r domain.ShippingRate) (domain.ShippingRate, error)
	UpdateFn     func(ctx context.Context, r domain.ShippingRate) (domain.ShippingRate, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRateRepo) ListActiveRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return m.ListActiveFn(ctx)
}

func (m *mockRateRepo) ListRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return m.ListFn(ctx)
}

func (m *mockRateRepo) CreateRate(ctx context.Context, r domain.ShippingRate) (domain.ShippingRate, error) {
	return m.CreateFn(ctx, r)
}

func (m *mockRateRepo) UpdateRate(ctx context.Context, r domain.ShippingRate) (domain.ShippingRate, error) {
	return m.UpdateFn(ctx, r)
}

func (m *mockRateRepo) DeleteRate(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

type mockConfigRepo struct {
	GetFn    func(ctx context.Context) (domain.ShippingConfig, error)
	UpdateFn func(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error)
}

func (m *mockConfigRepo) GetConfig(ctx context.Context) (domain.ShippingConfig, error) {
	return m.GetFn(ctx)
}

func (m *mockConfigRepo) UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error) {
	return m.UpdateFn(ctx, cfg)
}

type mockCityRepo struct {
	FindActiveFn func(ctx context.Context, city, state string) (domain.FreeShippingCity, error)
	ListFn       func(ctx context.Context) ([]domain.FreeShippingCity, error)
	CreateFn     func(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error)
	UpdateFn     func(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCityRepo) FindActive(ctx context.Context, city, state string) (domain.FreeShippingCity, error) {
	return m.FindActiveFn(ctx, city, state)
}

func (m *mockCityRepo) List(ctx context.Context) ([]domain.FreeShippingCity, error) {
	return m.ListFn(ctx)
}

func (m *mockCityRepo) Create(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	return m.CreateFn(ctx, c)
}

func (m *mockCityRepo) Update(ctx context.Context, c domain.FreeShippingCity) (domain.FreeShippingCity, error) {
	return m.UpdateFn(ctx, c)
}

func (m *mockCityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func staticConfig(maxKm float64) *mockConfigRepo {
	return &mockConfigRepo{
		GetFn: func(ctx context.Context) (domain.ShippingConfig, error) {
			cfg := domain.DefaultShippingConfig()
			cfg.MaxDistanceKm = maxKm
			return cfg, nil
		},
	}
}

func staticRates(rates ...domain.ShippingRate) *mockRateRepo {
	return &mockRateRepo{
		ListActiveFn: func(ctx context.Context) ([]domain.ShippingRate, error) {
			return rates, nil
		},
	}
}

func noFreeCities() *mockCityRepo {
	return &mockCityRepo{
		FindActiveFn: func(ctx context.Context, city, state string) (domain.FreeShippingCity, error) {
			return domain.FreeShippingCity{}, domain.ErrRecordNotFound
		},
	}
}
