package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RateRequest struct {
	MinDistanceKm float64         `json:"min_distance_km"`
	MaxDistanceKm float64         `json:"max_distance_km"`
	Price         decimal.Decimal `json:"price"`
	// Defaults to true.
	Active *bool `json:"active"`
}

type RateResponse struct {
	ID            uuid.UUID `json:"id"`
	MinDistanceKm float64   `json:"min_distance_km"`
	MaxDistanceKm float64   `json:"max_distance_km"`
	Price         float64   `json:"price"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListRatesResponse struct {
	Rates []RateResponse `json:"rates"`
}

type ConfigRequest struct {
	MaxDistanceKm  float64         `json:"max_distance_km"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
}

type ConfigResponse struct {
	MaxDistanceKm  float64   `json:"max_distance_km"`
	MinOrderAmount float64   `json:"min_order_amount"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FreeCityRequest struct {
	City           string          `json:"city"`
	State          string          `json:"state"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	// Defaults to true.
	Active *bool `json:"active"`
}

type FreeCityResponse struct {
	ID             uuid.UUID `json:"id"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	MinOrderAmount float64   `json:"min_order_amount"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListFreeCitiesResponse struct {
	Cities []FreeCityResponse `json:"cities"`
}
