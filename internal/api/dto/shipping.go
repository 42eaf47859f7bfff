package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteRequest struct {
	PostalCode string          `json:"postal_code"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Either Free is true, or DistanceKm, Price and RateID are set.
type QuoteResponse struct {
	Free       bool       `json:"free"`
	Reason     string     `json:"reason,omitempty"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Price      *float64   `json:"price,omitempty"`
	RateID     *uuid.UUID `json:"rate_id,omitempty"`
}

type FreeShippingResponse struct {
	Free   bool   `json:"free"`
	Reason string `json:"reason"`
}
