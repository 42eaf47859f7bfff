package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Defaults applied when the shipping_config row does not exist yet.
const DefaultMaxDistanceKm = 100.0

var DefaultMinOrderAmount = decimal.NewFromInt(50)

// A distance tier mapped to a flat price. Bounds are inclusive on both ends.
type ShippingRate struct {
	ID            uuid.UUID
	MinDistanceKm float64
	MaxDistanceKm float64
	Price         decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether distanceKm falls inside [MinDistanceKm, MaxDistanceKm].
func (r ShippingRate) Covers(distanceKm float64) bool {
	return distanceKm >= r.MinDistanceKm && distanceKm <= r.MaxDistanceKm
}

// Global shipping settings. There is exactly one row.
type ShippingConfig struct {
	MaxDistanceKm  float64
	MinOrderAmount decimal.Decimal
	UpdatedAt      time.Time
}

// DefaultShippingConfig returns the settings used before an administrator saves any.
func DefaultShippingConfig() ShippingConfig {
	return ShippingConfig{
		MaxDistanceKm:  DefaultMaxDistanceKm,
		MinOrderAmount: DefaultMinOrderAmount,
	}
}

// A city/state pair that bypasses tiered pricing.
// A zero MinOrderAmount means free shipping regardless of the subtotal.
type FreeShippingCity struct {
	ID             uuid.UUID
	City           string
	State          string
	Active         bool
	MinOrderAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FreeShippingResult struct {
	Free   bool
	Reason string
}

// Address as returned by the postal-code registry.
type PostalAddress struct {
	PostalCode string
	Street     string
	District   string
	City       string
	State      string
}

// Priced shipping quote for a destination.
type Quote struct {
	DistanceKm float64
	Price      decimal.Decimal
	RateID     uuid.UUID
}

// Outcome of a checkout shipping request: either free, or a priced Quote.
type ShippingQuote struct {
	Free   bool
	Reason string
	City   string
	State  string
	Quote  Quote
}

// NormalizeCity trims and NFC-normalizes a city name. Case and accents are kept.
func NormalizeCity(city string) string {
	return norm.NFC.String(strings.TrimSpace(city))
}

// NormalizeState trims and uppercases a state code.
func NormalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

// NormalizePostalCode strips every non-digit character.
func NormalizePostalCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
