package handlers

import (
	"context"
	"net/http"
	"strings"

	"basket-shipping-service/internal/api/dto"
	"basket-shipping-service/internal/domain"

	"github.com/shopspring/decimal"
)

type ShippingQuoter interface {
	QuoteForPostalCode(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error)
}

type FreeShippingChecker interface {
	Check(ctx context.Context, city, state string, subtotal decimal.Decimal) (domain.FreeShippingResult, error)
}

type ShippingHandler struct {
	Quotes       ShippingQuoter
	FreeShipping FreeShippingChecker
}

// Quote prices shipping to a postal code for the current cart subtotal.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.PostalCode) == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "postal_code is required")
		return
	}
	if req.Subtotal.IsNegative() {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "subtotal must not be negative")
		return
	}

	q, err := h.Quotes.QuoteForPostalCode(r.Context(), req.PostalCode, req.Subtotal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.QuoteResponse{
		Free:   q.Free,
		Reason: q.Reason,
		City:   q.City,
		State:  q.State,
	}
	if !q.Free {
		distanceKm := q.Quote.DistanceKm
		price := q.Quote.Price.InexactFloat64()
		rateID := q.Quote.RateID
		res.DistanceKm = &distanceKm
		res.Price = &price
		res.RateID = &rateID
	}

	writeJSON(w, r, http.StatusOK, res)
}

// CheckFreeShipping answers whether a city ships for free at a given subtotal.
// Query: city, state, subtotal (optional, defaults to 0).
func (h *ShippingHandler) CheckFreeShipping(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	city := strings.TrimSpace(q.Get("city"))
	state := strings.TrimSpace(q.Get("state"))
	if city == "" || state == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "city and state are required")
		return
	}

	subtotal := decimal.Zero
	if s := strings.TrimSpace(q.Get("subtotal")); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil || v.IsNegative() {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "subtotal must be a non-negative number")
			return
		}
		subtotal = v
	}

	res, err := h.FreeShipping.Check(r.Context(), city, state, subtotal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FreeShippingResponse{Free: res.Free, Reason: res.Reason})
}
