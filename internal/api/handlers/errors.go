package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"basket-shipping-service/internal/api/dto"
	"basket-shipping-service/internal/domain"
)

// writeServiceError maps domain errors to HTTP responses. Anything not
// recognised is logged and reported as a 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var outOfRange *domain.OutOfRangeError
	var noRate *domain.NoRateError

	switch {
	case errors.As(err, &outOfRange):
		maxKm, distanceKm := outOfRange.MaxDistanceKm, round1(outOfRange.DistanceKm)
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: dto.ErrorDetail{
			Code:          "out_of_range",
			Message:       outOfRange.Error(),
			MaxDistanceKm: &maxKm,
			DistanceKm:    &distanceKm,
		}})
	case errors.As(err, &noRate):
		distanceKm := round2(noRate.DistanceKm)
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: dto.ErrorDetail{
			Code:       "no_rate_configured",
			Message:    noRate.Error(),
			DistanceKm: &distanceKm,
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusUnprocessableEntity, "postal_code_not_found", "postal code or address not found")
	case errors.Is(err, domain.ErrUnavailable):
		slog.WarnContext(r.Context(), "geocoding unavailable", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "geocoding_unavailable", "address lookup is temporarily unavailable, please try again")
	case errors.Is(err, domain.ErrDuplicateCity):
		writeError(w, r, http.StatusConflict, "duplicate_city", "free shipping already configured for this city")
	case errors.Is(err, domain.ErrRecordNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// validationMessage extracts the human-readable part after the sentinel,
// e.g. "services.ShippingAdmin.CreateRate: validation error: price must not be negative"
// becomes "price must not be negative".
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
