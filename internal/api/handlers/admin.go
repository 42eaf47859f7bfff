package handlers

import (
	"context"
	"net/http"

	"basket-shipping-service/internal/api/dto"
	"basket-shipping-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ShippingAdministrator interface {
	ListRates(ctx context.Context) ([]domain.ShippingRate, error)
	CreateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error)
	UpdateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error)
	DeleteRate(ctx context.Context, id uuid.UUID) error

	GetConfig(ctx context.Context) (domain.ShippingConfig, error)
	UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error)

	ListFreeCities(ctx context.Context) ([]domain.FreeShippingCity, error)
	CreateFreeCity(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error)
	UpdateFreeCity(ctx context.Context, city domain.FreeShippingCity) (domain.FreeShippingCity, error)
	DeleteFreeCity(ctx context.Context, id uuid.UUID) error
}

// AdminHandler serves the back-office shipping settings.
type AdminHandler struct {
	Admin ShippingAdministrator
}

func (h *AdminHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Admin.ListRates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListRatesResponse{Rates: make([]dto.RateResponse, 0, len(rates))}
	for _, rate := range rates {
		res.Rates = append(res.Rates, rateToDTO(rate))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AdminHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	var req dto.RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Admin.CreateRate(r.Context(), rateFromDTO(uuid.Nil, req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rateToDTO(created))
}

func (h *AdminHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Admin.UpdateRate(r.Context(), rateFromDTO(id, req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rateToDTO(updated))
}

func (h *AdminHandler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Admin.DeleteRate(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Admin.GetConfig(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, configToDTO(cfg))
}

func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Admin.UpdateConfig(r.Context(), domain.ShippingConfig{
		MaxDistanceKm:  req.MaxDistanceKm,
		MinOrderAmount: req.MinOrderAmount,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, configToDTO(updated))
}

func (h *AdminHandler) ListFreeCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.Admin.ListFreeCities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListFreeCitiesResponse{Cities: make([]dto.FreeCityResponse, 0, len(cities))}
	for _, c := range cities {
		res.Cities = append(res.Cities, freeCityToDTO(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AdminHandler) CreateFreeCity(w http.ResponseWriter, r *http.Request) {
	var req dto.FreeCityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Admin.CreateFreeCity(r.Context(), freeCityFromDTO(uuid.Nil, req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, freeCityToDTO(created))
}

func (h *AdminHandler) UpdateFreeCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.FreeCityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Admin.UpdateFreeCity(r.Context(), freeCityFromDTO(id, req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, freeCityToDTO(updated))
}

func (h *AdminHandler) DeleteFreeCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Admin.DeleteFreeCity(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func activeOrDefault(active *bool) bool {
	if active == nil {
		return true
	}
	return *active
}

func rateFromDTO(id uuid.UUID, req dto.RateRequest) domain.ShippingRate {
	return domain.ShippingRate{
		ID:            id,
		MinDistanceKm: req.MinDistanceKm,
		MaxDistanceKm: req.MaxDistanceKm,
		Price:         req.Price,
		Active:        activeOrDefault(req.Active),
	}
}

func rateToDTO(r domain.ShippingRate) dto.RateResponse {
	return dto.RateResponse{
		ID:            r.ID,
		MinDistanceKm: r.MinDistanceKm,
		MaxDistanceKm: r.MaxDistanceKm,
		Price:         r.Price.InexactFloat64(),
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func configToDTO(c domain.ShippingConfig) dto.ConfigResponse {
	return dto.ConfigResponse{
		MaxDistanceKm:  c.MaxDistanceKm,
		MinOrderAmount: c.MinOrderAmount.InexactFloat64(),
		UpdatedAt:      c.UpdatedAt,
	}
}

func freeCityFromDTO(id uuid.UUID, req dto.FreeCityRequest) domain.FreeShippingCity {
	return domain.FreeShippingCity{
		ID:             id,
		City:           req.City,
		State:          req.State,
		MinOrderAmount: req.MinOrderAmount,
		Active:         activeOrDefault(req.Active),
	}
}

func freeCityToDTO(c domain.FreeShippingCity) dto.FreeCityResponse {
	return dto.FreeCityResponse{
		ID:             c.ID,
		City:           c.City,
		State:          c.State,
		MinOrderAmount: c.MinOrderAmount.InexactFloat64(),
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
