package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"basket-shipping-service/internal/api/dto"
	"basket-shipping-service/internal/domain"
)

// Upper bound on stops per request; geocoding is serial and throttled.
const MaxRouteStops = 30

type RouteSequencer interface {
	Sequence(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error)
}

type RouteHandler struct {
	Sequencer RouteSequencer
	// Deadline for sequencing one request. Must stay below the server's
	// write timeout so a slow geocoder still yields a response. Zero disables it.
	Timeout time.Duration
}

// Optimize returns the stops in suggested delivery order.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Stops) > MaxRouteStops {
		writeError(w, r, http.StatusBadRequest, "invalid_request", fmt.Sprintf("at most %d stops per request", MaxRouteStops))
		return
	}

	var driver *domain.Coordinates
	if req.DriverLocation != nil {
		c := domain.Coordinates{Lat: req.DriverLocation.Lat, Lon: req.DriverLocation.Lon}
		if !c.Valid() {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "driver_location is out of range")
			return
		}
		driver = &c
	}

	stops := make([]domain.DeliveryStop, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, stopFromDTO(s))
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	ordered, err := h.Sequencer.Sequence(ctx, stops, driver)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, r, http.StatusServiceUnavailable, "request_cancelled", "route optimization did not finish")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	res := dto.OptimizeRouteResponse{Stops: make([]dto.StopDTO, 0, len(ordered))}
	for _, s := range ordered {
		res.Stops = append(res.Stops, stopToDTO(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func stopFromDTO(s dto.StopDTO) domain.DeliveryStop {
	return domain.DeliveryStop{
		OrderID:      s.OrderID,
		Code:         s.Code,
		CustomerName: s.CustomerName,
		Phone:        s.Phone,
		Address: domain.Address{
			Street:     s.Address.Street,
			Number:     s.Address.Number,
			Complement: s.Address.Complement,
			District:   s.Address.District,
			City:       s.Address.City,
			State:      s.Address.State,
			PostalCode: s.Address.PostalCode,
		},
	}
}

func stopToDTO(s domain.DeliveryStop) dto.StopDTO {
	return dto.StopDTO{
		OrderID:      s.OrderID,
		Code:         s.Code,
		CustomerName: s.CustomerName,
		Phone:        s.Phone,
		Address: dto.AddressDTO{
			Street:     s.Address.Street,
			Number:     s.Address.Number,
			Complement: s.Address.Complement,
			District:   s.Address.District,
			City:       s.Address.City,
			State:      s.Address.State,
			PostalCode: s.Address.PostalCode,
		},
	}
}
