package dto

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Set for out_of_range and no_rate_configured.
	MaxDistanceKm *float64 `json:"max_distance_km,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
