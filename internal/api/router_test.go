package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"basket-shipping-service/internal/api"
	"basket-shipping-service/internal/api/handlers"
	"basket-shipping-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQuoter struct {
	QuoteFn func(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error)
}

func (m *mockQuoter) QuoteForPostalCode(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error) {
	return m.QuoteFn(ctx, postalCode, subtotal)
}

type mockFreeChecker struct {
	CheckFn func(ctx context.Context, city, state string, subtotal decimal.Decimal) (domain.FreeShippingResult, error)
}

func (m *mockFreeChecker) Check(ctx context.Context, city, state string, subtotal decimal.Decimal) (domain.FreeShippingResult, error) {
	return m.CheckFn(ctx, city, state, subtotal)
}

type mockSequencer struct {
	SequenceFn func(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error)
}

func (m *mockSequencer) Sequence(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error) {
	return m.SequenceFn(ctx, stops, driver)
}

var (
	_ handlers.ShippingQuoter      = (*mockQuoter)(nil)
	_ handlers.FreeShippingChecker = (*mockFreeChecker)(nil)
	_ handlers.RouteSequencer      = (*mockSequencer)(nil)
)

type errorBody struct {
	Error struct {
		Code          string   `json:"code"`
		Message       string   `json:"message"`
		MaxDistanceKm *float64 `json:"max_distance_km"`
		DistanceKm    *float64 `json:"distance_km"`
	} `json:"error"`
}

func newTestRouter(cfg api.RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	}
	if cfg.Shipping == nil {
		cfg.Shipping = &handlers.ShippingHandler{}
	}
	if cfg.Routes == nil {
		cfg.Routes = &handlers.RouteHandler{}
	}
	if cfg.Admin == nil {
		cfg.Admin = &handlers.AdminHandler{}
	}
	return api.NewRouter(cfg)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(api.RouterConfig{}), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestQuote_Priced(t *testing.T) {
	rateID := uuid.New()
	var gotCode string
	var gotSubtotal decimal.Decimal
	quoter := &mockQuoter{
		QuoteFn: func(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error) {
			gotCode, gotSubtotal = postalCode, subtotal
			return domain.ShippingQuote{
				City:  "Ribeirão Preto",
				State: "SP",
				Quote: domain.Quote{DistanceKm: 7.42, Price: decimal.RequireFromString("11.90"), RateID: rateID},
			}, nil
		},
	}
	h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{Quotes: quoter}})

	rec := do(t, h, http.MethodPost, "/api/v1/shipping/quote", `{"postal_code":"14015-000","subtotal":"42.50"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "14015-000", gotCode)
	assert.True(t, decimal.RequireFromString("42.50").Equal(gotSubtotal))
	assert.JSONEq(t, fmt.Sprintf(`{
		"free": false,
		"city": "Ribeirão Preto",
		"state": "SP",
		"distance_km": 7.42,
		"price": 11.9,
		"rate_id": %q
	}`, rateID), rec.Body.String())
}

func TestQuote_Free(t *testing.T) {
	quoter := &mockQuoter{
		QuoteFn: func(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error) {
			return domain.ShippingQuote{Free: true, Reason: "free shipping to Ribeirão Preto/SP", City: "Ribeirão Preto", State: "SP"}, nil
		},
	}
	h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{Quotes: quoter}})

	rec := do(t, h, http.MethodPost, "/api/v1/shipping/quote", `{"postal_code":"14015000","subtotal":10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["free"])
	assert.NotContains(t, body, "price")
	assert.NotContains(t, body, "distance_km")
}

func TestQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		maxKm      *float64
		distanceKm *float64
	}{
		{
			name:   "postal code not found",
			err:    fmt.Errorf("lookup: %w", domain.ErrNotFound),
			status: http.StatusUnprocessableEntity,
			code:   "postal_code_not_found",
		},
		{
			name:   "geocoder unavailable",
			err:    fmt.Errorf("lookup: %w: timeout", domain.ErrUnavailable),
			status: http.StatusServiceUnavailable,
			code:   "geocoding_unavailable",
		},
		{
			name:       "out of range",
			err:        fmt.Errorf("quote: %w", &domain.OutOfRangeError{MaxDistanceKm: 30, DistanceKm: 35.04}),
			status:     http.StatusUnprocessableEntity,
			code:       "out_of_range",
			maxKm:      ptr(30.0),
			distanceKm: ptr(35.0),
		},
		{
			name:       "no rate",
			err:        &domain.NoRateError{DistanceKm: 15},
			status:     http.StatusUnprocessableEntity,
			code:       "no_rate_configured",
			distanceKm: ptr(15.0),
		},
		{
			name:   "unexpected",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quoter := &mockQuoter{
				QuoteFn: func(ctx context.Context, postalCode string, subtotal decimal.Decimal) (domain.ShippingQuote, error) {
					return domain.ShippingQuote{}, tc.err
				},
			}
			h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{Quotes: quoter}})

			rec := do(t, h, http.MethodPost, "/api/v1/shipping/quote", `{"postal_code":"14015000","subtotal":10}`)

			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, tc.maxKm, body.Error.MaxDistanceKm)
			assert.Equal(t, tc.distanceKm, body.Error.DistanceKm)
		})
	}
}

func TestQuote_BadRequests(t *testing.T) {
	h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{Quotes: &mockQuoter{}}})

	for _, body := range []string{
		`{"postal_code":`,
		`{"postal_code":"14015000","subtotal":1,"coupon":"X"}`,
		`{"postal_code":"14015000"}{"postal_code":"1"}`,
		`{"postal_code":"  ","subtotal":1}`,
		`{"postal_code":"14015000","subtotal":-1}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/v1/shipping/quote", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "invalid_request", decodeError(t, rec).Error.Code, body)
	}
}

func TestCheckFreeShipping(t *testing.T) {
	var gotCity, gotState string
	var gotSubtotal decimal.Decimal
	checker := &mockFreeChecker{
		CheckFn: func(ctx context.Context, city, state string, subtotal decimal.Decimal) (domain.FreeShippingResult, error) {
			gotCity, gotState, gotSubtotal = city, state, subtotal
			return domain.FreeShippingResult{Free: true, Reason: "free"}, nil
		},
	}
	h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{FreeShipping: checker}})

	rec := do(t, h, http.MethodGet, "/api/v1/free-shipping/check?city=Ribeir%C3%A3o+Preto&state=SP&subtotal=99.90", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"free":true,"reason":"free"}`, rec.Body.String())
	assert.Equal(t, "Ribeirão Preto", gotCity)
	assert.Equal(t, "SP", gotState)
	assert.True(t, decimal.RequireFromString("99.90").Equal(gotSubtotal))

	rec = do(t, h, http.MethodGet, "/api/v1/free-shipping/check?city=Cravinhos", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/free-shipping/check?city=Cravinhos&state=SP&subtotal=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeRoute(t *testing.T) {
	var gotDriver *domain.Coordinates
	seq := &mockSequencer{
		SequenceFn: func(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error) {
			gotDriver = driver
			return []domain.DeliveryStop{stops[1], stops[0]}, nil
		},
	}
	h := newTestRouter(api.RouterConfig{Routes: &handlers.RouteHandler{Sequencer: seq}})

	body := `{
		"stops": [
			{"order_id": 1, "code": "PED-1", "customer_name": "Ana", "address": {"street": "Rua A", "number": "10", "district": "Centro", "city": "Ribeirão Preto", "state": "SP", "postal_code": "14015000"}},
			{"order_id": 2, "code": "PED-2", "customer_name": "Bruno", "address": {"street": "Rua B", "number": "20", "district": "Centro", "city": "Ribeirão Preto", "state": "SP", "postal_code": "14015001"}}
		],
		"driver_location": {"lat": -21.17, "lon": -47.81}
	}`
	rec := do(t, h, http.MethodPost, "/api/v1/routes/optimize", body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotDriver)
	assert.Equal(t, -21.17, gotDriver.Lat)

	var res struct {
		Stops []struct {
			OrderID int64  `json:"order_id"`
			Code    string `json:"code"`
			Address struct {
				Street string `json:"street"`
			} `json:"address"`
		} `json:"stops"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Len(t, res.Stops, 2)
	assert.Equal(t, int64(2), res.Stops[0].OrderID)
	assert.Equal(t, "Rua B", res.Stops[0].Address.Street)
	assert.NotContains(t, rec.Body.String(), "lat")
}

func TestOptimizeRoute_Rejects(t *testing.T) {
	h := newTestRouter(api.RouterConfig{Routes: &handlers.RouteHandler{Sequencer: &mockSequencer{}}})

	rec := do(t, h, http.MethodPost, "/api/v1/routes/optimize", `{"stops": [], "driver_location": {"lat": 95, "lon": 0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stops := make([]string, handlers.MaxRouteStops+1)
	for i := range stops {
		stops[i] = fmt.Sprintf(`{"order_id": %d}`, i)
	}
	rec = do(t, h, http.MethodPost, "/api/v1/routes/optimize", `{"stops": [`+strings.Join(stops, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeRoute_DeadlineReturns503(t *testing.T) {
	var sawDeadline bool
	seq := &mockSequencer{
		SequenceFn: func(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error) {
			_, sawDeadline = ctx.Deadline()
			// Each stop stalls like an unresponsive geocoder.
			for range stops {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(30 * time.Millisecond):
				}
			}
			return stops, nil
		},
	}
	h := newTestRouter(api.RouterConfig{Routes: &handlers.RouteHandler{
		Sequencer: seq,
		Timeout:   50 * time.Millisecond,
	}})

	stops := make([]string, 6)
	for i := range stops {
		stops[i] = fmt.Sprintf(`{"order_id": %d}`, i)
	}

	start := time.Now()
	rec := do(t, h, http.MethodPost, "/api/v1/routes/optimize", `{"stops": [`+strings.Join(stops, ",")+`]}`)

	assert.True(t, sawDeadline)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "request_cancelled", body.Error.Code)
}

func TestOptimizeRoute_UnexpectedErrorIs500(t *testing.T) {
	seq := &mockSequencer{
		SequenceFn: func(ctx context.Context, stops []domain.DeliveryStop, driver *domain.Coordinates) ([]domain.DeliveryStop, error) {
			return nil, errors.New("boom")
		},
	}
	h := newTestRouter(api.RouterConfig{Routes: &handlers.RouteHandler{Sequencer: seq}})

	rec := do(t, h, http.MethodPost, "/api/v1/routes/optimize", `{"stops": [{"order_id": 1}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal_error", body.Error.Code)
}

func TestBodyLimit(t *testing.T) {
	h := newTestRouter(api.RouterConfig{Shipping: &handlers.ShippingHandler{Quotes: &mockQuoter{}}})

	huge := `{"postal_code":"` + strings.Repeat("1", 2<<20) + `"}`
	rec := do(t, h, http.MethodPost, "/api/v1/shipping/quote", huge)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequestLogLine(t *testing.T) {
	var buf bytes.Buffer
	h := newTestRouter(api.RouterConfig{Logger: slog.New(slog.NewJSONHandler(&buf, nil))})

	do(t, h, http.MethodGet, "/health", "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/health", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Contains(t, entry, "duration_ms")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(api.RouterConfig{CORSOrigins: []string{"https://loja.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/shipping/quote", nil)
	req.Header.Set("Origin", "https://loja.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://loja.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func ptr[T any](v T) *T { return &v }
