package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/platform/obs"

	"golang.org/x/time/rate"
)

// NominatimGeocoder queries an OpenStreetMap Nominatim instance.
//
// All calls share one limiter so the process never exceeds the public
// instance's usage policy of one request per second.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
}

type NominatimOptions struct {
	BaseURL string
	// Sent as User-Agent; Nominatim rejects anonymous clients.
	UserAgent string
	Timeout   time.Duration
	// Minimum spacing between requests. Zero disables throttling.
	MinInterval time.Duration
	Client      *http.Client
}

func NewNominatimGeocoder(opts NominatimOptions) *NominatimGeocoder {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		client:    client,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// SearchText resolves a free-text address to the best match.
func (n *NominatimGeocoder) SearchText(ctx context.Context, query string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "nominatim.SearchText")(&err)

	params := url.Values{}
	params.Set("q", query)

	coord, found, err := n.search(ctx, params)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode.NominatimGeocoder.SearchText: %w", err)
	}
	return coord, found, nil
}

// SearchPostalCode resolves a postal code within a country.
// Precision is usually the centre of the postal area.
func (n *NominatimGeocoder) SearchPostalCode(ctx context.Context, postalCode string, country string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "nominatim.SearchPostalCode")(&err)

	params := url.Values{}
	params.Set("postalcode", postalCode)
	if country != "" {
		params.Set("country", country)
	}

	coord, found, err := n.search(ctx, params)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode.NominatimGeocoder.SearchPostalCode: %w", err)
	}
	return coord, found, nil
}

// search performs one /search call. Every failure wraps domain.ErrUnavailable.
func (n *NominatimGeocoder) search(ctx context.Context, params url.Values) (domain.Coordinates, bool, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: wait for rate limiter: %w", domain.ErrUnavailable, err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := newRequest(ctx, n.baseURL+"/search?"+params.Encode(), n.userAgent)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}

	resp, err := do(n.client, req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: decode response: %w", domain.ErrUnavailable, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: parse lat %q: %w", domain.ErrUnavailable, places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: parse lon %q: %w", domain.ErrUnavailable, places[0].Lon, err)
	}

	coord := domain.Coordinates{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return domain.Coordinates{}, false, fmt.Errorf("%w: coordinates out of range: %v", domain.ErrUnavailable, coord)
	}

	return coord, true, nil
}
