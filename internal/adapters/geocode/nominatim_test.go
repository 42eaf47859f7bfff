package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"basket-shipping-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(srv *httptest.Server) *NominatimGeocoder {
	return NewNominatimGeocoder(NominatimOptions{
		BaseURL:   srv.URL,
		UserAgent: "basket-shipping-service/test",
		Timeout:   100 * time.Millisecond,
		Client:    srv.Client(),
	})
}

func TestNominatimGeocoder_SearchText(t *testing.T) {
	var got url.Values
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		got = r.URL.Query()
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat": "-21.1775", "lon": "-47.8103", "display_name": "Centro"}]`))
	}))
	defer srv.Close()

	coord, found, err := newTestGeocoder(srv).SearchText(context.Background(), "Rua Sete de Setembro, Centro, Ribeirão Preto - SP, Brasil")
	require.NoError(t, err)
	require.True(t, found)

	assert.InDelta(t, -21.1775, coord.Lat, 1e-9)
	assert.InDelta(t, -47.8103, coord.Lon, 1e-9)
	assert.Equal(t, "json", got.Get("format"))
	assert.Equal(t, "1", got.Get("limit"))
	assert.Equal(t, "Rua Sete de Setembro, Centro, Ribeirão Preto - SP, Brasil", got.Get("q"))
	assert.Equal(t, "basket-shipping-service/test", ua)
}

func TestNominatimGeocoder_SearchPostalCode(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`[{"lat": "-21.18", "lon": "-47.81"}]`))
	}))
	defer srv.Close()

	_, found, err := newTestGeocoder(srv).SearchPostalCode(context.Background(), "14015000", "Brasil")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "14015000", got.Get("postalcode"))
	assert.Equal(t, "Brasil", got.Get("country"))
	assert.Empty(t, got.Get("q"))
}

func TestNominatimGeocoder_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, found, err := newTestGeocoder(srv).SearchText(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNominatimGeocoder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not": "an array"`))
			},
		},
		{
			name: "unparsable coordinate",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"lat": "north", "lon": "-47.81"}]`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, found, err := newTestGeocoder(srv).SearchText(context.Background(), "Centro")
			require.ErrorIs(t, err, domain.ErrUnavailable)
			assert.False(t, found)
		})
	}
}

func TestNominatimGeocoder_LimiterRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(NominatimOptions{
		BaseURL:     srv.URL,
		MinInterval: time.Hour,
		Client:      srv.Client(),
	})

	// The first call consumes the only token.
	_, _, err := g.SearchText(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err = g.SearchText(ctx, "b")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
