package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/platform/obs"
)

const postalCodeDigits = 8

// ViaCEPRegistry resolves Brazilian postal codes (CEP) through the ViaCEP API.
type ViaCEPRegistry struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewViaCEPRegistry(baseURL string, timeout time.Duration, client *http.Client) *ViaCEPRegistry {
	if client == nil {
		client = &http.Client{}
	}
	return &ViaCEPRegistry{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: timeout,
	}
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	// ViaCEP has answered both `true` and `"true"` here.
	Erro any `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

// LookupPostalCode returns the registered address for a CEP.
// Codes that do not have exactly eight digits are rejected without a call.
func (v *ViaCEPRegistry) LookupPostalCode(ctx context.Context, postalCode string) (_ domain.PostalAddress, err error) {
	defer obs.Time(ctx, "viacep.LookupPostalCode")(&err)

	cep := domain.NormalizePostalCode(postalCode)
	if len(cep) != postalCodeDigits {
		return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w", domain.ErrNotFound)
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	req, err := newRequest(ctx, v.baseURL+"/ws/"+cep+"/json/", "")
	if err != nil {
		return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w: %w", domain.ErrUnavailable, err)
	}

	resp, err := do(v.client, req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w", domain.ErrNotFound)
		}
		return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w: decode response: %w", domain.ErrUnavailable, err)
	}

	if decoded.notFound() {
		return domain.PostalAddress{}, fmt.Errorf("geocode.ViaCEPRegistry.LookupPostalCode: %w", domain.ErrNotFound)
	}

	return domain.PostalAddress{
		PostalCode: cep,
		Street:     strings.TrimSpace(decoded.Logradouro),
		District:   strings.TrimSpace(decoded.Bairro),
		City:       strings.TrimSpace(decoded.Localidade),
		State:      domain.NormalizeState(decoded.UF),
	}, nil
}
