package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPRateProvider queries the external shipping-cost service.
type HTTPRateProvider struct {
	url    string
	client *http.Client
}

// NewHTTPRateProvider creates a client for the shipping-cost service.
func NewHTTPRateProvider(serviceURL string, timeout time.Duration) *HTTPRateProvider {
	return &HTTPRateProvider{
		url:    serviceURL,
		client: &http.Client{Timeout: timeout},
	}
}

// GetRate fetches the authoritative shipping charge for the cart.
func (p *HTTPRateProvider) GetRate(ctx context.Context, params RateParams) (*Rate, error) {
	q := url.Values{}
	q.Set("subtotal", strconv.FormatInt(params.SubtotalCents, 10))
	q.Set("items", strconv.Itoa(params.ItemCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build shipping request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shipping request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shipping service returned status %d", resp.StatusCode)
	}

	var body struct {
		ServiceName string `json:"serviceName"`
		ServiceCode string `json:"serviceCode"`
		CostCents   int64  `json:"costCents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode shipping response: %w", err)
	}
	if body.ServiceName == "" && body.CostCents == 0 {
		return nil, ErrNoQuote
	}
	return &Rate{
		ServiceName: body.ServiceName,
		ServiceCode: body.ServiceCode,
		CostCents:   body.CostCents,
	}, nil
}
