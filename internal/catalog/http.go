package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/gersemi/internal/domain"
)

// HTTPProvider fetches the active-promotions catalog over HTTP. The source
// system left timeouts and retries unspecified, so both are applied here
// defensively.
type HTTPProvider struct {
	url        string
	client     *http.Client
	maxRetries int
	logger     *slog.Logger
}

// NewHTTPProvider creates a catalog provider for the given endpoint.
func NewHTTPProvider(url string, timeout time.Duration, maxRetries int, logger *slog.Logger) *HTTPProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPProvider{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ActivePromotions fetches and decodes the promotion catalog, retrying
// transient failures with a short backoff.
func (p *HTTPProvider) ActivePromotions(ctx context.Context) ([]domain.Promotion, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
			p.logger.Debug("retrying catalog fetch", "attempt", attempt)
		}

		promotions, retryable, err := p.fetch(ctx)
		if err == nil {
			return promotions, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, domain.Unavailable(lastErr, "catalog.fetch", "promotion catalog unavailable")
}

func (p *HTTPProvider) fetch(ctx context.Context) ([]domain.Promotion, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var promotions []domain.Promotion
	if err := json.NewDecoder(resp.Body).Decode(&promotions); err != nil {
		// Malformed definitions are a catalog bug, not a transient fault.
		return nil, false, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return promotions, false, nil
}
