package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/google/uuid"
)

// HTTPAuthority talks to the remote coupon validation endpoint.
type HTTPAuthority struct {
	url        string
	client     *http.Client
	maxRetries int
	logger     *slog.Logger
}

// NewHTTPAuthority creates a coupon authority client.
func NewHTTPAuthority(url string, timeout time.Duration, maxRetries int, logger *slog.Logger) *HTTPAuthority {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPAuthority{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Validate posts the code and cart snapshot to the authority.
func (a *HTTPAuthority) Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.Internal(err, "coupon.validate", "failed to encode validation request")
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
			a.logger.Debug("retrying coupon validation", "attempt", attempt)
		}

		result, retryable, err := a.post(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, domain.Unavailable(lastErr, "coupon.validate", "coupon validation service unavailable")
}

func (a *HTTPAuthority) post(ctx context.Context, body []byte) (*ValidationResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("coupon authority returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("coupon authority returned status %d", resp.StatusCode)
	}

	var result ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode validation response: %w", err)
	}
	return &result, false, nil
}
