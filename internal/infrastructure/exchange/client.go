// Package exchange looks up the PLN→EUR exchange rate used for the display
// currency toggle. Lookups degrade to a documented fallback constant; the
// end user never sees an exchange failure.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// DefaultFallbackRate is used when no fallback is configured. EUR per PLN,
// refreshed manually when it drifts.
const DefaultFallbackRate = 0.23

// Client fetches the exchange rate for one fixed currency pair.
type Client struct {
	httpClient *http.Client
	baseURL    string
	base       string
	symbol     string
	fallback   float64
}

// NewClient creates an exchange-rate client degrading to fallbackRate when
// the live lookup fails. The lookup timeout is short on purpose: the rate is
// an optional enrichment and must not stall the run.
func NewClient(baseURL string, fallbackRate float64) *Client {
	if fallbackRate <= 0 {
		fallbackRate = DefaultFallbackRate
	}
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		base:       "PLN",
		symbol:     "EUR",
		fallback:   fallbackRate,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the live EUR-per-PLN rate, or the configured fallback on
// any failure.
func (c *Client) Rate(ctx context.Context) float64 {
	rate, err := c.fetchRate(ctx)
	if err != nil {
		log.Printf("[Exchange] falling back to %v: %v", c.fallback, err)
		return c.fallback
	}
	return rate
}

func (c *Client) fetchRate(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Add("base", c.base)
	params.Add("symbols", c.symbol)
	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrExchangeAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", domain.ErrExchangeAPIFailure, resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrExchangeAPIFailure, err)
	}

	rate, ok := body.Rates[c.symbol]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no usable %s rate in response", domain.ErrExchangeAPIFailure, c.symbol)
	}
	return rate, nil
}
