package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Options configures the page fetch client.
type Options struct {
	// RenderAPIKey authenticates against the rendering proxy. Required when
	// any fetch uses RenderOptions.Render.
	RenderAPIKey string
	// RenderBaseURL is the rendering proxy endpoint.
	RenderBaseURL string
	// UserAgent is sent on direct (non-proxied) requests.
	UserAgent string
	// Timeout bounds a single attempt, proxy rendering included.
	Timeout time.Duration
	// Retries is the per-fetch retry budget. Defaults to 3.
	Retries int
}

// Client fetches marketplace and reference pages. Transport failures are
// retried up to the budget with a short backoff; an exhausted budget yields
// an empty result instead of an error so one flaky page never takes down a
// run.
type Client struct {
	httpClient    *http.Client
	renderAPIKey  string
	renderBaseURL string
	userAgent     string
	retries       int
	limiter       *rate.Limiter
}

// NewClient creates a page fetch client.
func NewClient(opts Options) *Client {
	retries := opts.Retries
	if retries <= 0 {
		retries = 3
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// One request per second with a small burst keeps the client under the
	// proxy's concurrency cap and off marketplace abuse radars.
	limiter := rate.NewLimiter(rate.Limit(1), 2)

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		renderAPIKey:  opts.RenderAPIKey,
		renderBaseURL: opts.RenderBaseURL,
		userAgent:     opts.UserAgent,
		retries:       retries,
		limiter:       limiter,
	}
}

// Fetch retrieves raw markup for pageURL. Returns "" after the retry budget
// is exhausted.
func (c *Client) Fetch(ctx context.Context, pageURL string, opts domain.RenderOptions) string {
	reqURL := pageURL
	if opts.Render {
		reqURL = c.renderURL(pageURL, opts)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			log.Printf("[Fetch] rate limiter error: %v", err)
			return ""
		}

		body, err := c.doRequest(ctx, reqURL, opts.Render)
		if err == nil {
			return body
		}
		lastErr = err
		log.Printf("[Fetch] attempt %d/%d failed for %s: %v", attempt, c.retries, pageURL, err)

		// No point backing off once the budget is spent.
		if attempt == c.retries {
			break
		}

		select {
		case <-ctx.Done():
			return ""
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	log.Printf("[Fetch] giving up on %s after %d attempts: %v", pageURL, c.retries, lastErr)
	return ""
}

// doRequest executes one GET and returns the body on a 2xx response.
func (c *Client) doRequest(ctx context.Context, reqURL string, proxied bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if !proxied && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if proxied {
			return "", fmt.Errorf("%w: %v", domain.ErrRenderAPIFailure, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// renderURL wraps the target URL in a rendering-proxy request.
func (c *Client) renderURL(pageURL string, opts domain.RenderOptions) string {
	params := url.Values{}
	params.Add("api_key", c.renderAPIKey)
	params.Add("url", pageURL)
	params.Add("render", "true")
	if opts.Country != "" {
		params.Add("country_code", opts.Country)
	}
	if opts.Scroll {
		params.Add("scroll", "true")
	}
	if opts.Wait > 0 {
		params.Add("wait", fmt.Sprintf("%d", opts.Wait.Milliseconds()))
	}
	return fmt.Sprintf("%s?%s", c.renderBaseURL, params.Encode())
}

// exponentialBackoff returns the wait before retry attempt+1:
// 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return 500 * time.Millisecond << (attempt - 1)
}
