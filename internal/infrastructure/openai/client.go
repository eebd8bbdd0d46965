// Package openai sends the numeric report summary to a chat-completions
// endpoint and returns the generated prose. A failed call surfaces as
// domain.ErrSummaryUnavailable; the pipeline keeps the rest of the report.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Client talks to a chat-style text-generation API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a narrative summarizer client.
func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize formats a deterministic prompt from the report and returns the
// completion verbatim.
func (c *Client) Summarize(ctx context.Context, report *domain.MarketReport) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: BuildPrompt(report)}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrSummaryUnavailable, resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	if len(body.Choices) == 0 || body.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrSummaryUnavailable)
	}

	return body.Choices[0].Message.Content, nil
}

// BuildPrompt renders the fixed-shape numeric summary the model is asked to
// explain. Per-site counts are emitted in sorted source order so the prompt
// is deterministic for a given report.
func BuildPrompt(report *domain.MarketReport) string {
	sources := make([]string, 0, len(report.Stats.PerSiteStats))
	for source := range report.Stats.PerSiteStats {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var counts strings.Builder
	for i, source := range sources {
		if i > 0 {
			counts.WriteString(", ")
		}
		fmt.Fprintf(&counts, "%s: %d", source, report.Stats.PerSiteStats[source].Count)
	}

	// Median and reference are stored in PLN; when the report displays a
	// different currency the converted amounts must go into the prompt or
	// the model is handed PLN numbers under a foreign currency label.
	reference := report.Product.ReferencePrice
	median := report.Median
	if report.Currency != "PLN" {
		reference = report.ConvertedRefPrice
		median = report.ConvertedMedian
	}

	return fmt.Sprintf(`Product: %s
Search key: %s
RRP: %.2f %s
Median market price: %.2f %s
Deviation: %.1f%%
Listings per marketplace: %s

Summarize this finding in a short, professional business paragraph.`,
		report.Product.Name,
		report.SearchKey.Value,
		reference, report.Currency,
		median, report.Currency,
		report.DeviationPct,
		counts.String(),
	)
}
