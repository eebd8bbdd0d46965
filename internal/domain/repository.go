package domain

import (
	"context"
	"time"
)

// RenderOptions tune how a page fetch is performed when routed through the
// rendering proxy. Zero value means a plain direct GET.
type RenderOptions struct {
	Render  bool
	Scroll  bool
	Wait    time.Duration
	Country string
}

// PageFetcher retrieves raw markup for a URL. Implementations retry
// internally and return an empty string once the retry budget is exhausted;
// marketplace pages are unreliable and the pipeline degrades rather than
// aborts.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string, opts RenderOptions) string
}

// Extractor scrapes one marketplace for listings matching a search key.
// Extraction is best-effort: candidates without a parsable price are skipped,
// candidates without a seller label default to UnknownSeller.
type Extractor interface {
	Source() string
	Extract(ctx context.Context, key SearchKey) ([]PriceObservation, error)
}

// RateProvider supplies the exchange rate for the configured currency pair.
// Implementations fall back to a documented constant on failure and never
// block past their timeout.
type RateProvider interface {
	Rate(ctx context.Context) float64
}

// Summarizer turns a numeric report into a short prose paragraph via an
// external text-generation service.
type Summarizer interface {
	Summarize(ctx context.Context, report *MarketReport) (string, error)
}

// Pacer inserts the politeness delay between marketplace queries. Production
// uses a bounded random sleep; tests use a no-op.
type Pacer interface {
	Wait(ctx context.Context) error
}
