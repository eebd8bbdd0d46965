package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

// fakeReportFetcher serves canned pages by URL substring.
type fakeReportFetcher struct {
	pages map[string]string
}

func (f *fakeReportFetcher) Fetch(_ context.Context, pageURL string, _ domain.RenderOptions) string {
	for fragment, body := range f.pages {
		if strings.Contains(pageURL, fragment) {
			return body
		}
	}
	return ""
}

type fakeRateProvider struct{ rate float64 }

func (f *fakeRateProvider) Rate(context.Context) float64 { return f.rate }

type fakeSummarizer struct {
	summary string
	err     error
	called  bool
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ *domain.MarketReport) (string, error) {
	f.called = true
	return f.summary, f.err
}

const referencePage = `<html><body>
<h1>Widget Pro 3000</h1>
<div class="price">100,00 zł</div>
</body></html>`

func newTestService(extractors []domain.Extractor, summarizer domain.Summarizer) *ReportService {
	fetcher := &fakeReportFetcher{pages: map[string]string{"brand.example": referencePage}}
	return NewReportService(
		fetcher,
		NewAggregator(extractors, NopPacer{}),
		&fakeRateProvider{rate: 0.25},
		summarizer,
	)
}

func marketExtractors() []domain.Extractor {
	return []domain.Extractor{
		&fakeExtractor{source: "a", prices: []float64{110, 90}},
		&fakeExtractor{source: "b"},
		&fakeExtractor{source: "c", prices: []float64{105}},
		&fakeExtractor{source: "d", prices: []float64{95, 100}},
	}
}

func TestBuildReport(t *testing.T) {
	ctx := context.Background()

	t.Run("reference URL mode", func(t *testing.T) {
		summarizer := &fakeSummarizer{summary: "Prices sit at RRP."}
		svc := newTestService(marketExtractors(), summarizer)

		report, err := svc.BuildReport(ctx, &ReportRequest{ReferenceURL: "https://brand.example/widget-pro"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Product.Name != "Widget Pro 3000" {
			t.Errorf("Name = %q, want Widget Pro 3000", report.Product.Name)
		}
		if report.Product.ReferencePrice != 100 {
			t.Errorf("ReferencePrice = %v, want 100", report.Product.ReferencePrice)
		}
		if report.SearchKey.Value != "Widget Pro 3000" {
			t.Errorf("SearchKey = %q, want the scraped name", report.SearchKey.Value)
		}
		if report.Median != 100 {
			t.Errorf("Median = %v, want 100", report.Median)
		}
		if report.DeviationPct != 0 {
			t.Errorf("DeviationPct = %v, want 0", report.DeviationPct)
		}
		if report.Currency != "PLN" {
			t.Errorf("Currency = %q, want PLN", report.Currency)
		}
		if report.Summary != "Prices sit at RRP." {
			t.Errorf("Summary = %q, want the generated paragraph", report.Summary)
		}
		if got := report.Stats.PerSiteStats["b"].Count; got != 0 {
			t.Errorf("count[b] = %d, want 0", got)
		}
	})

	t.Run("barcode mode with manual price", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		report, err := svc.BuildReport(ctx, &ReportRequest{
			Barcode:        "5901234123457",
			ReferencePrice: 80,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.SearchKey.Kind != domain.KeyKindBarcode {
			t.Errorf("Kind = %v, want barcode", report.SearchKey.Kind)
		}
		if report.Product.Name != "Unknown Product" {
			t.Errorf("Name = %q, want Unknown Product", report.Product.Name)
		}
		if report.DeviationPct != 25.0 {
			t.Errorf("DeviationPct = %v, want 25.0", report.DeviationPct)
		}
	})

	t.Run("manual price overrides scraped price", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		report, err := svc.BuildReport(ctx, &ReportRequest{
			ReferenceURL:   "https://brand.example/widget-pro",
			ReferencePrice: 200,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Product.ReferencePrice != 200 {
			t.Errorf("ReferencePrice = %v, want 200", report.Product.ReferencePrice)
		}
	})

	t.Run("invalid barcode", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		_, err := svc.BuildReport(ctx, &ReportRequest{Barcode: "abc123"})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("empty request", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		_, err := svc.BuildReport(ctx, &ReportRequest{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("unreachable reference page", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		_, err := svc.BuildReport(ctx, &ReportRequest{ReferenceURL: "https://dead.example/p"})
		if !errors.Is(err, domain.ErrReferenceUnavailable) {
			t.Errorf("error = %v, want ErrReferenceUnavailable", err)
		}
	})

	t.Run("no observations anywhere", func(t *testing.T) {
		svc := newTestService([]domain.Extractor{
			&fakeExtractor{source: "a"},
			&fakeExtractor{source: "b"},
		}, &fakeSummarizer{})

		_, err := svc.BuildReport(ctx, &ReportRequest{ProductName: "widget", ReferencePrice: 100})
		if !errors.Is(err, domain.ErrNoObservations) {
			t.Errorf("error = %v, want ErrNoObservations", err)
		}
	})

	t.Run("summary failure degrades", func(t *testing.T) {
		summarizer := &fakeSummarizer{err: domain.ErrSummaryUnavailable}
		svc := newTestService(marketExtractors(), summarizer)

		report, err := svc.BuildReport(ctx, &ReportRequest{ProductName: "widget", ReferencePrice: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !summarizer.called {
			t.Error("summarizer was never invoked")
		}
		if report.Summary != "" {
			t.Errorf("Summary = %q, want empty", report.Summary)
		}
		if report.Median != 100 {
			t.Errorf("Median = %v, want 100", report.Median)
		}
	})

	t.Run("EUR display currency", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		report, err := svc.BuildReport(ctx, &ReportRequest{
			ProductName:     "widget",
			ReferencePrice:  100,
			DisplayCurrency: "eur",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Currency != "EUR" {
			t.Errorf("Currency = %q, want EUR", report.Currency)
		}
		if report.ExchangeRate != 0.25 {
			t.Errorf("ExchangeRate = %v, want 0.25", report.ExchangeRate)
		}
		if report.ConvertedMedian != 25.0 {
			t.Errorf("ConvertedMedian = %v, want 25.0", report.ConvertedMedian)
		}
		if report.ConvertedRefPrice != 25.0 {
			t.Errorf("ConvertedRefPrice = %v, want 25.0", report.ConvertedRefPrice)
		}
	})

	t.Run("nil request", func(t *testing.T) {
		svc := newTestService(marketExtractors(), &fakeSummarizer{})

		_, err := svc.BuildReport(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}
