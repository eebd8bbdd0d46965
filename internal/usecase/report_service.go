package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/markup"
)

// ReportRequest is one user-triggered price check.
type ReportRequest struct {
	// ReferenceURL points at the product page supplying name and RRP.
	ReferenceURL string
	// Barcode switches the search key to barcode mode; no name is required.
	Barcode string
	// ProductName overrides the scraped name / acts as the search key when
	// no reference URL is given.
	ProductName string
	// ReferencePrice is the manual RRP; it overrides the scraped price.
	ReferencePrice float64
	// DisplayCurrency is "PLN" (default) or "EUR".
	DisplayCurrency string
}

// ReportService runs the full pipeline: resolve the reference product,
// aggregate marketplace observations, compute statistics, and enrich the
// report with conversion and narrative. Enrichment failures degrade; only
// invalid input, an unusable reference, and a zero-data outcome end a run.
type ReportService struct {
	fetcher      domain.PageFetcher
	aggregator   *Aggregator
	rateProvider domain.RateProvider
	summarizer   domain.Summarizer
}

// NewReportService wires the pipeline's collaborators.
func NewReportService(
	fetcher domain.PageFetcher,
	aggregator *Aggregator,
	rateProvider domain.RateProvider,
	summarizer domain.Summarizer,
) *ReportService {
	return &ReportService{
		fetcher:      fetcher,
		aggregator:   aggregator,
		rateProvider: rateProvider,
		summarizer:   summarizer,
	}
}

var barcodeRegex = regexp.MustCompile(`^\d{8,14}$`)

// BuildReport executes one run. Flow: validate -> resolve reference ->
// aggregate -> median/deviation -> optional conversion -> optional summary.
func (s *ReportService) BuildReport(ctx context.Context, req *ReportRequest) (*domain.MarketReport, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	key, err := s.searchKey(req)
	if err != nil {
		return nil, err
	}

	product, err := s.resolveReference(ctx, req, key)
	if err != nil {
		return nil, err
	}

	// Name mode searches by the resolved product name, which may be more
	// precise than what the user typed.
	if key.Kind == domain.KeyKindName && product.Name != unknownProduct {
		key.Value = product.Name
	}
	if strings.TrimSpace(key.Value) == "" {
		return nil, fmt.Errorf("%w: reference page yielded no product name", domain.ErrInvalidRequest)
	}

	results, stats, err := s.aggregator.Aggregate(ctx, key)
	if err != nil {
		return nil, err
	}

	median, err := Median(stats.AllPrices)
	if err != nil {
		return nil, err
	}

	report := &domain.MarketReport{
		Product:      product,
		SearchKey:    key,
		Currency:     "PLN",
		Median:       median,
		DeviationPct: Deviation(product.ReferencePrice, median),
		Stats:        stats,
		Results:      results,
	}

	if strings.EqualFold(req.DisplayCurrency, "EUR") {
		rate := s.rateProvider.Rate(ctx)
		report.Currency = "EUR"
		report.ExchangeRate = rate
		report.ConvertedMedian = Convert(median, rate)
		report.ConvertedRefPrice = Convert(product.ReferencePrice, rate)
	}

	summary, err := s.summarizer.Summarize(ctx, report)
	if err != nil {
		// The summary is an optional enrichment; the report stands without it.
		log.Printf("[Report] summary omitted: %v", err)
	} else {
		report.Summary = summary
	}

	return report, nil
}

// searchKey derives the key and its kind from the request.
func (s *ReportService) searchKey(req *ReportRequest) (domain.SearchKey, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode != "" {
		if !barcodeRegex.MatchString(barcode) {
			return domain.SearchKey{}, fmt.Errorf("%w: barcode must be 8-14 digits", domain.ErrInvalidRequest)
		}
		return domain.SearchKey{Value: barcode, Kind: domain.KeyKindBarcode}, nil
	}

	if name := strings.TrimSpace(req.ProductName); name != "" {
		return domain.SearchKey{Value: name, Kind: domain.KeyKindName}, nil
	}
	if strings.TrimSpace(req.ReferenceURL) != "" {
		// Name comes from the reference page once it is scraped.
		return domain.SearchKey{Kind: domain.KeyKindName}, nil
	}
	return domain.SearchKey{}, fmt.Errorf("%w: empty search key", domain.ErrInvalidRequest)
}

const unknownProduct = "Unknown Product"

// referencePriceSelectors mirror the layouts reference pages commonly use.
var referencePriceSelectors = []string{".price", ".product-price", "[data-price]"}

// resolveReference produces the ReferenceProduct from the reference page,
// the manual price, or both (manual price wins).
func (s *ReportService) resolveReference(ctx context.Context, req *ReportRequest, key domain.SearchKey) (domain.ReferenceProduct, error) {
	product := domain.ReferenceProduct{
		Name:           strings.TrimSpace(req.ProductName),
		ReferencePrice: req.ReferencePrice,
	}

	refURL := strings.TrimSpace(req.ReferenceURL)
	if refURL != "" {
		scraped := s.scrapeReferencePage(ctx, refURL)
		if product.Name == "" {
			product.Name = scraped.Name
		}
		if product.ReferencePrice <= 0 {
			product.ReferencePrice = scraped.ReferencePrice
		}
	}

	if product.Name == "" {
		product.Name = unknownProduct
	}

	if product.ReferencePrice <= 0 {
		// Barcode mode requires the manual price; URL mode failed to scrape
		// one. Either way there is nothing to compare against.
		return product, domain.ErrReferenceUnavailable
	}
	return product, nil
}

// scrapeReferencePage extracts name and price from the reference page.
// Zero values mean the page was unusable; the caller decides whether the
// manual inputs cover for it.
func (s *ReportService) scrapeReferencePage(ctx context.Context, refURL string) domain.ReferenceProduct {
	var product domain.ReferenceProduct

	raw := s.fetcher.Fetch(ctx, refURL, domain.RenderOptions{})
	if raw == "" {
		log.Printf("[Report] reference page unreachable: %s", refURL)
		return product
	}

	doc, err := markup.Parse(raw)
	if err != nil {
		log.Printf("[Report] reference page unparsable: %v", err)
		return product
	}

	product.Name = markup.Text(markup.QuerySelector(doc, "h1"))

	priceNode := markup.QuerySelector(doc, referencePriceSelectors...)
	if price, ok := domain.NormalizePrice(markup.Text(priceNode)); ok {
		product.ReferencePrice = price
	}
	return product
}
