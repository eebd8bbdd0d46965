// Package marketplace implements the per-site listing extractors. Each site
// is a SiteSpec (URL templates plus CSS selectors) over one shared
// extraction core; marketplace markup changes often, so extraction is
// best-effort and a candidate without a parsable price is skipped silently.
package marketplace

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/markup"
)

// SiteSpec describes how to query one marketplace and where its listing
// fields live in the markup.
type SiteSpec struct {
	// Source identifies the marketplace in observations and result sets.
	Source string
	// NameQueryURL and BarcodeQueryURL are fmt templates with one %s slot
	// for the URL-encoded search key.
	NameQueryURL    string
	BarcodeQueryURL string
	// ContainerSelector matches one listing candidate per node.
	ContainerSelector string
	// PriceSelectors are tried in order within a container.
	PriceSelectors []string
	// SellerSelectors are tried in order; no match records UnknownSeller.
	SellerSelectors []string
	// Render holds the proxy flags this site needs (JS-heavy listings).
	Render domain.RenderOptions
}

// SiteExtractor scrapes one marketplace according to its SiteSpec.
type SiteExtractor struct {
	spec    SiteSpec
	fetcher domain.PageFetcher
}

// NewSiteExtractor creates an extractor for one marketplace.
func NewSiteExtractor(spec SiteSpec, fetcher domain.PageFetcher) *SiteExtractor {
	return &SiteExtractor{spec: spec, fetcher: fetcher}
}

// Source returns the marketplace identifier.
func (e *SiteExtractor) Source() string {
	return e.spec.Source
}

// Extract queries the marketplace and parses listing candidates in page
// order. An empty page (fetch exhausted its retries) yields an empty list,
// not an error.
func (e *SiteExtractor) Extract(ctx context.Context, key domain.SearchKey) ([]domain.PriceObservation, error) {
	searchURL, err := e.searchURL(key)
	if err != nil {
		return nil, err
	}

	raw := e.fetcher.Fetch(ctx, searchURL, e.spec.Render)
	if raw == "" {
		log.Printf("[%s] empty page for key %q", e.spec.Source, key.Value)
		return []domain.PriceObservation{}, nil
	}

	doc, err := markup.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", e.spec.Source, err)
	}

	observations := []domain.PriceObservation{}
	for _, container := range markup.QuerySelectorAll(doc, e.spec.ContainerSelector) {
		priceNode := markup.QuerySelector(container, e.spec.PriceSelectors...)
		price, ok := domain.NormalizePrice(markup.Text(priceNode))
		if !ok {
			continue
		}

		seller := markup.Text(markup.QuerySelector(container, e.spec.SellerSelectors...))
		if seller == "" {
			seller = domain.UnknownSeller
		}

		observations = append(observations, domain.PriceObservation{
			Seller: seller,
			Price:  price,
			Source: e.spec.Source,
		})
	}

	return observations, nil
}

// searchURL builds the query URL for the key kind.
func (e *SiteExtractor) searchURL(key domain.SearchKey) (string, error) {
	value := strings.TrimSpace(key.Value)
	if value == "" {
		return "", fmt.Errorf("%w: empty search key", domain.ErrInvalidRequest)
	}

	template := e.spec.NameQueryURL
	if key.Kind == domain.KeyKindBarcode && e.spec.BarcodeQueryURL != "" {
		template = e.spec.BarcodeQueryURL
	}
	return fmt.Sprintf(template, url.QueryEscape(value)), nil
}
