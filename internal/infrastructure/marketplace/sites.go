package marketplace

import (
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Source identifiers for the four supported marketplaces.
const (
	SourceCeneo   = "ceneo"
	SourceAllegro = "allegro"
	SourceEmpik   = "empik"
	SourceSkapiec = "skapiec"
)

// Selectors track the current page layouts; they are the part of each spec
// expected to rot and are grouped here so a layout change is a one-line fix.
var (
	ceneoSpec = SiteSpec{
		Source:            SourceCeneo,
		NameQueryURL:      "https://www.ceneo.pl/;szukaj-%s",
		BarcodeQueryURL:   "https://www.ceneo.pl/;szukaj-%s",
		ContainerSelector: "div.cat-prod-row",
		PriceSelectors:    []string{"span.price", ".product-price"},
		SellerSelectors:   []string{".cat-prod-row__shop-name", ".shop-name"},
		Render:            domain.RenderOptions{Country: "pl"},
	}

	allegroSpec = SiteSpec{
		Source:            SourceAllegro,
		NameQueryURL:      "https://allegro.pl/listing?string=%s",
		BarcodeQueryURL:   "https://allegro.pl/listing?string=%s",
		ContainerSelector: "article[data-role=offer]",
		PriceSelectors:    []string{"span[aria-label]", ".mpof_uk"},
		SellerSelectors:   []string{".seller-name", "span.mgmw_wo"},
		// Allegro listings are JS-rendered and lazy-load below the fold.
		Render: domain.RenderOptions{
			Render:  true,
			Scroll:  true,
			Wait:    2 * time.Second,
			Country: "pl",
		},
	}

	empikSpec = SiteSpec{
		Source:            SourceEmpik,
		NameQueryURL:      "https://www.empik.com/szukaj/produkt?q=%s",
		BarcodeQueryURL:   "https://www.empik.com/szukaj/produkt?q=%s",
		ContainerSelector: "div.search-list-item",
		PriceSelectors:    []string{".price", "span.price-currentPrice"},
		SellerSelectors:   []string{".merchant-name"},
		Render:            domain.RenderOptions{Country: "pl"},
	}

	skapiecSpec = SiteSpec{
		Source:            SourceSkapiec,
		NameQueryURL:      "https://www.skapiec.pl/szukaj/w_calym_serwisie/%s",
		BarcodeQueryURL:   "https://www.skapiec.pl/szukaj/w_calym_serwisie/%s",
		ContainerSelector: "div.box-row",
		PriceSelectors:    []string{"span.price", ".price-current"},
		SellerSelectors:   []string{".dealer-name", ".offer-shop"},
		Render: domain.RenderOptions{
			Render:  true,
			Wait:    time.Second,
			Country: "pl",
		},
	}
)

// DefaultExtractors builds the registered extractor set over a fetcher.
// Iteration order is the fixed query order.
func DefaultExtractors(fetcher domain.PageFetcher) []domain.Extractor {
	return []domain.Extractor{
		NewSiteExtractor(ceneoSpec, fetcher),
		NewSiteExtractor(allegroSpec, fetcher),
		NewSiteExtractor(empikSpec, fetcher),
		NewSiteExtractor(skapiecSpec, fetcher),
	}
}
