package domain

// UnknownSeller is recorded when a listing carries a price but no seller label.
const UnknownSeller = "unknown seller"

// PriceObservation is a single (seller, price) listing parsed from one
// marketplace result element. Immutable once created.
type PriceObservation struct {
	Seller string  `json:"seller"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// ReferenceProduct is the product whose price is being checked against the
// market. Barcode mode supplies ReferencePrice directly and leaves Name empty
// until the caller defaults it.
type ReferenceProduct struct {
	Name           string  `json:"name"`
	ReferencePrice float64 `json:"referencePrice"`
}

// KeyKind distinguishes free-form product names from barcode/EAN keys.
type KeyKind string

const (
	KeyKindName    KeyKind = "name"
	KeyKindBarcode KeyKind = "barcode"
)

// SearchKey is the query fanned out to every marketplace. Kind determines
// how each extractor builds its search URL.
type SearchKey struct {
	Value string  `json:"value"`
	Kind  KeyKind `json:"kind"`
}

// SiteResultSet maps a source identifier to the observations it produced,
// in page order. Every registered source is present, empty slice included.
type SiteResultSet map[string][]PriceObservation

// SiteStats are the per-source summary numbers shown in the results table.
type SiteStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// AggregateStats holds the flattened price list across all sources plus the
// per-source breakdown. Derived per run, never persisted.
type AggregateStats struct {
	AllPrices    []float64            `json:"allPrices"`
	PerSiteStats map[string]SiteStats `json:"perSiteStats"`
}

// MarketReport is the full pipeline output returned to the client.
type MarketReport struct {
	Product           ReferenceProduct `json:"product"`
	SearchKey         SearchKey        `json:"searchKey"`
	Currency          string           `json:"currency"`
	Median            float64          `json:"median"`
	DeviationPct      float64          `json:"deviationPct"`
	Stats             AggregateStats   `json:"stats"`
	Results           SiteResultSet    `json:"results"`
	ExchangeRate      float64          `json:"exchangeRate,omitempty"`
	ConvertedMedian   float64          `json:"convertedMedian,omitempty"`
	ConvertedRefPrice float64          `json:"convertedReferencePrice,omitempty"`
	Summary           string           `json:"summary,omitempty"`
}
