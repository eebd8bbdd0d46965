package usecase

import (
	"sort"

	"github.com/pricelens/backend/internal/domain"
)

// Median returns the statistical median of prices. The median of an empty
// set is undefined; callers must check for observations first.
func Median(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, domain.ErrEmptyPrices
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Deviation returns the signed percentage difference of the market median
// against the reference price. Positive means the market is pricier.
// A non-positive reference yields exactly zero (division-by-zero guard, not
// an error path).
func Deviation(reference, median float64) float64 {
	if reference <= 0 {
		return 0
	}
	return (median - reference) / reference * 100
}

// Convert applies an exchange rate to an amount. Pure multiplication;
// rounding is left to presentation.
func Convert(amount, rate float64) float64 {
	return amount * rate
}

// SiteStatsFor folds one source's observations into its summary row.
func SiteStatsFor(observations []domain.PriceObservation) domain.SiteStats {
	stats := domain.SiteStats{Count: len(observations)}
	if stats.Count == 0 {
		return stats
	}

	prices := make([]float64, 0, len(observations))
	for _, obs := range observations {
		prices = append(prices, obs.Price)
	}

	stats.Min = prices[0]
	stats.Max = prices[0]
	for _, p := range prices[1:] {
		if p < stats.Min {
			stats.Min = p
		}
		if p > stats.Max {
			stats.Max = p
		}
	}
	stats.Median, _ = Median(prices)
	return stats
}
