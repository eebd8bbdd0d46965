package usecase

import (
	"context"
	"log"

	"github.com/pricelens/backend/internal/domain"
)

// Aggregator fans a search key out to every registered marketplace extractor
// and folds the observations into aggregate statistics. Sources run one at a
// time in registration order with a politeness delay between them; a failing
// source is logged and contributes an empty list, never blocking its
// siblings.
type Aggregator struct {
	extractors []domain.Extractor
	pacer      domain.Pacer
}

// NewAggregator creates an aggregator over a fixed extractor set.
func NewAggregator(extractors []domain.Extractor, pacer domain.Pacer) *Aggregator {
	if pacer == nil {
		pacer = NopPacer{}
	}
	return &Aggregator{extractors: extractors, pacer: pacer}
}

// Sources returns the registered source identifiers in query order.
func (a *Aggregator) Sources() []string {
	sources := make([]string, 0, len(a.extractors))
	for _, e := range a.extractors {
		sources = append(sources, e.Source())
	}
	return sources
}

// Aggregate queries every source for the key. The returned SiteResultSet
// holds a key for every registered source, empty slice included. It returns
// domain.ErrNoObservations when no source produced anything, a normal
// "nothing found" outcome the caller reports to the user.
func (a *Aggregator) Aggregate(ctx context.Context, key domain.SearchKey) (domain.SiteResultSet, domain.AggregateStats, error) {
	results := make(domain.SiteResultSet, len(a.extractors))
	stats := domain.AggregateStats{
		AllPrices:    []float64{},
		PerSiteStats: make(map[string]domain.SiteStats, len(a.extractors)),
	}

	for i, extractor := range a.extractors {
		if i > 0 {
			if err := a.pacer.Wait(ctx); err != nil {
				return nil, stats, err
			}
		}

		observations := a.extractOne(ctx, extractor, key)
		results[extractor.Source()] = observations
		stats.PerSiteStats[extractor.Source()] = SiteStatsFor(observations)
		for _, obs := range observations {
			stats.AllPrices = append(stats.AllPrices, obs.Price)
		}
	}

	if len(stats.AllPrices) == 0 {
		return results, stats, domain.ErrNoObservations
	}
	return results, stats, nil
}

// extractOne isolates a single source: errors and panics degrade to an
// empty observation list.
func (a *Aggregator) extractOne(ctx context.Context, extractor domain.Extractor, key domain.SearchKey) (observations []domain.PriceObservation) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Aggregator] %s panicked: %v", extractor.Source(), r)
			observations = []domain.PriceObservation{}
		}
	}()

	observations, err := extractor.Extract(ctx, key)
	if err != nil {
		log.Printf("[Aggregator] %s failed: %v", extractor.Source(), err)
		return []domain.PriceObservation{}
	}
	if observations == nil {
		observations = []domain.PriceObservation{}
	}
	return observations
}
