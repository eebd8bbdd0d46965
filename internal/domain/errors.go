package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoObservations is returned when no marketplace produced a single price.
	// This is a normal terminal outcome ("nothing found"), not a system failure.
	ErrNoObservations = errors.New("no price observations found")

	// ErrReferenceUnavailable is returned when the reference page yields no
	// usable price and no manual price was supplied
	ErrReferenceUnavailable = errors.New("reference price unavailable")

	// ErrRenderAPIFailure is returned when a rendering-proxy request fails
	ErrRenderAPIFailure = errors.New("render proxy request failed")

	// ErrExchangeAPIFailure is returned when the exchange-rate lookup fails
	ErrExchangeAPIFailure = errors.New("exchange rate request failed")

	// ErrSummaryUnavailable is returned when the narrative service fails;
	// callers drop the summary and keep the rest of the report
	ErrSummaryUnavailable = errors.New("narrative summary unavailable")

	// ErrEmptyPrices is returned when a statistic is requested over an empty
	// price list
	ErrEmptyPrices = errors.New("no prices to compute statistics over")
)
