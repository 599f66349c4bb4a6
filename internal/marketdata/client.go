// Package marketdata abstracts the external quote provider behind a small
// client interface and a named provider registry, so alternate providers can
// be selected by configuration without touching the callers.
package marketdata

import (
	"fmt"
	"sort"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// Quote is one closing price returned by a provider.
type Quote struct {
	Date  time.Time
	Price float64
}

// Client defines the interface for fetching market data from a quote
// provider. This interface enables dependency injection and testing with
// mock implementations.
//
// QueryHistorical returns daily closing quotes for the inclusive date range,
// ascending by date; an empty result is not an error. QueryCurrent returns
// the most recent available price for the symbol.
type Client interface {
	QueryHistorical(symbol string, startDate, endDate time.Time) ([]Quote, error)
	QueryCurrent(symbol string) (float64, error)
}

// Config carries provider construction options.
type Config struct {
	APIKey string
}

// Factory produces a Client from provider configuration.
type Factory func(cfg Config) Client

var providers = map[string]Factory{}

// Register makes a provider available under the given name. Called from
// provider init functions; later registrations under the same name replace
// earlier ones.
func Register(name string, factory Factory) {
	providers[name] = factory
}

// New constructs the provider registered under name.
// Returns apperrors.ErrUnknownProvider for names never registered, so a
// mistyped provider in configuration fails at startup rather than at the
// first fetch.
func New(name string, cfg Config) (Client, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", apperrors.ErrUnknownProvider, name, Providers())
	}
	return factory(cfg), nil
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
