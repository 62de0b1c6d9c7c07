package market

import (
	"fmt"
	"sort"
)

// Registry manages all markets by symbol.
// Lookup order is deterministic: Symbols() is sorted, and no other
// accessor exposes map iteration order.
type Registry struct {
	markets map[string]*Market
}

// NewRegistry creates an empty market registry.
func NewRegistry() *Registry {
	return &Registry{markets: make(map[string]*Market)}
}

// Register adds a new market to the registry.
// Returns an error if a market with the same symbol already exists.
func (r *Registry) Register(m *Market) error {
	if m == nil {
		return fmt.Errorf("market: cannot register nil market")
	}
	if _, exists := r.markets[m.Params.Symbol]; exists {
		return fmt.Errorf("market: %s already registered", m.Params.Symbol)
	}
	r.markets[m.Params.Symbol] = m
	return nil
}

// Get retrieves a market by symbol.
func (r *Registry) Get(symbol string) (*Market, error) {
	m, exists := r.markets[symbol]
	if !exists {
		return nil, fmt.Errorf("market: %s not found", symbol)
	}
	return m, nil
}

// Exists reports whether a market is registered.
func (r *Registry) Exists(symbol string) bool {
	_, exists := r.markets[symbol]
	return exists
}

// Count returns the number of registered markets.
func (r *Registry) Count() int {
	return len(r.markets)
}

// Symbols returns all registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	syms := make([]string, 0, len(r.markets))
	for s := range r.markets {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}
