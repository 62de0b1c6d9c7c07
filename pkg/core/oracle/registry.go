// Package oracle caches the latest observed external price per asset.
package oracle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Price is the normalized oracle price: value = Mantissa × 10^Exponent,
// with a confidence width in the same units.
type Price struct {
	Mantissa  uint64
	Conf      uint64
	Exponent  int32
	Timestamp int64
}

// Decimal materializes the price as an exact decimal value.
func (p Price) Decimal() decimal.Decimal {
	return decimal.NewFromUint64(p.Mantissa).Shift(p.Exponent)
}

// FeedPrice is the fixed shape a feed provider publishes. Field names
// follow the provider convention (Pyth-style expo/publish_time).
type FeedPrice struct {
	Price       uint64
	Conf        uint64
	Expo        int32
	PublishTime int64
}

// Normalize maps a feed update one-to-one onto the internal Price shape.
func (f FeedPrice) Normalize() Price {
	return Price{
		Mantissa:  f.Price,
		Conf:      f.Conf,
		Exponent:  f.Expo,
		Timestamp: f.PublishTime,
	}
}

// Registry holds at most one current price per asset. Updates overwrite;
// the registry is a last-write-wins cache, never a log.
type Registry struct {
	prices map[common.Address]Price
}

// NewRegistry returns an empty price registry.
func NewRegistry() *Registry {
	return &Registry{prices: make(map[common.Address]Price)}
}

// Update normalizes the feed update and upserts it as the asset's
// current price, replacing any prior entry.
func (r *Registry) Update(asset common.Address, feed FeedPrice) {
	r.prices[asset] = feed.Normalize()
}

// Get returns the asset's current price, or false if the asset has never
// been updated.
func (r *Registry) Get(asset common.Address) (Price, bool) {
	p, ok := r.prices[asset]
	return p, ok
}

// Len returns the number of assets with a cached price.
func (r *Registry) Len() int {
	return len(r.prices)
}
