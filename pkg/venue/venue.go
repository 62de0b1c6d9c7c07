// Package venue composes the core engines into the host-facing surface:
// order submission, cancellation, oracle pushes, and funding ticks. The
// host environment hands it already-decrypted typed inputs; sealing,
// authorization, and transport are entirely the host's concern.
package venue

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/perpl-labs/perpcore/pkg/core/funding"
	"github.com/perpl-labs/perpcore/pkg/core/market"
	"github.com/perpl-labs/perpcore/pkg/core/matching"
	"github.com/perpl-labs/perpcore/pkg/core/orderbook"
	"github.com/perpl-labs/perpcore/pkg/core/oracle"
	"github.com/perpl-labs/perpcore/pkg/settlement"
)

// ErrNoIndexPrice means a funding tick was requested before the market's
// index asset ever received an oracle update.
var ErrNoIndexPrice = errors.New("venue: no index price")

// ErrNoMarkPrice means no mark source is available: no oracle mark, an
// empty or one-sided book, and no trade yet.
var ErrNoMarkPrice = errors.New("venue: no mark price")

// Venue owns one registry of independent markets, the shared oracle
// cache, and the settler that absorbs trades and funding.
type Venue struct {
	log     *zap.Logger
	markets *market.Registry
	oracle  *oracle.Registry
	settler settlement.Settler
}

// New builds a venue around the given settler.
func New(log *zap.Logger, settler settlement.Settler) *Venue {
	return &Venue{
		log:     log,
		markets: market.NewRegistry(),
		oracle:  oracle.NewRegistry(),
		settler: settler,
	}
}

// AddMarket registers a new market for the given params.
func (v *Venue) AddMarket(p market.Params) (*market.Market, error) {
	m, err := market.New(p)
	if err != nil {
		return nil, err
	}
	if err := v.markets.Register(m); err != nil {
		return nil, err
	}
	v.log.Info("market_registered", zap.String("symbol", p.Symbol))
	return m, nil
}

// Market exposes a registered market for inspection.
func (v *Venue) Market(symbol string) (*market.Market, error) {
	return v.markets.Get(symbol)
}

// Symbols returns the registered markets in sorted order.
func (v *Venue) Symbols() []string {
	return v.markets.Symbols()
}

// Submit adds an order to its market's book and settles any crossable
// volume, handing every trade to the settler exactly once. The returned
// slice is the invocation's trades in resolution order, empty when
// nothing crossed.
func (v *Venue) Submit(symbol string, o orderbook.Order) ([]matching.TradeMatch, error) {
	m, err := v.markets.Get(symbol)
	if err != nil {
		return nil, err
	}

	// Snapshot order ownership before matching mutates the book; fully
	// filled orders are gone from it afterwards.
	owners := ownerIndex(m.Book)

	if err := m.Book.Add(o); err != nil {
		return nil, err
	}
	owners[o.ID] = o.Trader

	trades := matching.MatchOrders(m.Book)
	for _, t := range trades {
		maker, taker := owners[t.MakerOrderID], owners[t.TakerOrderID]
		if err := v.settler.ApplyTrade(symbol, t, maker, taker); err != nil {
			return trades, fmt.Errorf("venue: settle trade %s/%s: %w", symbol, t.MakerOrderID, err)
		}
		v.log.Info("fill",
			zap.String("symbol", symbol),
			zap.Stringer("maker", t.MakerOrderID),
			zap.Stringer("taker", t.TakerOrderID),
			zap.Uint64("price", t.Price),
			zap.Uint64("size", t.Size),
		)
	}
	return trades, nil
}

// Cancel removes an order from its market's book. A miss is silent; a
// cancel racing a fill is not an error.
func (v *Venue) Cancel(symbol string, id orderbook.OrderID, side orderbook.Side) error {
	m, err := v.markets.Get(symbol)
	if err != nil {
		return err
	}
	m.Book.Remove(id, side)
	return nil
}

// PushPrice normalizes a feed update into the oracle cache, replacing
// the asset's prior price.
func (v *Venue) PushPrice(asset common.Address, feed oracle.FeedPrice) {
	v.oracle.Update(asset, feed)
}

// OraclePrice reads an asset's current cached price.
func (v *Venue) OraclePrice(asset common.Address) (oracle.Price, bool) {
	return v.oracle.Get(asset)
}

// FundingTick recomputes a market's funding rate at the caller-supplied
// timestamp and notifies the settler. Mark price prefers the oracle's
// mark asset, then the book mid, then the last trade; the index price
// must come from the oracle. Mark and index are expected at the market's
// common tick scale.
func (v *Venue) FundingTick(symbol string, now int64) (funding.Rate, error) {
	m, err := v.markets.Get(symbol)
	if err != nil {
		return funding.Rate{}, err
	}

	index, ok := v.oracle.Get(m.Params.IndexAsset)
	if !ok {
		return m.Funding, fmt.Errorf("%w: %s", ErrNoIndexPrice, symbol)
	}

	mark, err := v.markPrice(m)
	if err != nil {
		return m.Funding, err
	}

	if index.Mantissa == 0 {
		// Defined no-op in the engine; skip settlement too so a degraded
		// feed cannot re-charge the prior rate.
		v.log.Warn("funding_skipped_zero_index", zap.String("symbol", symbol))
		return m.Funding, nil
	}

	m.Funding.Update(mark, index.Mantissa, now)
	if err := v.settler.ApplyFunding(symbol, m.Funding); err != nil {
		return m.Funding, fmt.Errorf("venue: settle funding %s: %w", symbol, err)
	}
	v.log.Info("funding_tick",
		zap.String("symbol", symbol),
		zap.Uint64("mark", mark),
		zap.Uint64("index", index.Mantissa),
		zap.Int64("rate", m.Funding.Rate),
		zap.Int64("ts", m.Funding.LastUpdate),
	)
	return m.Funding, nil
}

// markPrice resolves the mark input: oracle mark asset, book mid, last
// traded price, in that order.
func (v *Venue) markPrice(m *market.Market) (uint64, error) {
	if p, ok := v.oracle.Get(m.Params.MarkAsset); ok && p.Mantissa > 0 {
		return p.Mantissa, nil
	}
	if mid := m.Book.MidPrice(); mid > 0 {
		return mid, nil
	}
	if last := m.Book.LastPrice(); last > 0 {
		return last, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNoMarkPrice, m.Params.Symbol)
}

// ownerIndex maps every resting order to its trader.
func ownerIndex(b *orderbook.Book) map[orderbook.OrderID]common.Address {
	owners := make(map[orderbook.OrderID]common.Address, b.Len())
	for _, o := range b.Bids() {
		owners[o.ID] = o.Trader
	}
	for _, o := range b.Asks() {
		owners[o.ID] = o.Trader
	}
	return owners
}
