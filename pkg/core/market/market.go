// Package market shards venue state per trading pair: each market owns an
// independent book and funding state with zero cross-market interaction.
package market

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/perpl-labs/perpcore/pkg/core/funding"
	"github.com/perpl-labs/perpcore/pkg/core/orderbook"
)

// Params identifies a market and names the oracle assets its funding
// inputs are read under.
type Params struct {
	Symbol     string // "BTC-USDC"
	BaseAsset  string // "BTC"
	QuoteAsset string // "USDC"

	// MarkAsset keys the oracle price used as the mark input when
	// present; the book's mid/last price is the fallback. IndexAsset
	// keys the external reference price and has no fallback.
	MarkAsset  common.Address
	IndexAsset common.Address

	// FundingInterval is how often the host is expected to tick the
	// funding engine. Informational to this core; the host owns cadence.
	FundingInterval time.Duration
}

// DefaultParams fills the conventional 8-hour funding interval.
func DefaultParams(symbol, base, quote string) Params {
	return Params{
		Symbol:          symbol,
		BaseAsset:       base,
		QuoteAsset:      quote,
		FundingInterval: 8 * time.Hour,
	}
}

// Market is one symbol's state triple: resting orders plus funding
// state. Markets never reference each other, so the host may process
// distinct markets concurrently without any locking in this core.
type Market struct {
	Params  Params
	Book    *orderbook.Book
	Funding funding.Rate
}

// New creates a market with an empty book and zero funding state.
func New(p Params) (*Market, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("market: empty symbol")
	}
	return &Market{
		Params: p,
		Book:   orderbook.NewBook(),
	}, nil
}
