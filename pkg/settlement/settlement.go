// Package settlement is the consumer boundary of the matching core: trade
// records and funding rates flow in, collateral adjustments happen here.
// The core makes no assumption about how a Settler is implemented beyond
// each trade being applied exactly once.
package settlement

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/perpl-labs/perpcore/pkg/core/funding"
	"github.com/perpl-labs/perpcore/pkg/core/matching"
)

// Settler consumes the matching engine's trades and the funding engine's
// rate updates. Maker is the account behind the resting (ask) order,
// taker the account behind the crossing bid.
type Settler interface {
	ApplyTrade(symbol string, m matching.TradeMatch, maker, taker common.Address) error
	ApplyFunding(symbol string, r funding.Rate) error
}
