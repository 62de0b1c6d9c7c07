// Package matching crosses an order book's best bid against its best ask
// until no crossable pair remains, emitting one trade record per cross.
package matching

import (
	"github.com/perpl-labs/perpcore/pkg/core/orderbook"
)

// TradeMatch records one executed cross. Immutable once emitted; the
// settlement layer applies each record's price and size exactly once.
type TradeMatch struct {
	MakerOrderID orderbook.OrderID
	TakerOrderID orderbook.OrderID
	Price        uint64
	Size         uint64
}

// MatchOrders settles all crossable volume on the book and returns the
// trades in the order they were resolved, or an empty slice if nothing
// crossed.
//
// While both sides are non-empty and best bid >= best ask, one cross is
// resolved per iteration: the resting ask is treated as maker, the trade
// executes at the ask (maker) price, and the traded size is the smaller
// of the two remaining sizes. Both top orders are decremented; an order
// reaching zero size is removed. The loop stops the first time the tops
// no longer cross, so on return either one side is empty or
// best bid < best ask.
//
// The only side effects are book mutation and the returned slice; the
// engine does no I/O and cannot fail.
func MatchOrders(book *orderbook.Book) []TradeMatch {
	var matches []TradeMatch

	for {
		bid, ok := book.BestBid()
		if !ok {
			break
		}
		ask, ok := book.BestAsk()
		if !ok {
			break
		}
		if bid.Price < ask.Price {
			break
		}

		size := min(bid.Size, ask.Size)
		matches = append(matches, TradeMatch{
			MakerOrderID: ask.ID,
			TakerOrderID: bid.ID,
			Price:        ask.Price,
			Size:         size,
		})

		book.FillBest(orderbook.Bid, size)
		book.FillBest(orderbook.Ask, size)
		book.SetLastPrice(ask.Price)
	}

	return matches
}
