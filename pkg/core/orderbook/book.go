package orderbook

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidOrder rejects orders that cannot rest on the book.
// Zero size is the only structural defect the book validates; everything
// else (tick/lot/notional rules) belongs to the host's market config.
var ErrInvalidOrder = errors.New("orderbook: invalid order")

// Book holds one market's resting orders, split into bid and ask sides.
//
// Both sides are kept sorted by price priority after every mutation:
// bids descending (best bid first), asks ascending (best ask first).
// Insertion is stable, so equal-price orders keep arrival order.
//
// The book performs no locking. One market's state is touched by one
// caller at a time; markets are fully independent of each other and the
// host shards or serializes access as it sees fit.
type Book struct {
	bids []Order // price descending, best bid at index 0
	asks []Order // price ascending, best ask at index 0

	lastPrice uint64 // most recent fill price, 0 until the first trade
}

// NewBook returns an empty order book.
func NewBook() *Book {
	return &Book{}
}

// Add inserts an order into the side matching its Side tag, preserving
// that side's sort order. Orders with zero size are rejected with
// ErrInvalidOrder; a zero-size entry must never rest on the book.
func (b *Book) Add(o Order) error {
	if o.Size == 0 {
		return fmt.Errorf("%w: zero size (id=%s)", ErrInvalidOrder, o.ID)
	}
	switch o.Side {
	case Bid:
		// First index with a strictly lower price: new order lands after
		// any existing orders at the same price.
		i := sort.Search(len(b.bids), func(i int) bool { return b.bids[i].Price < o.Price })
		b.bids = insertAt(b.bids, i, o)
	case Ask:
		i := sort.Search(len(b.asks), func(i int) bool { return b.asks[i].Price > o.Price })
		b.asks = insertAt(b.asks, i, o)
	default:
		return fmt.Errorf("%w: unknown side %d (id=%s)", ErrInvalidOrder, o.Side, o.ID)
	}
	return nil
}

// Remove deletes the order with the given id from the named side.
// A miss is a silent no-op: a cancel racing a fill must not error.
func (b *Book) Remove(id OrderID, side Side) {
	if side == Bid {
		b.bids = removeID(b.bids, id)
	} else {
		b.asks = removeID(b.asks, id)
	}
}

// BestBid returns the highest-priced resting bid, if any.
func (b *Book) BestBid() (Order, bool) {
	if len(b.bids) == 0 {
		return Order{}, false
	}
	return b.bids[0], true
}

// BestAsk returns the lowest-priced resting ask, if any.
func (b *Book) BestAsk() (Order, bool) {
	if len(b.asks) == 0 {
		return Order{}, false
	}
	return b.asks[0], true
}

// FillBest subtracts size from the best order on the given side, removing
// the order when its remaining size reaches zero. A partially filled order
// stays at the front of its side; it is still the best price.
//
// Callers (the matching engine) never fill more than the best order's
// remaining size; doing so is a programming error and panics.
func (b *Book) FillBest(side Side, size uint64) {
	var s *[]Order
	if side == Bid {
		s = &b.bids
	} else {
		s = &b.asks
	}
	if len(*s) == 0 || (*s)[0].Size < size {
		panic(fmt.Sprintf("orderbook: fill %d exceeds best %s size", size, side))
	}
	if (*s)[0].Size == size {
		*s = (*s)[1:]
		return
	}
	(*s)[0].Size -= size
}

// SetLastPrice records the most recent fill price. Owned by the matching
// engine; read back as the venue's mark-price fallback.
func (b *Book) SetLastPrice(p uint64) { b.lastPrice = p }

// LastPrice returns the price of the most recent fill, or 0 if no trade
// has occurred yet.
func (b *Book) LastPrice() uint64 { return b.lastPrice }

// MidPrice returns the average of best bid and best ask, or 0 when the
// book is empty or one-sided. Used as a mark-price fallback when no
// oracle mark is available.
func (b *Book) MidPrice() uint64 {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return 0
	}
	return (b.bids[0].Price + b.asks[0].Price) / 2
}

// Bids returns a copy of the bid side, best first.
func (b *Book) Bids() []Order {
	out := make([]Order, len(b.bids))
	copy(out, b.bids)
	return out
}

// Asks returns a copy of the ask side, best first.
func (b *Book) Asks() []Order {
	out := make([]Order, len(b.asks))
	copy(out, b.asks)
	return out
}

// Len returns the total number of resting orders across both sides.
func (b *Book) Len() int {
	return len(b.bids) + len(b.asks)
}

// PriceLevel aggregates resting size at one price.
type PriceLevel struct {
	Price uint64
	Size  uint64
}

// BidLevels returns bid depth aggregated per price, best bid first.
func (b *Book) BidLevels() []PriceLevel {
	return aggregate(b.bids)
}

// AskLevels returns ask depth aggregated per price, best ask first.
func (b *Book) AskLevels() []PriceLevel {
	return aggregate(b.asks)
}

// aggregate folds a sorted side into per-price levels. The side is
// already in priority order, so equal prices are adjacent and the result
// needs no re-sort.
func aggregate(side []Order) []PriceLevel {
	var levels []PriceLevel
	for _, o := range side {
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Size += o.Size
			continue
		}
		levels = append(levels, PriceLevel{Price: o.Price, Size: o.Size})
	}
	return levels
}

func insertAt(s []Order, i int, o Order) []Order {
	s = append(s, Order{})
	copy(s[i+1:], s[i:])
	s[i] = o
	return s
}

func removeID(s []Order, id OrderID) []Order {
	for i, o := range s {
		if o.ID == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
