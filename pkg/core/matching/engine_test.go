package matching

import (
	"testing"

	"github.com/perpl-labs/perpcore/pkg/core/orderbook"
)

func order(id uint64, side orderbook.Side, price, size uint64) orderbook.Order {
	return orderbook.Order{
		ID:    orderbook.OrderIDFromUint64(id),
		Side:  side,
		Price: price,
		Size:  size,
	}
}

func mustAdd(t *testing.T, b *orderbook.Book, orders ...orderbook.Order) {
	t.Helper()
	for _, o := range orders {
		if err := b.Add(o); err != nil {
			t.Fatalf("add %s: %v", o.ID, err)
		}
	}
}

// checkUncrossed verifies the match post-condition: one side empty, or
// best bid strictly below best ask.
func checkUncrossed(t *testing.T, b *orderbook.Book) {
	t.Helper()
	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if okB && okA && bid.Price >= ask.Price {
		t.Fatalf("book still crossed: bid %d >= ask %d", bid.Price, ask.Price)
	}
}

func TestPartialFillAtMakerPrice(t *testing.T) {
	b := orderbook.NewBook()
	mustAdd(t, b,
		order(1, orderbook.Ask, 100, 10),
		order(2, orderbook.Bid, 110, 5),
	)

	matches := MatchOrders(b)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	m := matches[0]
	if m.Price != 100 || m.Size != 5 {
		t.Errorf("trade = px %d sz %d, want px 100 sz 5 (maker price)", m.Price, m.Size)
	}
	if m.MakerOrderID != orderbook.OrderIDFromUint64(1) || m.TakerOrderID != orderbook.OrderIDFromUint64(2) {
		t.Errorf("attribution = maker %s taker %s", m.MakerOrderID, m.TakerOrderID)
	}

	if len(b.Bids()) != 0 {
		t.Errorf("bid should be fully filled, got %v", b.Bids())
	}
	asks := b.Asks()
	if len(asks) != 1 || asks[0].Size != 5 {
		t.Errorf("ask should remain with size 5, got %v", asks)
	}
	if b.LastPrice() != 100 {
		t.Errorf("last price = %d, want 100", b.LastPrice())
	}
	checkUncrossed(t, b)
}

func TestExactFillEmptiesBothSides(t *testing.T) {
	b := orderbook.NewBook()
	mustAdd(t, b,
		order(1, orderbook.Ask, 100, 10),
		order(2, orderbook.Bid, 100, 10),
	)

	matches := MatchOrders(b)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if m := matches[0]; m.Price != 100 || m.Size != 10 {
		t.Errorf("trade = px %d sz %d, want px 100 sz 10", m.Price, m.Size)
	}
	if b.Len() != 0 {
		t.Errorf("book not empty: %d orders left", b.Len())
	}
}

func TestNoCrossNoTrade(t *testing.T) {
	b := orderbook.NewBook()
	mustAdd(t, b,
		order(1, orderbook.Ask, 100, 5),
		order(2, orderbook.Bid, 90, 5),
	)

	if matches := MatchOrders(b); len(matches) != 0 {
		t.Fatalf("matches = %v, want none (90 < 100)", matches)
	}
	if len(b.Bids()) != 1 || len(b.Asks()) != 1 {
		t.Errorf("both orders should rest: bids=%d asks=%d", len(b.Bids()), len(b.Asks()))
	}
	if b.LastPrice() != 0 {
		t.Errorf("last price = %d, want 0", b.LastPrice())
	}
}

func TestSweepConservesVolume(t *testing.T) {
	b := orderbook.NewBook()
	mustAdd(t, b,
		order(1, orderbook.Ask, 100, 3),
		order(2, orderbook.Ask, 101, 4),
		order(3, orderbook.Ask, 102, 5),
		order(4, orderbook.Ask, 200, 9),
		order(5, orderbook.Bid, 102, 10),
	)

	bidBefore, askBefore := totalSize(b.Bids()), totalSize(b.Asks())
	matches := MatchOrders(b)

	var traded uint64
	for _, m := range matches {
		if m.Size == 0 {
			t.Fatal("zero-size trade emitted")
		}
		traded += m.Size
	}

	bidRemoved := bidBefore - totalSize(b.Bids())
	askRemoved := askBefore - totalSize(b.Asks())
	if bidRemoved != askRemoved || bidRemoved != traded {
		t.Fatalf("volume mismatch: bids -%d, asks -%d, trades %d", bidRemoved, askRemoved, traded)
	}
	if traded != 10 {
		t.Errorf("traded = %d, want 10 (bid fully swept)", traded)
	}

	// Each level fills at its own (maker) price, in book order.
	wantPrices := []uint64{100, 101, 102}
	wantSizes := []uint64{3, 4, 3}
	if len(matches) != len(wantPrices) {
		t.Fatalf("matches = %d, want %d", len(matches), len(wantPrices))
	}
	for i, m := range matches {
		if m.Price != wantPrices[i] || m.Size != wantSizes[i] {
			t.Errorf("match %d = px %d sz %d, want px %d sz %d",
				i, m.Price, m.Size, wantPrices[i], wantSizes[i])
		}
	}
	checkUncrossed(t, b)
}

func TestRepeatedInvocationIsIdempotent(t *testing.T) {
	b := orderbook.NewBook()
	mustAdd(t, b,
		order(1, orderbook.Ask, 100, 5),
		order(2, orderbook.Bid, 105, 5),
	)

	if n := len(MatchOrders(b)); n != 1 {
		t.Fatalf("first invocation matches = %d, want 1", n)
	}
	// Post-condition of the first run means the second has nothing to do.
	if n := len(MatchOrders(b)); n != 0 {
		t.Fatalf("second invocation matches = %d, want 0", n)
	}
}

func totalSize(orders []orderbook.Order) uint64 {
	var sum uint64
	for _, o := range orders {
		sum += o.Size
	}
	return sum
}
