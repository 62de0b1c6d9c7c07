package settlement

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/perpl-labs/perpcore/pkg/core/funding"
	"github.com/perpl-labs/perpcore/pkg/core/matching"
)

// Position is an open perpetual position.
// Size is signed: positive = long, negative = short, in lots.
type Position struct {
	Symbol     string
	Size       int64
	EntryPrice int64 // VWAP entry, integer ticks
}

// Account tracks one trader's collateral and open positions.
// All values are integer quote-asset units.
type Account struct {
	Address     common.Address
	Collateral  int64
	RealizedPnL int64
	Positions   map[string]*Position
}

// NewAccount creates an account with the given starting collateral.
func NewAccount(addr common.Address, collateral int64) *Account {
	return &Account{
		Address:    addr,
		Collateral: collateral,
		Positions:  make(map[string]*Position),
	}
}

// Position returns the account's position for a symbol, or nil.
func (a *Account) Position(symbol string) *Position {
	return a.Positions[symbol]
}

// Ledger is an in-memory reference Settler. Production deployments put a
// real collateral/custody system behind the Settler interface; this one
// exists so the venue is runnable and testable end to end.
type Ledger struct {
	accounts map[common.Address]*Account
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[common.Address]*Account)}
}

// Fund credits collateral to an account, creating it if needed.
func (l *Ledger) Fund(addr common.Address, amount int64) *Account {
	acc, ok := l.accounts[addr]
	if !ok {
		acc = NewAccount(addr, 0)
		l.accounts[addr] = acc
	}
	acc.Collateral += amount
	return acc
}

// Account returns the account for an address, or nil if never funded.
func (l *Ledger) Account(addr common.Address) *Account {
	return l.accounts[addr]
}

// ApplyTrade books one trade: the taker bought size lots from the maker
// at the trade price. Long exposure moves from maker to taker.
func (l *Ledger) ApplyTrade(symbol string, m matching.TradeMatch, maker, taker common.Address) error {
	if m.Size == 0 {
		return fmt.Errorf("settlement: zero-size trade %s/%s", m.MakerOrderID, m.TakerOrderID)
	}
	price := int64(m.Price)
	size := int64(m.Size)

	l.updatePosition(taker, symbol, size, price)
	l.updatePosition(maker, symbol, -size, price)
	return nil
}

// ApplyFunding settles one funding interval against every open position
// in the symbol. A positive rate means longs pay shorts; the payment is
// rate × entry notional at the fixed-point scale.
func (l *Ledger) ApplyFunding(symbol string, r funding.Rate) error {
	for _, addr := range l.addresses() {
		acc := l.accounts[addr]
		pos := acc.Positions[symbol]
		if pos == nil || pos.Size == 0 {
			continue
		}
		notional := pos.Size * pos.EntryPrice
		acc.Collateral -= notional * r.Rate / funding.Scale
	}
	return nil
}

// addresses returns account keys in sorted order so funding application
// is deterministic regardless of map layout.
func (l *Ledger) addresses() []common.Address {
	addrs := make([]common.Address, 0, len(l.accounts))
	for a := range l.accounts {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Cmp(addrs[j]) < 0
	})
	return addrs
}

// updatePosition applies a signed size delta at a fill price: VWAP entry
// on same-direction increase, realized PnL on reduce, close, or flip.
func (l *Ledger) updatePosition(addr common.Address, symbol string, sizeDelta, price int64) {
	acc, ok := l.accounts[addr]
	if !ok {
		acc = NewAccount(addr, 0)
		l.accounts[addr] = acc
	}
	pos := acc.Positions[symbol]
	if pos == nil {
		pos = &Position{Symbol: symbol}
		acc.Positions[symbol] = pos
	}

	oldSize := pos.Size
	newSize := oldSize + sizeDelta

	switch {
	case oldSize == 0:
		pos.Size = newSize
		pos.EntryPrice = price

	case (sizeDelta > 0) == (oldSize > 0):
		// Same direction: grow the position at a VWAP entry.
		pos.EntryPrice = (pos.EntryPrice*abs(oldSize) + price*abs(sizeDelta)) / abs(newSize)
		pos.Size = newSize

	case abs(sizeDelta) <= abs(oldSize):
		// Reduce or full close: realize PnL on the closed lots.
		// (price − entry) × −delta has the right sign for both longs
		// and shorts.
		acc.RealizedPnL += (price - pos.EntryPrice) * (-sizeDelta)
		pos.Size = newSize
		if newSize == 0 {
			pos.EntryPrice = 0
		}

	default:
		// Flip: realize the whole old position, re-open the remainder
		// at the fill price.
		acc.RealizedPnL += (price - pos.EntryPrice) * oldSize
		pos.Size = newSize
		pos.EntryPrice = price
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
