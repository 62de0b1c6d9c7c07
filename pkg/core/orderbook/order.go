package orderbook

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// Side tags an order as resting on the bid or the ask side.
type Side int8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "Bid"
	case Ask:
		return "Ask"
	default:
		return "Unknown"
	}
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// OrderID is a 128-bit order identifier, unique within a market for the
// order's lifetime. The host assigns IDs; the book only compares them.
type OrderID [16]byte

// OrderIDFromUint64 packs a small counter-style identifier into an OrderID.
// Convenient for hosts that sequence orders with a uint64.
func OrderIDFromUint64(v uint64) OrderID {
	var id OrderID
	binary.BigEndian.PutUint64(id[8:], v)
	return id
}

func (id OrderID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether the ID is the all-zero value.
func (id OrderID) IsZero() bool {
	return id == OrderID{}
}

// Order is one resting or incoming instruction to trade.
//
// Price and Size are unsigned integer ticks/lots, same convention as the
// rest of the venue. Timestamp is the host-assigned arrival time and is
// monotonically non-decreasing across submissions to the same book.
type Order struct {
	ID        OrderID
	Trader    common.Address // owning account; the book never touches trader state
	Side      Side
	Price     uint64 // integer ticks
	Size      uint64 // remaining quantity in lots, > 0 while resting
	Timestamp int64
}
