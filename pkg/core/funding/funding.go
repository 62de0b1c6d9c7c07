// Package funding computes the periodic funding rate from the mark/index
// price spread.
package funding

import (
	"fmt"
	"math/big"
)

// Scale is the fixed-point scale of Rate.Rate: a stored value of
// 1_000_000_000 means a rate of 1.0 per funding interval.
const Scale = 1_000_000_000

var (
	scaleBig = big.NewInt(Scale)
	three    = big.NewInt(3)
)

// Rate is one market's funding state. Overwritten in place on each
// update, never removed.
type Rate struct {
	Rate       int64 // fixed point, scaled by 1e9
	LastUpdate int64
}

// Update recomputes the rate from the mark/index spread for one 8-hour
// slice of a 24-hour funding cycle and stamps it with the caller's clock.
//
// A zero index price is a defined no-op: both Rate and LastUpdate are
// left untouched and no division is attempted. Otherwise the computation
// is, in this exact order with truncating integer division throughout:
//
//	diff   = mark − index        (wide signed intermediate)
//	scaled = diff × 1e9
//	step1  = scaled / index
//	rate   = step1 / 3
//
// The timestamp is always supplied by the caller; the engine never reads
// a clock, so replays of the same inputs produce the same state.
func (r *Rate) Update(markPrice, indexPrice uint64, now int64) {
	if indexPrice == 0 {
		return
	}

	diff := new(big.Int).Sub(
		new(big.Int).SetUint64(markPrice),
		new(big.Int).SetUint64(indexPrice),
	)
	scaled := diff.Mul(diff, scaleBig)
	step1 := scaled.Quo(scaled, new(big.Int).SetUint64(indexPrice))
	funding := step1.Quo(step1, three)

	// Unreachable for any sane tick scale; only a near-zero index price
	// against an astronomical mark can push the quotient past i64. No
	// recovery semantics exist for this integer domain, so abort.
	if !funding.IsInt64() {
		panic(fmt.Sprintf("funding: rate overflows int64 (mark=%d index=%d)", markPrice, indexPrice))
	}

	r.Rate = funding.Int64()
	r.LastUpdate = now
}
