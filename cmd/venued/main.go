// venued runs a scripted demo session against the venue core: register
// markets from config, rest and cross a few orders, push oracle prices,
// and run one funding tick. It stands in for the confidential host that
// would normally drive these calls.
package main

import (
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/perpl-labs/perpcore/params"
	"github.com/perpl-labs/perpcore/pkg/core/market"
	"github.com/perpl-labs/perpcore/pkg/core/oracle"
	"github.com/perpl-labs/perpcore/pkg/core/orderbook"
	"github.com/perpl-labs/perpcore/pkg/settlement"
	"github.com/perpl-labs/perpcore/pkg/util"
	"github.com/perpl-labs/perpcore/pkg/venue"
)

func main() {
	cfg := params.LoadFromEnv("")

	var logger *zap.Logger
	var err error
	if cfg.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.LogFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ledger := settlement.NewLedger()
	v := venue.New(logger, ledger)

	for _, spec := range cfg.Markets {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			log.Fatalf("bad market spec %q (want SYMBOL:BASE:QUOTE)", spec)
		}
		p := market.DefaultParams(parts[0], parts[1], parts[2])
		p.IndexAsset = assetKey(parts[1])
		p.FundingInterval = cfg.FundingInterval
		if _, err := v.AddMarket(p); err != nil {
			log.Fatalf("market %s: %v", parts[0], err)
		}
	}

	symbol := v.Symbols()[0]
	mkt, _ := v.Market(symbol)

	alice := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	ledger.Fund(alice, 1_000_000)
	ledger.Fund(bob, 1_000_000)

	clock := util.RealClock{}
	now := clock.Now().Unix()

	// Scripted session: one resting ask, one crossing bid, one far bid
	// left on the book, then an oracle index and a funding tick.
	orders := []orderbook.Order{
		{ID: orderbook.OrderIDFromUint64(1), Trader: alice, Side: orderbook.Ask, Price: 50_000, Size: 10, Timestamp: now},
		{ID: orderbook.OrderIDFromUint64(2), Trader: bob, Side: orderbook.Bid, Price: 50_100, Size: 4, Timestamp: now + 1},
		{ID: orderbook.OrderIDFromUint64(3), Trader: bob, Side: orderbook.Bid, Price: 49_500, Size: 8, Timestamp: now + 2},
	}
	for _, o := range orders {
		trades, err := v.Submit(symbol, o)
		if err != nil {
			log.Fatalf("submit %s: %v", o.ID, err)
		}
		logger.Info("submitted",
			zap.Stringer("id", o.ID),
			zap.Stringer("side", o.Side),
			zap.Int("trades", len(trades)),
		)
	}

	v.PushPrice(mkt.Params.IndexAsset, oracle.FeedPrice{
		Price:       49_800,
		Conf:        25,
		Expo:        0,
		PublishTime: now + 3,
	})

	rate, err := v.FundingTick(symbol, clock.Now().Unix())
	if err != nil {
		log.Fatalf("funding tick: %v", err)
	}

	logger.Info("session_done",
		zap.String("symbol", symbol),
		zap.Int64("funding_rate", rate.Rate),
		zap.Int64("alice_pnl", ledger.Account(alice).RealizedPnL),
		zap.Int64("bob_pnl", ledger.Account(bob).RealizedPnL),
	)
}

// assetKey derives a stable oracle key from an asset symbol. Real
// deployments key the oracle by the feed's account address; the demo
// only needs determinism.
func assetKey(symbol string) common.Address {
	var a common.Address
	copy(a[:], symbol)
	return a
}
