package oracle

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var btc = common.HexToAddress("0x0000000000000000000000000000000000000b7c")

func TestNormalize(t *testing.T) {
	feed := FeedPrice{Price: 6_500_000, Conf: 1200, Expo: -2, PublishTime: 1700000000}
	got := feed.Normalize()
	want := Price{Mantissa: 6_500_000, Conf: 1200, Exponent: -2, Timestamp: 1700000000}
	if got != want {
		t.Fatalf("normalize = %+v, want %+v", got, want)
	}
}

func TestUpdateOverwrites(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get(btc); ok {
		t.Fatal("empty registry returned a price")
	}

	r.Update(btc, FeedPrice{Price: 100, Conf: 1, Expo: 0, PublishTime: 10})
	r.Update(btc, FeedPrice{Price: 200, Conf: 2, Expo: 0, PublishTime: 20})

	p, ok := r.Get(btc)
	if !ok {
		t.Fatal("price missing after update")
	}
	if p.Mantissa != 200 || p.Timestamp != 20 {
		t.Errorf("got %+v, want the second update only", p)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1 entry per asset", r.Len())
	}
}

func TestRegistryIsKeyedPerAsset(t *testing.T) {
	r := NewRegistry()
	eth := common.HexToAddress("0x0000000000000000000000000000000000000e74")

	r.Update(btc, FeedPrice{Price: 65_000})
	r.Update(eth, FeedPrice{Price: 3_000})

	if p, _ := r.Get(btc); p.Mantissa != 65_000 {
		t.Errorf("btc = %d", p.Mantissa)
	}
	if p, _ := r.Get(eth); p.Mantissa != 3_000 {
		t.Errorf("eth = %d", p.Mantissa)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
}

func TestDecimal(t *testing.T) {
	p := Price{Mantissa: 6_500_000, Exponent: -2}
	if got := p.Decimal().String(); got != "65000" {
		t.Errorf("decimal = %s, want 65000", got)
	}
	p = Price{Mantissa: 123, Exponent: 3}
	if got := p.Decimal().String(); got != "123000" {
		t.Errorf("decimal = %s, want 123000", got)
	}
}
