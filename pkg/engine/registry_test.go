package engine

import (
	"errors"
	"testing"

	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

func TestCreateMarketValidation(t *testing.T) {
	reg := NewRegistry(ledger.NewMemLedger(), events.NopSink{})

	tests := []struct {
		name   string
		base   string
		quote  string
		params MarketParams
		ok     bool
	}{
		{"valid", "WETH", "USDC", MarketParams{LotSize: 10, TickSize: 1, MinSize: 10, FeeRateBps: 25}, true},
		{"zero lot", "WETH", "USDC", MarketParams{LotSize: 0, TickSize: 1, MinSize: 1}, false},
		{"zero tick", "WETH", "USDC", MarketParams{LotSize: 1, TickSize: 0, MinSize: 1}, false},
		{"zero min", "WETH", "USDC", MarketParams{LotSize: 1, TickSize: 1, MinSize: 0}, false},
		{"fee above cap", "WETH", "USDC", MarketParams{LotSize: 1, TickSize: 1, MinSize: 1, FeeRateBps: 1001}, false},
		{"fee at cap", "WETH", "USDC", MarketParams{LotSize: 1, TickSize: 1, MinSize: 1, FeeRateBps: 1000}, true},
		{"same asset", "USDC", "USDC", MarketParams{LotSize: 1, TickSize: 1, MinSize: 1}, false},
		{"empty base", "", "USDC", MarketParams{LotSize: 1, TickSize: 1, MinSize: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CreateMarket(tt.base, tt.quote, tt.params)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("got %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestRegistrySequentialIDs(t *testing.T) {
	sink := events.NewMemorySink()
	reg := NewRegistry(ledger.NewMemLedger(), sink)
	p := MarketParams{LotSize: 1, TickSize: 1, MinSize: 1}

	m1, err := reg.CreateMarket("WETH", "USDC", p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m2, err := reg.CreateMarket("WBTC", "USDC", p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m1.ID != 1 || m2.ID != 2 {
		t.Fatalf("ids %d, %d; want 1, 2", m1.ID, m2.ID)
	}

	got, err := reg.Market(2)
	if err != nil || got.Base != "WBTC" {
		t.Fatalf("lookup: %v %+v", err, got)
	}
	if _, err := reg.Market(99); !errors.Is(err, ErrMarketNotFound) {
		t.Fatalf("missing market: got %v", err)
	}

	all := reg.Markets()
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("listing out of order: %+v", all)
	}

	created := sink.OfType(events.TypeMarketCreated)
	if len(created) != 2 {
		t.Fatalf("expected 2 MarketCreated events, got %d", len(created))
	}
	ev := created[0].(events.MarketCreated)
	if ev.MarketID != 1 || ev.Base != "WETH" {
		t.Fatalf("event %+v", ev)
	}
}
