package spot

import (
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/helixdex/helix/pkg/engine"
	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

var (
	trader1 = common.HexToAddress("0x0000000000000000000000000000000000000101")
	trader2 = common.HexToAddress("0x0000000000000000000000000000000000000202")
)

func newTestApp(t *testing.T) (*App, *events.MemorySink) {
	t.Helper()
	sink := events.NewMemorySink()
	a := New(ledger.NewMemLedger(), sink, zap.NewNop())
	if _, err := a.CreateMarket("WETH", "USDC", engine.MarketParams{LotSize: 1, TickSize: 1, MinSize: 1}); err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}
	for _, owner := range []common.Address{trader1, trader2} {
		if err := a.Fund(owner, "WETH", 1_000_000); err != nil {
			t.Fatalf("fund: %v", err)
		}
		if err := a.Fund(owner, "USDC", 1_000_000); err != nil {
			t.Fatalf("fund: %v", err)
		}
	}
	return a, sink
}

func TestAppPlaceAndCancel(t *testing.T) {
	a, sink := newTestApp(t)

	id, err := a.PlaceOrder(1, trader1, engine.Bid, 100, 10, engine.None)
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	bids, _, err := a.Orderbook(1, 0)
	if err != nil || len(bids) != 1 || bids[0].Open != 10 {
		t.Fatalf("orderbook: %v %v", bids, err)
	}

	open, err := a.OpenOrders(1, trader1)
	if err != nil || len(open) != 1 || open[0].ID != id {
		t.Fatalf("open orders: %v %v", open, err)
	}

	if err := a.CancelOrder(1, trader1, id, engine.Bid, 100); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := len(sink.OfType(events.TypeOrderCancelled)); got != 1 {
		t.Fatalf("cancel events %d", got)
	}
}

func TestAppUnknownMarket(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.PlaceOrder(9, trader1, engine.Bid, 100, 10, engine.None); !errors.Is(err, engine.ErrMarketNotFound) {
		t.Fatalf("got %v, want ErrMarketNotFound", err)
	}
	if err := a.CancelOrder(9, trader1, 1, engine.Bid, 100); !errors.Is(err, engine.ErrMarketNotFound) {
		t.Fatalf("got %v, want ErrMarketNotFound", err)
	}
}

func TestAppBalances(t *testing.T) {
	a, _ := newTestApp(t)

	got := a.Balances(trader1)
	if got["WETH"] != 1_000_000 || got["USDC"] != 1_000_000 {
		t.Fatalf("balances %v", got)
	}

	// Placing a bid reserves quote out of the free balance.
	if _, err := a.PlaceOrder(1, trader1, engine.Bid, 100, 10, engine.None); err != nil {
		t.Fatalf("place: %v", err)
	}
	got = a.Balances(trader1)
	if got["USDC"] != 1_000_000-1000 {
		t.Fatalf("quote after reserve %d", got["USDC"])
	}
}

// The app serializes concurrent submissions; the engine below it never sees
// two operations at once. With both traders posting non-crossing orders, all
// placements must land and every invariant-checked query must stay coherent.
func TestAppSerializesConcurrentCallers(t *testing.T) {
	a, _ := newTestApp(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			owner, side := trader1, engine.Bid
			price := int64(100 - n)
			if n%2 == 1 {
				owner, side = trader2, engine.Ask
				price = int64(200 + n)
			}
			for k := 0; k < 50; k++ {
				if _, err := a.PlaceOrder(1, owner, side, price, 1, engine.None); err != nil {
					t.Errorf("place: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	bids, asks, err := a.Orderbook(1, 0)
	if err != nil {
		t.Fatalf("orderbook: %v", err)
	}
	var open int64
	for _, l := range bids {
		open += l.Open
	}
	for _, l := range asks {
		open += l.Open
	}
	if open != 200 {
		t.Fatalf("total open %d, want 200", open)
	}
}
