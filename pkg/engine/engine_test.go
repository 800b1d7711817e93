package engine

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

// unitParams make sizes and prices read like the numbers in the examples:
// every positive integer is a valid price and size, no fees.
var unitParams = MarketParams{LotSize: 1, TickSize: 1, MinSize: 1, FeeRateBps: 0}

func newTestMarket(t *testing.T, params MarketParams) (*Market, *ledger.MemLedger, *events.MemorySink) {
	t.Helper()
	l := ledger.NewMemLedger()
	sink := events.NewMemorySink()
	reg := NewRegistry(l, sink)
	m, err := reg.CreateMarket("WETH", "USDC", params)
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}
	for _, owner := range []common.Address{alice, bob, carol} {
		l.Mint(owner, "WETH", 1_000_000_000)
		l.Mint(owner, "USDC", 1_000_000_000)
	}
	sink.Reset()
	return m, l, sink
}

// checkInvariants verifies the structural invariants that must hold after
// every operation: a sorted ladder matching the level map, exact cached
// level totals, and locators pointing at the orders' true positions.
func checkInvariants(t *testing.T, m *Market) {
	t.Helper()
	for _, b := range []*bookSide{m.bids, m.asks} {
		if len(b.prices) != len(b.levels) {
			t.Fatalf("%s ladder has %d prices but %d levels", b.side, len(b.prices), len(b.levels))
		}
		for i, p := range b.prices {
			lvl, ok := b.levels[p]
			if !ok {
				t.Fatalf("%s ladder price %d has no level", b.side, p)
			}
			if lvl.empty() {
				t.Fatalf("%s level %d is empty but still present", b.side, p)
			}
			if i > 0 {
				prev := b.prices[i-1]
				if b.side == Bid && prev <= p {
					t.Fatalf("bid ladder not strictly descending: %v", b.prices)
				}
				if b.side == Ask && prev >= p {
					t.Fatalf("ask ladder not strictly ascending: %v", b.prices)
				}
			}
			var sum int64
			for idx, o := range lvl.Orders {
				if o.Filled < 0 || o.Filled > o.Size {
					t.Fatalf("order %d filled %d outside [0,%d]", o.ID, o.Filled, o.Size)
				}
				sum += o.Open()
				loc, ok := m.locators[o.ID]
				if !ok {
					t.Fatalf("resting order %d has no locator", o.ID)
				}
				if loc.side != b.side || loc.price != p || loc.index != idx {
					t.Fatalf("order %d locator {%s %d %d}, actual {%s %d %d}",
						o.ID, loc.side, loc.price, loc.index, b.side, p, idx)
				}
			}
			if sum != lvl.TotalOpen {
				t.Fatalf("level %d cached total %d, actual %d", p, lvl.TotalOpen, sum)
			}
		}
	}
	for id := range m.locators {
		if _, ok := m.orders[id]; !ok {
			t.Fatalf("locator for %d but no order entry", id)
		}
	}
}

func mustPlace(t *testing.T, m *Market, owner common.Address, side Side, price, size int64, r Restriction) uint64 {
	t.Helper()
	id, err := m.PlaceLimitOrder(owner, side, price, size, r)
	if err != nil {
		t.Fatalf("PlaceLimitOrder(%s %d@%d): %v", side, size, price, err)
	}
	checkInvariants(t, m)
	return id
}

func fills(sink *events.MemorySink) []events.OrderFilled {
	var out []events.OrderFilled
	for _, e := range sink.OfType(events.TypeOrderFilled) {
		out = append(out, e.(events.OrderFilled))
	}
	return out
}
