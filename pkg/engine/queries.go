package engine

import (
	"github.com/ethereum/go-ethereum/common"
)

// DepthLevel is one aggregated price level of an order-book depth query.
type DepthLevel struct {
	Price int64 `json:"price"`
	Open  int64 `json:"open"`
}

// Stats summarizes a market's resting state.
type Stats struct {
	BidLevels     int   `json:"bid_levels"`
	AskLevels     int   `json:"ask_levels"`
	EscrowedBase  int64 `json:"escrowed_base"`
	EscrowedQuote int64 `json:"escrowed_quote"`
	FeeBase       int64 `json:"fee_base"`
	FeeQuote      int64 `json:"fee_quote"`
}

// BestBid returns the highest resting bid price.
func (m *Market) BestBid() (int64, bool) { return m.bids.best() }

// BestAsk returns the lowest resting ask price.
func (m *Market) BestAsk() (int64, bool) { return m.asks.best() }

// Depth returns up to n levels per side in matching-priority order, using
// each level's cached open total.
func (m *Market) Depth(n int) (bids, asks []DepthLevel) {
	return m.sideDepth(m.bids, n), m.sideDepth(m.asks, n)
}

func (m *Market) sideDepth(b *bookSide, n int) []DepthLevel {
	if n <= 0 || n > len(b.prices) {
		n = len(b.prices)
	}
	out := make([]DepthLevel, 0, n)
	for _, p := range b.prices[:n] {
		out = append(out, DepthLevel{Price: p, Open: b.levels[p].TotalOpen})
	}
	return out
}

// OpenOrders returns snapshots of an owner's resting orders, oldest id first.
func (m *Market) OpenOrders(owner common.Address) []Order {
	ids := m.openOrders[owner]
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out
}

// Order returns a snapshot of one resting order.
func (m *Market) Order(id uint64) (Order, bool) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

func (m *Market) Stats() Stats {
	return Stats{
		BidLevels:     m.bids.depth(),
		AskLevels:     m.asks.depth(),
		EscrowedBase:  m.escrowedBase,
		EscrowedQuote: m.escrowedQuote,
		FeeBase:       m.feeBase,
		FeeQuote:      m.feeQuote,
	}
}
