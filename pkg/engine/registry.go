// Package engine implements a price-time priority limit-order matching
// engine for spot trading pairs: a two-sided book of FIFO price levels, an
// order locator index for direct cancellation, escrow-backed settlement and
// the post-only / IOC / FOK execution restrictions.
//
// The engine is pure sequential logic: it performs no I/O and no locking of
// its own. Callers must serialize operations against the same Market; the
// app layer does exactly that.
package engine

import (
	"fmt"
	"time"

	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

// Registry is the arena owning every market, keyed by a sequential market
// id. It is an append-only directory: markets are never removed and ids are
// never reused.
type Registry struct {
	ledger       ledger.Ledger
	sink         events.Sink
	nextMarketID uint64
	markets      map[uint64]*Market
}

func NewRegistry(l ledger.Ledger, sink events.Sink) *Registry {
	return &Registry{
		ledger:  l,
		sink:    sink,
		markets: make(map[uint64]*Market),
	}
}

// CreateMarket validates the parameters, allocates a market for the asset
// pair under the next sequential id and records it.
func (r *Registry) CreateMarket(base, quote string, params MarketParams) (*Market, error) {
	if base == "" || quote == "" || base == quote {
		return nil, fmt.Errorf("%w: pair %q/%q", ErrInvalidParameter, base, quote)
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("%w: lot=%d tick=%d min=%d fee=%dbps",
			err, params.LotSize, params.TickSize, params.MinSize, params.FeeRateBps)
	}

	r.nextMarketID++
	m := newMarket(r.nextMarketID, base, quote, params, r.ledger, r.sink, time.Now().UnixNano())
	r.markets[m.ID] = m

	if r.sink != nil {
		r.sink.Emit(events.MarketCreated{
			MarketID: m.ID,
			Base:     base,
			Quote:    quote,
			LotSize:  params.LotSize,
			TickSize: params.TickSize,
		})
	}
	return m, nil
}

// Market looks a market up by id.
func (r *Registry) Market(id uint64) (*Market, error) {
	m, ok := r.markets[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrMarketNotFound, id)
	}
	return m, nil
}

// Markets returns every market in ascending id order.
func (r *Registry) Markets() []*Market {
	out := make([]*Market, 0, len(r.markets))
	for id := uint64(1); id <= r.nextMarketID; id++ {
		if m, ok := r.markets[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (r *Registry) Count() int { return len(r.markets) }
