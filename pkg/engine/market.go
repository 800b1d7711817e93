package engine

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

// MarketParams fixes a market's trading rules at creation time.
type MarketParams struct {
	LotSize    int64 // minimum size increment; all sizes are multiples
	TickSize   int64 // minimum price increment; all prices are multiples
	MinSize    int64 // smallest admissible order size, in lots
	FeeRateBps int64 // taken from gross settlement on both legs, <= 1000
}

const maxFeeRateBps = 1000 // 10%

func (p MarketParams) validate() error {
	if p.LotSize <= 0 || p.TickSize <= 0 || p.MinSize <= 0 {
		return ErrInvalidParameter
	}
	if p.FeeRateBps < 0 || p.FeeRateBps > maxFeeRateBps {
		return ErrInvalidParameter
	}
	return nil
}

// assetAccount is a typed balance handle: a ledger plus the asset it moves.
// Each market resolves one per pair asset at creation, so settlement code
// never names assets again.
type assetAccount struct {
	ledger ledger.Ledger
	asset  string
}

func (a assetAccount) reserve(owner common.Address, amount int64) error {
	return a.ledger.Reserve(owner, a.asset, amount)
}

func (a assetAccount) release(to common.Address, amount int64) {
	a.ledger.Release(to, a.asset, amount)
}

// locator records where a resting order lives. One exists per order id iff
// the order is currently in the book, and its index always equals the
// order's actual position inside its level's queue.
type locator struct {
	side  Side
	price int64
	index int
	owner common.Address
}

// Market is a single trading pair: two book sides, the escrow and fee
// balances, the order-id counter and the order locator index. A Market
// assumes external serialization; at most one operation may mutate it at a
// time (the app layer holds the lock).
type Market struct {
	ID        uint64
	Base      string
	Quote     string
	Params    MarketParams
	CreatedAt int64

	base  assetAccount
	quote assetAccount
	sink  events.Sink

	bids *bookSide
	asks *bookSide

	nextOrderID uint64
	locators    map[uint64]locator
	openOrders  map[common.Address][]uint64
	orders      map[uint64]*Order // resting orders only, keyed by id

	escrowedBase  int64 // sum of base reserved for resting asks
	escrowedQuote int64 // sum of quote reserved for resting bids
	feeBase       int64
	feeQuote      int64
}

func newMarket(id uint64, base, quote string, params MarketParams, l ledger.Ledger, sink events.Sink, now int64) *Market {
	return &Market{
		ID:         id,
		Base:       base,
		Quote:      quote,
		Params:     params,
		CreatedAt:  now,
		base:       assetAccount{ledger: l, asset: base},
		quote:      assetAccount{ledger: l, asset: quote},
		sink:       sink,
		bids:       newBookSide(Bid),
		asks:       newBookSide(Ask),
		locators:   make(map[uint64]locator),
		openOrders: make(map[common.Address][]uint64),
		orders:     make(map[uint64]*Order),
	}
}

func (m *Market) bookFor(s Side) *bookSide {
	if s == Bid {
		return m.bids
	}
	return m.asks
}

// payAccount returns the handle for the asset a side escrows: asks escrow
// base, bids escrow quote.
func (m *Market) payAccount(s Side) assetAccount {
	if s == Ask {
		return m.base
	}
	return m.quote
}

// requiredEscrow is the worst-case settlement amount a new order must fund:
// the full base size for an ask, size*price/lot of quote for a bid.
func (m *Market) requiredEscrow(s Side, price, size int64) int64 {
	if s == Ask {
		return size
	}
	return size * price / m.Params.LotSize
}

func (m *Market) addEscrow(s Side, amount int64) {
	if s == Ask {
		m.escrowedBase += amount
	} else {
		m.escrowedQuote += amount
	}
}

func (m *Market) subEscrow(s Side, amount int64) {
	if s == Ask {
		m.escrowedBase -= amount
	} else {
		m.escrowedQuote -= amount
	}
}

// refund releases escrowed value back to the owner on the paying side.
func (m *Market) refund(s Side, owner common.Address, amount int64) {
	if amount == 0 {
		return
	}
	m.subEscrow(s, amount)
	m.payAccount(s).release(owner, amount)
}

// insert rests an order in the book: level tail, locator, owner index.
func (m *Market) insert(o *Order) {
	lvl := m.bookFor(o.Side).level(o.Price)
	idx := lvl.append(o)
	m.locators[o.ID] = locator{side: o.Side, price: o.Price, index: idx, owner: o.Owner}
	m.openOrders[o.Owner] = append(m.openOrders[o.Owner], o.ID)
	m.orders[o.ID] = o
}

// forget drops a fully-removed order from the locator and owner indexes.
func (m *Market) forget(o *Order) {
	delete(m.locators, o.ID)
	delete(m.orders, o.ID)
	ids := m.openOrders[o.Owner]
	for i, id := range ids {
		if id == o.ID {
			m.openOrders[o.Owner] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(m.openOrders[o.Owner]) == 0 {
		delete(m.openOrders, o.Owner)
	}
}

func (m *Market) emit(e events.Event) {
	if m.sink != nil {
		m.sink.Emit(e)
	}
}
