package engine

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/helixdex/helix/pkg/events"
)

// crosses reports whether a resting price on the opposite side is within an
// incoming order's limit.
func crosses(taker Side, limit, resting int64) bool {
	if taker == Bid {
		return resting <= limit
	}
	return resting >= limit
}

// PlaceLimitOrder admits a limit order: validates it against the market
// parameters, escrows the worst-case settlement amount, matches it against
// the opposite side and posts or refunds any remainder according to the
// restriction. The assigned order id is returned on success, including for
// post-only rejections and IOC/FOK orders that never rest.
//
// On any error return the market, book and ledger are exactly as they were
// before the call.
func (m *Market) PlaceLimitOrder(owner common.Address, side Side, price, size int64, restriction Restriction) (uint64, error) {
	if side != Bid && side != Ask {
		return 0, fmt.Errorf("%w: side %d", ErrInvalidParameter, side)
	}
	if price <= 0 || price%m.Params.TickSize != 0 {
		return 0, fmt.Errorf("%w: price %d not a multiple of tick %d", ErrInvalidPrice, price, m.Params.TickSize)
	}
	if size <= 0 || size < m.Params.MinSize || size%m.Params.LotSize != 0 {
		return 0, fmt.Errorf("%w: size %d (min %d, lot %d)", ErrInvalidSize, size, m.Params.MinSize, m.Params.LotSize)
	}

	// Worst-case reservation happens before matching, unconditionally; the
	// unused part is refunded at the end of the call.
	reserved := m.requiredEscrow(side, price, size)
	pay := m.payAccount(side)
	if err := pay.reserve(owner, reserved); err != nil {
		return 0, fmt.Errorf("reserve %d %s: %w", reserved, pay.asset, err)
	}
	m.addEscrow(side, reserved)

	// A post-only order whose price crosses the opposite best is rejected
	// before the matching loop ever runs: full refund, id still consumed.
	if restriction == PostOnly && m.wouldCross(side, price) {
		m.refund(side, owner, reserved)
		id := m.allocOrderID()
		m.emit(events.OrderPlaced{MarketID: m.ID, OrderID: id, Owner: owner, Side: side.String(), Price: price, Size: size})
		return id, nil
	}

	// Self-trading aborts the whole call. The crossing walk is checked
	// read-only up front so the abort leaves no partial state behind.
	if err := m.scanSelfMatch(owner, side, price, size); err != nil {
		m.refund(side, owner, reserved)
		return 0, err
	}

	id := m.allocOrderID()
	o := &Order{
		ID:          id,
		Owner:       owner,
		Side:        side,
		Price:       price,
		Size:        size,
		Restriction: restriction,
		CreatedAt:   time.Now().UnixNano(),
	}
	m.emit(events.OrderPlaced{MarketID: m.ID, OrderID: id, Owner: owner, Side: side.String(), Price: price, Size: size})

	spent := m.match(o)

	switch {
	case o.Open() == 0:
		// Fully filled. Any difference between the reservation and what
		// settlement actually drew is price improvement; hand it back.
		m.refund(side, owner, reserved-spent)
	case restriction == ImmediateOrCancel || restriction == FillOrKill:
		// FOK is best-effort here: it executes like IOC, partial fills
		// stand and only the remainder is cancelled.
		m.refund(side, owner, reserved-spent)
	default:
		resting := m.requiredEscrow(side, price, o.Open())
		m.refund(side, owner, reserved-spent-resting)
		m.insert(o)
	}
	return id, nil
}

func (m *Market) allocOrderID() uint64 {
	m.nextOrderID++
	return m.nextOrderID
}

// wouldCross reports whether a new order at price would execute immediately
// against the opposite side's best.
func (m *Market) wouldCross(side Side, price int64) bool {
	best, ok := m.bookFor(side.Opposite()).best()
	return ok && crosses(side, price, best)
}

// scanSelfMatch walks the liquidity a taker of the given size would consume,
// in priority order, and fails if any of it belongs to the taker itself.
// Read-only; runs before the first mutation of the matching loop.
func (m *Market) scanSelfMatch(owner common.Address, side Side, price, size int64) error {
	opp := m.bookFor(side.Opposite())
	remaining := size
	for _, p := range opp.prices {
		if !crosses(side, price, p) {
			return nil
		}
		for _, o := range opp.levels[p].Orders {
			if remaining <= 0 {
				return nil
			}
			if o.Owner == owner {
				return fmt.Errorf("%w: order %d also owned by %s", ErrSelfMatch, o.ID, owner.Hex())
			}
			remaining -= o.Open()
		}
	}
	return nil
}

// match runs the crossing loop for a taker until its limit no longer crosses
// or the opposite side is exhausted. It returns the gross amount settlement
// drew from the taker's reservation.
//
// Makers fill strictly FIFO: the head of the best level is popped with a
// shift (locators of the shifted orders are rewritten), and a partially
// filled maker is pushed back onto the level tail.
func (m *Market) match(taker *Order) (spent int64) {
	opp := m.bookFor(taker.Side.Opposite())
	for taker.Open() > 0 {
		best, ok := opp.best()
		if !ok || !crosses(taker.Side, taker.Price, best) {
			break
		}
		lvl := opp.levels[best]

		maker := lvl.popHead()
		for i, rest := range lvl.Orders {
			loc := m.locators[rest.ID]
			loc.index = i
			m.locators[rest.ID] = loc
		}
		delete(m.locators, maker.ID)

		fill := taker.Open()
		if maker.Open() < fill {
			fill = maker.Open()
		}
		taker.Filled += fill
		maker.Filled += fill

		spent += m.settle(taker, maker, best, fill)

		if maker.Open() > 0 {
			idx := lvl.append(maker)
			m.locators[maker.ID] = locator{side: maker.Side, price: best, index: idx, owner: maker.Owner}
		} else {
			m.forget(maker)
			if lvl.empty() {
				opp.removePrice(best)
			}
		}

		m.emit(events.OrderFilled{
			TradeID:      uuid.NewString(),
			MarketID:     m.ID,
			MakerOrderID: maker.ID,
			TakerOrderID: taker.ID,
			Maker:        maker.Owner,
			Taker:        taker.Owner,
			TakerSide:    taker.Side.String(),
			Price:        best,
			Size:         fill,
		})
	}
	return spent
}

// settle moves escrowed value between the counterparties of one fill. The
// executed price is the maker's resting price; fees are truncated bps of the
// gross amounts and stay in the market's fee store. Returns the gross amount
// taken from the taker's reservation.
func (m *Market) settle(taker, maker *Order, price, fill int64) int64 {
	baseAmount := fill
	quoteAmount := fill * price / m.Params.LotSize
	baseFee := baseAmount * m.Params.FeeRateBps / 10000
	quoteFee := quoteAmount * m.Params.FeeRateBps / 10000

	buyer, seller := taker.Owner, maker.Owner
	if taker.Side == Ask {
		buyer, seller = maker.Owner, taker.Owner
	}

	// Base leg: seller's escrow pays the buyer net of the base fee.
	m.escrowedBase -= baseAmount
	m.feeBase += baseFee
	m.base.release(buyer, baseAmount-baseFee)

	// Quote leg: buyer's escrow pays the seller net of the quote fee.
	m.escrowedQuote -= quoteAmount
	m.feeQuote += quoteFee
	m.quote.release(seller, quoteAmount-quoteFee)

	if taker.Side == Bid {
		return quoteAmount
	}
	return baseAmount
}
