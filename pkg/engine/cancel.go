package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/helixdex/helix/pkg/events"
)

// CancelOrder removes a resting order and refunds its remaining escrow. The
// caller supplies the side and price it believes the order rests under; a
// mismatch with the locator is reported as ErrOrderNotFound, and only the
// order's owner may cancel.
//
// Removal is swap-and-truncate: O(1), but unlike the matching loop's
// shift-based pop it does not keep FIFO order among the survivors — the
// former tail takes the cancelled order's slot. That asymmetry is part of
// the engine's observable behavior and is kept as is.
func (m *Market) CancelOrder(caller common.Address, id uint64, side Side, price int64) error {
	loc, ok := m.locators[id]
	if !ok || loc.side != side || loc.price != price {
		return fmt.Errorf("%w: order %d at %s/%d", ErrOrderNotFound, id, side, price)
	}
	if loc.owner != caller {
		return fmt.Errorf("%w: order %d belongs to %s", ErrNotAuthorized, id, loc.owner.Hex())
	}

	book := m.bookFor(side)
	lvl := book.levels[price]

	removed, moved := lvl.swapRemove(loc.index)
	if moved != nil {
		mloc := m.locators[moved.ID]
		mloc.index = loc.index
		m.locators[moved.ID] = mloc
	}
	if lvl.empty() {
		book.removePrice(price)
	}

	m.refund(side, removed.Owner, m.requiredEscrow(side, price, removed.Open()))
	m.forget(removed)

	m.emit(events.OrderCancelled{
		MarketID:  m.ID,
		OrderID:   id,
		Owner:     removed.Owner,
		Side:      side.String(),
		Price:     price,
		Remaining: removed.Open(),
	})
	return nil
}
