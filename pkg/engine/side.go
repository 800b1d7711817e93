package engine

import "sort"

// bookSide is one side of a market: the set of populated price levels plus a
// price ladder kept in matching-priority order (bids descending, asks
// ascending). prices contains exactly the keys of levels, always sorted, so
// the head of the slice is the best price.
type bookSide struct {
	side   Side
	prices []int64
	levels map[int64]*PriceLevel
}

func newBookSide(s Side) *bookSide {
	return &bookSide{side: s, levels: make(map[int64]*PriceLevel)}
}

// best returns the most aggressive price on this side.
func (b *bookSide) best() (int64, bool) {
	if len(b.prices) == 0 {
		return 0, false
	}
	return b.prices[0], true
}

// insertRank returns the ladder position a price occupies, i.e. the index of
// the first resting price with lower priority.
func (b *bookSide) insertRank(price int64) int {
	if b.side == Bid {
		return sort.Search(len(b.prices), func(i int) bool { return b.prices[i] < price })
	}
	return sort.Search(len(b.prices), func(i int) bool { return b.prices[i] > price })
}

// level returns the PriceLevel at price, creating it (and splicing the price
// into the ladder) if this is the first order at that price.
func (b *bookSide) level(price int64) *PriceLevel {
	if l, ok := b.levels[price]; ok {
		return l
	}
	l := newPriceLevel(price)
	b.levels[price] = l
	i := b.insertRank(price)
	b.prices = append(b.prices, 0)
	copy(b.prices[i+1:], b.prices[i:])
	b.prices[i] = price
	return l
}

// removePrice destroys an emptied level and drops its price from the ladder.
func (b *bookSide) removePrice(price int64) {
	delete(b.levels, price)
	for i, p := range b.prices {
		if p == price {
			b.prices = append(b.prices[:i], b.prices[i+1:]...)
			return
		}
	}
}

func (b *bookSide) depth() int { return len(b.prices) }
