package engine

// PriceLevel holds the orders resting at one exact price, FIFO by arrival.
// TotalOpen caches the sum of open sizes so depth queries never re-sum the
// queue; every mutation in this package keeps it exact.
type PriceLevel struct {
	Price     int64
	Orders    []*Order
	TotalOpen int64
}

func newPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// append adds an order at the queue tail and returns its index.
func (l *PriceLevel) append(o *Order) int {
	l.Orders = append(l.Orders, o)
	l.TotalOpen += o.Open()
	return len(l.Orders) - 1
}

// popHead removes the first order, shifting the remainder down one slot so
// relative FIFO order is preserved. The caller reindexes locators for the
// shifted orders.
func (l *PriceLevel) popHead() *Order {
	head := l.Orders[0]
	n := copy(l.Orders, l.Orders[1:])
	l.Orders[n] = nil
	l.Orders = l.Orders[:n]
	l.TotalOpen -= head.Open()
	return head
}

// swapRemove removes the order at i by moving the last order into its slot
// and truncating. It returns the order that was moved, or nil if i was the
// tail. This is O(1) but does not preserve FIFO order among the survivors.
func (l *PriceLevel) swapRemove(i int) (removed, moved *Order) {
	removed = l.Orders[i]
	l.TotalOpen -= removed.Open()
	last := len(l.Orders) - 1
	if i != last {
		moved = l.Orders[last]
		l.Orders[i] = moved
	}
	l.Orders[last] = nil
	l.Orders = l.Orders[:last]
	return removed, moved
}

func (l *PriceLevel) empty() bool { return len(l.Orders) == 0 }
