// Package events defines the records emitted by the matching engine and the
// sinks that consume them. Every mutating engine operation appends records
// here; sinks fan them out to logs, the event journal, websocket clients and
// Kafka.
package events

import (
	"github.com/ethereum/go-ethereum/common"
)

type Type string

const (
	TypeMarketCreated  Type = "market_created"
	TypeOrderPlaced    Type = "order_placed"
	TypeOrderFilled    Type = "order_filled"
	TypeOrderCancelled Type = "order_cancelled"
)

// Event is implemented by every record type in this package.
type Event interface {
	EventType() Type
}

type MarketCreated struct {
	MarketID uint64 `json:"market_id"`
	Base     string `json:"base"`
	Quote    string `json:"quote"`
	LotSize  int64  `json:"lot_size"`
	TickSize int64  `json:"tick_size"`
}

// OrderPlaced is emitted for every accepted placement call, whether or not
// the order ultimately rests in the book.
type OrderPlaced struct {
	MarketID uint64         `json:"market_id"`
	OrderID  uint64         `json:"order_id"`
	Owner    common.Address `json:"owner"`
	Side     string         `json:"side"`
	Price    int64          `json:"price"`
	Size     int64          `json:"size"`
}

type OrderFilled struct {
	TradeID      string         `json:"trade_id"`
	MarketID     uint64         `json:"market_id"`
	MakerOrderID uint64         `json:"maker_order_id"`
	TakerOrderID uint64         `json:"taker_order_id"`
	Maker        common.Address `json:"maker"`
	Taker        common.Address `json:"taker"`
	TakerSide    string         `json:"taker_side"`
	Price        int64          `json:"price"` // execution price = maker's resting price
	Size         int64          `json:"size"`
}

type OrderCancelled struct {
	MarketID  uint64         `json:"market_id"`
	OrderID   uint64         `json:"order_id"`
	Owner     common.Address `json:"owner"`
	Side      string         `json:"side"`
	Price     int64          `json:"price"`
	Remaining int64          `json:"remaining"` // open size refunded
}

func (MarketCreated) EventType() Type  { return TypeMarketCreated }
func (OrderPlaced) EventType() Type    { return TypeOrderPlaced }
func (OrderFilled) EventType() Type    { return TypeOrderFilled }
func (OrderCancelled) EventType() Type { return TypeOrderCancelled }

// Sink consumes engine events. Emit must not fail; sinks deal with their own
// delivery problems.
type Sink interface {
	Emit(Event)
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// MultiSink fans an event out to every child sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}
