package engine

import (
	"github.com/ethereum/go-ethereum/common"
)

type Side int8

const (
	Bid Side = 1
	Ask Side = -1
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side { return -s }

// Restriction controls how an order may execute on admission.
type Restriction int8

const (
	None Restriction = iota
	FillOrKill
	ImmediateOrCancel
	PostOnly
)

func (r Restriction) String() string {
	switch r {
	case None:
		return "none"
	case FillOrKill:
		return "fill_or_kill"
	case ImmediateOrCancel:
		return "immediate_or_cancel"
	case PostOnly:
		return "post_only"
	default:
		return "unknown"
	}
}

// Order is a limit order. Identity fields are fixed on admission; only
// Filled moves, and only while the matching loop executes against it.
type Order struct {
	ID          uint64
	Owner       common.Address
	Side        Side
	Price       int64 // integer ticks
	Size        int64 // integer lots
	Filled      int64 // 0 <= Filled <= Size
	Restriction Restriction
	CreatedAt   int64 // unix nanos at admission
}

// Open returns the unfilled size.
func (o *Order) Open() int64 { return o.Size - o.Filled }
