package api

import (
	"fmt"

	"github.com/helixdex/helix/pkg/engine"
)

// Request/response types for the REST endpoints and WebSocket messages.

type PlaceOrderRequest struct {
	MarketID    uint64 `json:"market_id"`
	Owner       string `json:"owner"` // 0x-prefixed address
	Side        string `json:"side"`  // "bid" | "ask"
	Price       int64  `json:"price"`
	Size        int64  `json:"size"`
	Restriction string `json:"restriction,omitempty"` // "", "post_only", "immediate_or_cancel", "fill_or_kill"
}

type PlaceOrderResponse struct {
	OrderID uint64 `json:"order_id"`
}

type CancelOrderRequest struct {
	MarketID uint64 `json:"market_id"`
	Owner    string `json:"owner"`
	OrderID  uint64 `json:"order_id"`
	Side     string `json:"side"`
	Price    int64  `json:"price"`
}

type FaucetRequest struct {
	Owner  string `json:"owner"`
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
}

type MarketInfo struct {
	ID            uint64 `json:"id"`
	Base          string `json:"base"`
	Quote         string `json:"quote"`
	LotSize       int64  `json:"lot_size"`
	TickSize      int64  `json:"tick_size"`
	MinSize       int64  `json:"min_size"`
	FeeRateBps    int64  `json:"fee_rate_bps"`
	BidLevels     int    `json:"bid_levels"`
	AskLevels     int    `json:"ask_levels"`
	EscrowedBase  int64  `json:"escrowed_base"`
	EscrowedQuote int64  `json:"escrowed_quote"`
}

type OrderbookResponse struct {
	MarketID uint64              `json:"market_id"`
	BestBid  *int64              `json:"best_bid,omitempty"`
	BestAsk  *int64              `json:"best_ask,omitempty"`
	Bids     []engine.DepthLevel `json:"bids"`
	Asks     []engine.DepthLevel `json:"asks"`
}

type OrderInfo struct {
	OrderID     uint64 `json:"order_id"`
	MarketID    uint64 `json:"market_id"`
	Side        string `json:"side"`
	Price       int64  `json:"price"`
	Size        int64  `json:"size"`
	Filled      int64  `json:"filled"`
	Open        int64  `json:"open"`
	Restriction string `json:"restriction"`
	CreatedAt   int64  `json:"created_at"`
}

type BalancesResponse struct {
	Owner    string           `json:"owner"`
	Balances map[string]int64 `json:"balances"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" | "unsubscribe"
	Channels []string `json:"channels"`
}

func parseSide(s string) (engine.Side, error) {
	switch s {
	case "bid", "buy":
		return engine.Bid, nil
	case "ask", "sell":
		return engine.Ask, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseRestriction(s string) (engine.Restriction, error) {
	switch s {
	case "", "none":
		return engine.None, nil
	case "post_only":
		return engine.PostOnly, nil
	case "immediate_or_cancel", "ioc":
		return engine.ImmediateOrCancel, nil
	case "fill_or_kill", "fok":
		return engine.FillOrKill, nil
	default:
		return 0, fmt.Errorf("unknown restriction %q", s)
	}
}
