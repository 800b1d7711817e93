// Package spot hosts the matching engine inside the node. The engine itself
// is sequential and lock-free; App provides the serialization the engine
// requires by funneling every mutating call through one mutex, and wires the
// ledger, event sinks and logging around it.
package spot

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/helixdex/helix/pkg/engine"
	"github.com/helixdex/helix/pkg/events"
	"github.com/helixdex/helix/pkg/ledger"
)

type App struct {
	mu       sync.Mutex
	registry *engine.Registry
	ledger   ledger.Ledger
	log      *zap.Logger
}

func New(l ledger.Ledger, sink events.Sink, log *zap.Logger) *App {
	return &App{
		registry: engine.NewRegistry(l, sink),
		ledger:   l,
		log:      log,
	}
}

func (a *App) CreateMarket(base, quote string, params engine.MarketParams) (*engine.Market, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.CreateMarket(base, quote, params)
	if err != nil {
		return nil, err
	}
	a.log.Info("market_created",
		zap.Uint64("market_id", m.ID),
		zap.String("base", base),
		zap.String("quote", quote),
		zap.Int64("lot_size", params.LotSize),
		zap.Int64("tick_size", params.TickSize),
	)
	return m, nil
}

func (a *App) PlaceOrder(marketID uint64, owner common.Address, side engine.Side, price, size int64, r engine.Restriction) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.Market(marketID)
	if err != nil {
		return 0, err
	}
	id, err := m.PlaceLimitOrder(owner, side, price, size, r)
	if err != nil {
		a.log.Debug("order_rejected",
			zap.Uint64("market_id", marketID),
			zap.String("owner", owner.Hex()),
			zap.Error(err),
		)
		return 0, err
	}
	a.log.Info("order_placed",
		zap.Uint64("market_id", marketID),
		zap.Uint64("order_id", id),
		zap.String("owner", owner.Hex()),
		zap.String("side", side.String()),
		zap.Int64("price", price),
		zap.Int64("size", size),
		zap.String("restriction", r.String()),
	)
	return id, nil
}

func (a *App) CancelOrder(marketID uint64, caller common.Address, orderID uint64, side engine.Side, price int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.Market(marketID)
	if err != nil {
		return err
	}
	if err := m.CancelOrder(caller, orderID, side, price); err != nil {
		return err
	}
	a.log.Info("order_cancelled",
		zap.Uint64("market_id", marketID),
		zap.Uint64("order_id", orderID),
		zap.String("owner", caller.Hex()),
	)
	return nil
}

// Fund mints balance to an owner. Only available when the configured ledger
// supports issuance (devnet faucet); production ledgers reject it.
func (a *App) Fund(owner common.Address, asset string, amount int64) error {
	minter, ok := a.ledger.(ledger.Minter)
	if !ok {
		return fmt.Errorf("ledger does not support minting")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %d", amount)
	}
	minter.Mint(owner, asset, amount)
	a.log.Info("funded",
		zap.String("owner", owner.Hex()),
		zap.String("asset", asset),
		zap.Int64("amount", amount),
	)
	return nil
}

func (a *App) Markets() []*engine.Market {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Markets()
}

func (a *App) Market(id uint64) (*engine.Market, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Market(id)
}

// Orderbook returns best prices and up to n aggregated levels per side.
func (a *App) Orderbook(marketID uint64, n int) (bids, asks []engine.DepthLevel, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.Market(marketID)
	if err != nil {
		return nil, nil, err
	}
	bids, asks = m.Depth(n)
	return bids, asks, nil
}

func (a *App) OpenOrders(marketID uint64, owner common.Address) ([]engine.Order, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.Market(marketID)
	if err != nil {
		return nil, err
	}
	return m.OpenOrders(owner), nil
}

func (a *App) Stats(marketID uint64) (engine.Stats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.registry.Market(marketID)
	if err != nil {
		return engine.Stats{}, err
	}
	return m.Stats(), nil
}

// Balances reports the owner's free balance in every asset traded on any
// market.
func (a *App) Balances(owner common.Address) map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]int64)
	for _, m := range a.registry.Markets() {
		for _, asset := range []string{m.Base, m.Quote} {
			if _, ok := out[asset]; !ok {
				out[asset] = a.ledger.BalanceOf(owner, asset)
			}
		}
	}
	return out
}
