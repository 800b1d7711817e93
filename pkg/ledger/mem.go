package ledger

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemLedger is an in-memory Ledger with mint support. It backs tests and the
// faucet; the node uses the pebble-backed Store for durability.
type MemLedger struct {
	mu       sync.RWMutex
	balances map[string]map[common.Address]int64 // asset -> owner -> balance
}

func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[string]map[common.Address]int64)}
}

func (l *MemLedger) Mint(owner common.Address, asset string, amount int64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(owner, asset, amount)
}

func (l *MemLedger) Reserve(owner common.Address, asset string, amount int64) error {
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[asset][owner] < amount {
		return ErrInsufficientBalance
	}
	l.balances[asset][owner] -= amount
	return nil
}

func (l *MemLedger) Release(recipient common.Address, asset string, amount int64) {
	if amount == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(recipient, asset, amount)
}

func (l *MemLedger) BalanceOf(owner common.Address, asset string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[asset][owner]
}

func (l *MemLedger) credit(owner common.Address, asset string, amount int64) {
	m, ok := l.balances[asset]
	if !ok {
		m = make(map[common.Address]int64)
		l.balances[asset] = m
	}
	m[owner] += amount
}
