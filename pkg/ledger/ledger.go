// Package ledger tracks fungible asset balances for exchange participants.
// The matching engine only ever moves value through the three calls below;
// issuance (Minter) exists for funding accounts out-of-band.
package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientBalance is returned by Reserve when the owner cannot cover
// the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is the balance collaborator consumed by the engine. Reserve debits
// the owner's free balance (the debited value is then owned by the caller's
// escrow until released); Release credits the recipient.
type Ledger interface {
	Reserve(owner common.Address, asset string, amount int64) error
	Release(recipient common.Address, asset string, amount int64)
	BalanceOf(owner common.Address, asset string) int64
}

// Minter is implemented by ledgers that support issuing new units, used to
// fund accounts (faucet, tests). Not part of the engine contract.
type Minter interface {
	Mint(owner common.Address, asset string, amount int64)
}
