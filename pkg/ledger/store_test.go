package ledger

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "balances")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	s, err := OpenStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Mint(owner, "USDC", 5000)
	if err := s.Reserve(owner, "USDC", 1500); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if got := s.BalanceOf(owner, "USDC"); got != 3500 {
		t.Fatalf("balance after reopen %d, want 3500", got)
	}
	if err := s.Reserve(owner, "USDC", 4000); err == nil {
		t.Fatalf("over-reserve must fail")
	}
}
