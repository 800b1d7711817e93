package engine

import (
	"math/rand"
	"testing"
)

func TestLadderOrdering(t *testing.T) {
	bids := newBookSide(Bid)
	asks := newBookSide(Ask)

	for _, p := range []int64{1000, 990, 1020, 995, 1010} {
		bids.level(p)
		asks.level(p)
	}

	wantBids := []int64{1020, 1010, 1000, 995, 990}
	wantAsks := []int64{990, 995, 1000, 1010, 1020}
	for i := range wantBids {
		if bids.prices[i] != wantBids[i] {
			t.Fatalf("bid ladder %v, want %v", bids.prices, wantBids)
		}
		if asks.prices[i] != wantAsks[i] {
			t.Fatalf("ask ladder %v, want %v", asks.prices, wantAsks)
		}
	}

	if best, _ := bids.best(); best != 1020 {
		t.Fatalf("best bid %d", best)
	}
	if best, _ := asks.best(); best != 990 {
		t.Fatalf("best ask %d", best)
	}
}

func TestLadderNoDuplicates(t *testing.T) {
	b := newBookSide(Bid)
	b.level(100)
	b.level(100)
	if len(b.prices) != 1 || len(b.levels) != 1 {
		t.Fatalf("duplicate price inserted: %v", b.prices)
	}
}

func TestRemovePrice(t *testing.T) {
	b := newBookSide(Ask)
	for _, p := range []int64{10, 30, 20} {
		b.level(p)
	}
	b.removePrice(20)
	if len(b.prices) != 2 || b.prices[0] != 10 || b.prices[1] != 30 {
		t.Fatalf("ladder after removal: %v", b.prices)
	}
	if _, ok := b.levels[20]; ok {
		t.Fatalf("level 20 should be gone")
	}
}

func TestLadderRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := newBookSide(Bid)
	seen := make(map[int64]bool)

	for i := 0; i < 500; i++ {
		p := int64(rng.Intn(200) + 1)
		if seen[p] && rng.Intn(2) == 0 {
			b.removePrice(p)
			delete(seen, p)
			continue
		}
		b.level(p)
		seen[p] = true
	}

	if len(b.prices) != len(seen) {
		t.Fatalf("ladder has %d prices, levels %d", len(b.prices), len(seen))
	}
	for i := 1; i < len(b.prices); i++ {
		if b.prices[i-1] <= b.prices[i] {
			t.Fatalf("ladder not strictly descending at %d: %v", i, b.prices)
		}
	}
	for _, p := range b.prices {
		if !seen[p] {
			t.Fatalf("ladder holds removed price %d", p)
		}
	}
}
