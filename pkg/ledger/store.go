package ledger

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Store is a pebble-backed Ledger with an in-memory cache in front. All
// balances live under "bal/<asset>/<address>" keys as big-endian int64.
//
// Release and Mint never fail at the interface level; a persistence error is
// logged and the in-memory balance stays authoritative until the next
// successful write.
type Store struct {
	mu    sync.Mutex
	db    *pebble.DB
	cache map[string]int64 // key() -> balance
	log   *zap.Logger
}

// OpenStore opens (or creates) the balance database at path.
func OpenStore(path string, log *zap.Logger) (*Store, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(64 << 20),
		MemTableSize: 32 << 20,
		MaxOpenFiles: 1000,
		BytesPerSync: 512 << 10,
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open balance db at %s: %w", path, err)
	}
	return &Store{db: db, cache: make(map[string]int64), log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Mint(owner common.Address, asset string, amount int64) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(owner, asset, s.load(owner, asset)+amount)
}

func (s *Store) Reserve(owner common.Address, asset string, amount int64) error {
	if amount == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bal := s.load(owner, asset)
	if bal < amount {
		return ErrInsufficientBalance
	}
	s.set(owner, asset, bal-amount)
	return nil
}

func (s *Store) Release(recipient common.Address, asset string, amount int64) {
	if amount == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(recipient, asset, s.load(recipient, asset)+amount)
}

func (s *Store) BalanceOf(owner common.Address, asset string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(owner, asset)
}

func key(owner common.Address, asset string) string {
	return "bal/" + asset + "/" + owner.Hex()
}

// load reads through the cache. Callers hold s.mu.
func (s *Store) load(owner common.Address, asset string) int64 {
	k := key(owner, asset)
	if bal, ok := s.cache[k]; ok {
		return bal
	}
	data, closer, err := s.db.Get([]byte(k))
	if err == pebble.ErrNotFound {
		s.cache[k] = 0
		return 0
	}
	if err != nil {
		s.log.Error("balance_load_failed", zap.String("key", k), zap.Error(err))
		return 0
	}
	defer closer.Close()

	bal := int64(binary.BigEndian.Uint64(data))
	s.cache[k] = bal
	return bal
}

// set writes through to pebble. Callers hold s.mu.
func (s *Store) set(owner common.Address, asset string, bal int64) {
	k := key(owner, asset)
	s.cache[k] = bal

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(bal))
	if err := s.db.Set([]byte(k), buf[:], pebble.Sync); err != nil {
		s.log.Error("balance_persist_failed", zap.String("key", k), zap.Error(err))
	}
}
