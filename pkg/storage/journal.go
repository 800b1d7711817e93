// Package storage provides the durable event journal: an append-only pebble
// log of every record the engine emits, replayable in emission order.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/helixdex/helix/pkg/events"
)

var journalPrefix = []byte("evt/")

// Journal is a pebble-backed events.Sink. Records are keyed by a strictly
// increasing sequence number so iteration order equals emission order.
type Journal struct {
	mu  sync.Mutex
	db  *pebble.DB
	seq uint64
	log *zap.Logger
}

// OpenJournal opens (or creates) the journal at path and resumes the
// sequence counter from the last written record.
func OpenJournal(path string, log *zap.Logger) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{
		Cache:        pebble.NewCache(32 << 20),
		MemTableSize: 16 << 20,
		BytesPerSync: 512 << 10,
	})
	if err != nil {
		return nil, fmt.Errorf("open journal at %s: %w", path, err)
	}

	j := &Journal{db: db, log: log}
	if err := j.recoverSeq(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) recoverSeq() error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: journalPrefix,
		UpperBound: []byte("evt0"), // '0' is the byte after '/'
	})
	if err != nil {
		return fmt.Errorf("journal iter: %w", err)
	}
	defer iter.Close()

	if iter.Last() && iter.Valid() {
		key := iter.Key()
		j.seq = binary.BigEndian.Uint64(key[len(journalPrefix):])
	}
	return nil
}

func (j *Journal) key(seq uint64) []byte {
	k := make([]byte, len(journalPrefix)+8)
	copy(k, journalPrefix)
	binary.BigEndian.PutUint64(k[len(journalPrefix):], seq)
	return k
}

// Emit appends one event. Journal failures are logged, not surfaced: the
// in-memory engine state is authoritative and a sink must not fail matching.
func (j *Journal) Emit(e events.Event) {
	env, err := events.NewEnvelope(e)
	if err != nil {
		j.log.Error("journal_marshal_failed", zap.Error(err))
		return
	}
	value, _ := json.Marshal(env)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	if err := j.db.Set(j.key(j.seq), value, pebble.Sync); err != nil {
		j.log.Error("journal_append_failed", zap.Uint64("seq", j.seq), zap.Error(err))
	}
}

// Replay calls fn for every journaled record in emission order. A non-nil
// return from fn stops the replay and is passed through.
func (j *Journal) Replay(fn func(seq uint64, env events.Envelope) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: journalPrefix,
		UpperBound: []byte("evt0"),
	})
	if err != nil {
		return fmt.Errorf("journal iter: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq := binary.BigEndian.Uint64(iter.Key()[len(journalPrefix):])
		var env events.Envelope
		if err := json.Unmarshal(iter.Value(), &env); err != nil {
			return fmt.Errorf("journal record %d: %w", seq, err)
		}
		if err := fn(seq, env); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Seq returns the sequence number of the last appended record.
func (j *Journal) Seq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}

func (j *Journal) Close() error { return j.db.Close() }
