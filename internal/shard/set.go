package shard

import (
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/dreamware/lexis/internal/storage"
)

// ErrShardDraining is returned when inserting into a draining shard
var ErrShardDraining = errors.New("shard is draining")

// Set spreads records over a fixed number of shards.
// It implements storage.Store, so callers don't know whether they hold a
// single MemoryStore or a Set.
//
// Single-key operations take the set lock shared, so they run in parallel
// across shards and only contend on their own shard's lock. List takes the
// set lock exclusively, which freezes every shard at once and yields one
// point-in-time snapshot.
type Set struct {
	shards []*Shard
	mu     sync.RWMutex
}

// NewSet creates a set of n in-memory shards.
// n below 1 is treated as 1.
func NewSet(n int) *Set {
	if n < 1 {
		n = 1
	}
	shards := make([]*Shard, n)
	for i := range shards {
		shards[i] = NewShard(i)
	}
	return &Set{shards: shards}
}

// NumShards returns the number of shards in the set
func (s *Set) NumShards() int {
	return len(s.shards)
}

// ShardFor returns the shard that owns the given fingerprint
func (s *Set) ShardFor(id string) *Shard {
	return s.shards[ShardIndex(id, len(s.shards))]
}

// Shard returns the shard with the given index, or nil if out of range
func (s *Set) Shard(i int) *Shard {
	if i < 0 || i >= len(s.shards) {
		return nil
	}
	return s.shards[i]
}

// Insert stores rec in its owning shard
func (s *Set) Insert(rec storage.Record) (storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShardFor(rec.ID).Insert(rec)
}

// Get retrieves a record from its owning shard
func (s *Set) Get(id string) (storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShardFor(id).Get(id)
}

// Delete removes a record from its owning shard
func (s *Set) Delete(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShardFor(id).Delete(id)
}

// List merges every shard into one snapshot ordered by creation time
func (s *Set) List() []storage.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []storage.Record
	for _, sh := range s.shards {
		records = append(records, sh.List()...)
	}
	storage.SortByCreation(records)
	return records
}

// Stats sums storage statistics over all shards
func (s *Set) Stats() storage.StoreStats {
	var total storage.StoreStats
	for _, sh := range s.shards {
		st := sh.Store.Stats()
		total.Keys += st.Keys
		total.Bytes += st.Bytes
	}
	return total
}

// Drain marks every shard as draining so new inserts are refused.
// Reads and deletes keep working.
func (s *Set) Drain() {
	for _, sh := range s.shards {
		sh.SetState(ShardStateDraining)
	}
}

// Info returns metadata for every shard, ordered by shard ID
func (s *Set) Info() []ShardInfo {
	infos := make([]ShardInfo, 0, len(s.shards))
	for _, sh := range s.shards {
		infos = append(infos, sh.Info())
	}
	return infos
}

// ShardIndex maps a fingerprint to a shard index in [0, numShards)
func ShardIndex(id string, numShards int) int {
	if numShards <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(id) % uint64(numShards))
}

// OwnsKey reports whether this shard owns the fingerprint in a set of numShards
func (s *Shard) OwnsKey(id string, numShards int) bool {
	if numShards <= 0 {
		return false
	}
	return ShardIndex(id, numShards) == s.ID
}
