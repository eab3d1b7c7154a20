package shard

import (
	"sync"
	"sync/atomic"

	"github.com/dreamware/lexis/internal/storage"
)

// ShardState represents the current state of a shard
type ShardState string

const (
	// ShardStateActive means the shard is serving requests
	ShardStateActive ShardState = "active"
	// ShardStateDraining means the shard rejects new inserts
	ShardStateDraining ShardState = "draining"
)

// Shard owns one partition of the fingerprint space and its storage
type Shard struct {
	Store storage.Store // The storage backend for this shard
	Stats *ShardStats   // Operation statistics
	State ShardState    // Current shard state
	ID    int           // Unique shard identifier
	mu    sync.RWMutex  // Protects state changes
}

// ShardStats tracks operational statistics for a shard
type ShardStats struct {
	Storage storage.StoreStats // Storage statistics
	Ops     OperationStats     // Operation counts
}

// OperationStats tracks operation counts
type OperationStats struct {
	Inserts uint64 `json:"inserts"` // Number of insert operations
	Gets    uint64 `json:"gets"`    // Number of get operations
	Deletes uint64 `json:"deletes"` // Number of delete operations
	Lists   uint64 `json:"lists"`   // Number of list operations
}

// ShardInfo contains metadata about a shard
type ShardInfo struct {
	State ShardState     `json:"state"`
	Ops   OperationStats `json:"operations"`
	ID    int            `json:"id"`
	Keys  int            `json:"keys"`
	Bytes int            `json:"bytes"`
}

// NewShard creates a new shard with in-memory storage
func NewShard(id int) *Shard {
	return &Shard{
		ID:    id,
		Store: storage.NewMemoryStore(),
		State: ShardStateActive,
		Stats: &ShardStats{},
	}
}

// Insert stores a record in the shard
// Draining shards refuse inserts with ErrShardDraining. The state lock is
// held across the check and the insert, so once SetState(ShardStateDraining)
// returns no further insert can land.
func (s *Shard) Insert(rec storage.Record) (storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.State == ShardStateDraining {
		return storage.Record{}, ErrShardDraining
	}
	atomic.AddUint64(&s.Stats.Ops.Inserts, 1)
	return s.Store.Insert(rec)
}

// Get retrieves a record from the shard
func (s *Shard) Get(id string) (storage.Record, error) {
	atomic.AddUint64(&s.Stats.Ops.Gets, 1)
	return s.Store.Get(id)
}

// Delete removes a record from the shard
func (s *Shard) Delete(id string) error {
	atomic.AddUint64(&s.Stats.Ops.Deletes, 1)
	return s.Store.Delete(id)
}

// List returns all records in the shard
func (s *Shard) List() []storage.Record {
	atomic.AddUint64(&s.Stats.Ops.Lists, 1)
	return s.Store.List()
}

// GetStats returns current shard statistics
func (s *Shard) GetStats() ShardStats {
	return ShardStats{
		Ops: OperationStats{
			Inserts: atomic.LoadUint64(&s.Stats.Ops.Inserts),
			Gets:    atomic.LoadUint64(&s.Stats.Ops.Gets),
			Deletes: atomic.LoadUint64(&s.Stats.Ops.Deletes),
			Lists:   atomic.LoadUint64(&s.Stats.Ops.Lists),
		},
		Storage: s.Store.Stats(),
	}
}

// Info returns metadata about the shard
func (s *Shard) Info() ShardInfo {
	stats := s.GetStats()
	return ShardInfo{
		ID:    s.ID,
		State: s.GetState(),
		Keys:  stats.Storage.Keys,
		Bytes: stats.Storage.Bytes,
		Ops:   stats.Ops,
	}
}

// GetState returns the shard state
func (s *Shard) GetState() ShardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// SetState updates the shard state
func (s *Shard) SetState(state ShardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
}
