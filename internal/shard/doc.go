// Package shard partitions Lexis records across several independent
// in-memory stores so concurrent requests for different strings don't
// serialize on one lock.
//
// # Overview
//
// A Shard wraps a storage.Store and counts the operations routed to it. A
// Set holds a fixed number of shards and implements storage.Store itself,
// so the service layer is unaware of partitioning. With a single shard the
// Set behaves exactly like a MemoryStore with counters attached.
//
// # Key Space Partitioning
//
// Records are keyed by their SHA-256 fingerprint. The owning shard is
// chosen by hashing the fingerprint again with xxhash and taking the
// remainder:
//
//	shard = xxhash64(fingerprint) % numShards
//
// The number of shards is fixed for the life of a Set. There is no
// rebalancing; a restart with a different shard count starts empty anyway
// because storage is in memory.
//
// # Concurrency Model
//
// Two levels of locking:
//
// Set lock (RWMutex):
//   - Insert, Get, Delete take it shared
//   - List takes it exclusively
//
// Shard store lock (RWMutex inside MemoryStore):
//   - Guards the individual map
//
// Because List holds the set lock exclusively while it visits every shard,
// no insert or delete can land halfway through, and the merged result is
// a single point-in-time snapshot. Single-key operations never block each
// other unless they hit the same shard.
//
// Lock Ordering:
//   - Always acquire the set lock before a shard's store lock
//   - Shard state has its own lock and is never held while calling the store
//
// # Shard States
//
// Active: serving all operations.
//
// Draining: refusing inserts with ErrShardDraining while reads and deletes
// continue. The serve command drains the set during shutdown so requests
// still in flight don't create records that are about to disappear.
//
// # Statistics
//
// Each shard counts inserts, gets, deletes and lists with atomic counters
// and reports key count and value bytes from its store. Set.Info returns
// the per-shard view used by the /stats endpoint.
//
// # Usage Example
//
//	set := shard.NewSet(4)
//
//	rec, err := set.Insert(record)
//	if errors.Is(err, storage.ErrKeyExists) {
//	    // duplicate
//	}
//
//	for _, info := range set.Info() {
//	    fmt.Printf("shard %d: %d keys\n", info.ID, info.Keys)
//	}
//
// # See Also
//
// Related packages:
//   - internal/storage: Store interface and MemoryStore
//   - internal/monitor: Periodic reporting of these statistics
package shard
