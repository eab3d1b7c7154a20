// Package storage defines the record storage interface for Lexis and the
// in-memory implementation behind it.
//
// # Overview
//
// Every submitted string is kept as a Record keyed by its SHA-256
// fingerprint. The store is insert-if-absent: there is no update path, so a
// record is immutable from the moment it lands until it is deleted.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│       Service (internal/service)    │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│          storage.Store              │
//	└─────────────────────────────────────┘
//	         │                   │
//	         ▼                   ▼
//	┌────────────────┐  ┌────────────────┐
//	│  MemoryStore   │  │   shard.Set    │
//	│  (one lock)    │  │ (N MemoryStore)│
//	└────────────────┘  └────────────────┘
//
// # Core Interface
//
// Store:
//   - Insert(rec) - Add a record, ErrKeyExists on duplicate fingerprint
//   - Get(id) - Retrieve by fingerprint, ErrKeyNotFound if missing
//   - Delete(id) - Remove by fingerprint, ErrKeyNotFound if missing
//   - List() - Snapshot of all records, oldest first
//   - Stats() - Record count and total value bytes
//
// # Concurrency and Thread Safety
//
// MemoryStore guards its map with a sync.RWMutex:
//   - Get, List and Stats take the shared lock
//   - Insert and Delete take the exclusive lock
//   - The existence check and the write in Insert happen under one lock,
//     so two concurrent inserts of the same value cannot both succeed
//   - List copies every record while holding the lock, giving a single
//     point-in-time view
//
// # Copy Semantics
//
// Records carry a character-frequency map. The store clones records on the
// way in and on the way out, so callers can never mutate stored state
// through a returned value.
//
// # Error Handling
//
// ErrKeyNotFound: fingerprint isn't stored
//   - Returned by Get() and Delete()
//   - Deleting twice yields ErrKeyNotFound the second time
//
// ErrKeyExists: fingerprint already stored
//   - Returned by Insert()
//   - The existing record is left untouched
//
// # Usage Examples
//
//	store := storage.NewMemoryStore()
//
//	rec, err := store.Insert(storage.Record{ID: id, Value: v, Properties: p, CreatedAt: now})
//	if errors.Is(err, storage.ErrKeyExists) {
//	    log.Println("already stored")
//	}
//
//	for _, rec := range store.List() {
//	    fmt.Printf("%s: %s\n", rec.ID, rec.Value)
//	}
//
// # See Also
//
// Related packages:
//   - internal/shard: Spreads records over several stores
//   - internal/analyzer: Produces the Properties stored on each record
package storage
