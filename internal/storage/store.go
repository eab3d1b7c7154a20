package storage

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dreamware/lexis/internal/analyzer"
)

// ErrKeyNotFound is returned when a fingerprint doesn't exist in the store
var ErrKeyNotFound = errors.New("key not found")

// ErrKeyExists is returned when inserting a fingerprint that is already stored
var ErrKeyExists = errors.New("key already exists")

// Record is a stored string together with its derived properties
type Record struct {
	CreatedAt  time.Time           `json:"created_at"`
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties analyzer.Properties `json:"properties"`
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	r.Properties.CharacterFrequency = maps.Clone(r.Properties.CharacterFrequency)
	return r
}

// Store defines the interface for record storage keyed by fingerprint
// All implementations must be thread-safe for concurrent access
type Store interface {
	// Insert stores a new record
	// Returns ErrKeyExists if the record's ID is already present
	Insert(rec Record) (Record, error)

	// Get retrieves a record by fingerprint
	// Returns ErrKeyNotFound if the fingerprint doesn't exist
	Get(id string) (Record, error)

	// Delete removes a record
	// Returns ErrKeyNotFound if the fingerprint doesn't exist
	Delete(id string) error

	// List returns a point-in-time snapshot of all records
	// ordered by creation time
	List() []Record

	// Stats returns storage statistics
	Stats() StoreStats
}

// StoreStats contains statistics about the store
type StoreStats struct {
	Keys  int `json:"keys"`  // Number of records
	Bytes int `json:"bytes"` // Total size of all values in bytes
}

// MemoryStore implements Store interface with in-memory storage
// Uses sync.RWMutex for thread-safe concurrent access
type MemoryStore struct {
	data  map[string]Record // Fingerprint to record
	order []string          // Fingerprints in insertion order
	bytes int               // Running total of value sizes
	mu    sync.RWMutex      // Protects all fields
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Record),
	}
}

// Insert stores rec if its ID is not already present
// Stores a copy so later changes to rec's map don't leak in
func (m *MemoryStore) Insert(rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, errors.New("record id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[rec.ID]; exists {
		return Record{}, ErrKeyExists
	}

	stored := rec.Clone()
	m.data[rec.ID] = stored
	m.order = append(m.order, rec.ID)
	m.bytes += len(rec.Value)

	return stored.Clone(), nil
}

// Get retrieves a record by fingerprint
// Returns a copy to prevent external modification
func (m *MemoryStore) Get(id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.data[id]
	if !exists {
		return Record{}, ErrKeyNotFound
	}
	return rec.Clone(), nil
}

// Delete removes a record by fingerprint
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.data[id]
	if !exists {
		return ErrKeyNotFound
	}

	delete(m.data, id)
	m.bytes -= len(rec.Value)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

// List returns copies of all records in insertion order
func (m *MemoryStore) List() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		records = append(records, m.data[id].Clone())
	}
	return records
}

// Stats returns storage statistics
func (m *MemoryStore) Stats() StoreStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return StoreStats{
		Keys:  len(m.data),
		Bytes: m.bytes,
	}
}

// SortByCreation orders records oldest first, breaking ties by ID
func SortByCreation(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
