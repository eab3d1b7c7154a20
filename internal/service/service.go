// Package service implements the Lexis operations on top of the analyzer,
// store, filter matcher and query translator. It owns the mapping from
// leaf-package sentinel errors to errs kinds.
package service

import (
	"errors"
	"time"

	"github.com/dreamware/lexis/internal/analyzer"
	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/filter"
	"github.com/dreamware/lexis/internal/nlquery"
	"github.com/dreamware/lexis/internal/shard"
	"github.com/dreamware/lexis/internal/storage"
)

// ListResult is the outcome of a structured filter request
type ListResult struct {
	FiltersApplied filter.Set       `json:"filters_applied"`
	Data           []storage.Record `json:"data"`
	Count          int              `json:"count"`
}

// InterpretedQuery echoes a natural-language query and what it became
type InterpretedQuery struct {
	Original      string     `json:"original"`
	ParsedFilters filter.Set `json:"parsed_filters"`
}

// QueryResult is the outcome of a natural-language filter request
type QueryResult struct {
	Data             []storage.Record `json:"data"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
	Count            int              `json:"count"`
}

// Service exposes the string operations.
// It is safe for concurrent use if its store is.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// New creates a service backed by store
func New(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create analyzes raw and stores it.
// raw is trimmed first; duplicates of an existing value fail with KindConflict.
func (s *Service) Create(raw string) (storage.Record, error) {
	const op = "service.Create"

	value, err := canonical(op, raw)
	if err != nil {
		return storage.Record{}, err
	}

	props, err := analyzer.Analyze(value)
	if err != nil {
		return storage.Record{}, errs.E(errs.KindValidation, op, "value must not be empty", err)
	}

	rec, err := s.store.Insert(storage.Record{
		ID:         props.Fingerprint,
		Value:      value,
		Properties: props,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return storage.Record{}, storeError(op, err)
	}
	return rec, nil
}

// Get looks up a record by its string value
func (s *Service) Get(raw string) (storage.Record, error) {
	const op = "service.Get"

	value, err := canonical(op, raw)
	if err != nil {
		return storage.Record{}, err
	}

	rec, err := s.store.Get(analyzer.Fingerprint(value))
	if err != nil {
		return storage.Record{}, storeError(op, err)
	}
	return rec, nil
}

// Delete removes a record by its string value
func (s *Service) Delete(raw string) error {
	const op = "service.Delete"

	value, err := canonical(op, raw)
	if err != nil {
		return err
	}

	if err := s.store.Delete(analyzer.Fingerprint(value)); err != nil {
		return storeError(op, err)
	}
	return nil
}

// List returns every stored record matching set
func (s *Service) List(set filter.Set) ListResult {
	data := filter.Apply(s.store.List(), set)
	return ListResult{
		Data:           data,
		Count:          len(data),
		FiltersApplied: set,
	}
}

// Query translates a natural-language query and filters with the result.
// Unrecognized queries are a validation error; a query whose length bounds
// contradict each other is unprocessable.
func (s *Service) Query(query string) (QueryResult, error) {
	const op = "service.Query"

	if query == "" {
		return QueryResult{}, errs.Validation(op, "query parameter is required")
	}

	set, ok := nlquery.Translate(query)
	if !ok {
		return QueryResult{}, errs.Validation(op, "unable to parse natural language query")
	}
	if set.Conflicting() {
		return QueryResult{}, errs.Unprocessable(op, "query parsed but resulted in conflicting filters")
	}

	data := filter.Apply(s.store.List(), set)
	return QueryResult{
		Data:  data,
		Count: len(data),
		InterpretedQuery: InterpretedQuery{
			Original:      query,
			ParsedFilters: set,
		},
	}, nil
}

// Stats returns store statistics
func (s *Service) Stats() storage.StoreStats {
	return s.store.Stats()
}

func canonical(op, raw string) (string, error) {
	value, err := analyzer.Canonicalize(raw)
	if err != nil {
		return "", errs.E(errs.KindValidation, op, "value must not be empty", err)
	}
	return value, nil
}

func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		return errs.E(errs.KindNotFound, op, "string does not exist in the system", err)
	case errors.Is(err, storage.ErrKeyExists):
		return errs.E(errs.KindConflict, op, "string already exists in the system", err)
	case errors.Is(err, shard.ErrShardDraining):
		return errs.E(errs.KindUnavailable, op, "service is shutting down", err)
	}
	return errs.E(errs.KindInternal, op, "storage failure", err)
}
