// Package httpapi exposes the Lexis service over HTTP/JSON.
//
// Routes:
//
//	POST   /strings                               - analyze and store a string
//	GET    /strings                               - list with structured filters
//	GET    /strings/filter-by-natural-language    - list with an English query
//	GET    /strings/{value}                       - fetch one string
//	DELETE /strings/{value}                       - delete one string
//	GET    /stats                                 - store and shard statistics
//	GET    /health                                - liveness probe
//
// Errors are JSON objects of the form {"error": "..."} with the status code
// chosen by errs.HTTPStatus.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/filter"
	"github.com/dreamware/lexis/internal/service"
	"github.com/dreamware/lexis/internal/shard"
	"github.com/dreamware/lexis/internal/storage"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured
const DefaultMaxBodyBytes = 1 << 20

// StatsResponse is the body of GET /stats
type StatsResponse struct {
	Shards []shard.ShardInfo `json:"shards"`
	storage.StoreStats
}

// Server holds the dependencies shared by all handlers
type Server struct {
	svc          *service.Service
	shards       *shard.Set
	maxBodyBytes int64
}

// New creates a server. shards may be nil, in which case /stats reports
// totals only.
func New(svc *service.Service, shards *shard.Set, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{svc: svc, shards: shards, maxBodyBytes: maxBodyBytes}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /strings", s.handleCreate)
	mux.HandleFunc("GET /strings", s.handleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", s.handleNaturalLanguage)
	mux.HandleFunc("GET /strings/{value}", s.handleGet)
	mux.HandleFunc("DELETE /strings/{value}", s.handleDelete)
	// A bare trailing slash has no value to look up
	missingValue := func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errs.Validation("httpapi", "string value is required"))
	}
	mux.HandleFunc("GET /strings/{$}", missingValue)
	mux.HandleFunc("DELETE /strings/{$}", missingValue)

	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return withRequestLog(mux)
}

// createRequest is decoded field by field so a missing value and a value of
// the wrong type can be told apart
type createRequest map[string]json.RawMessage

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req createRequest
	if err := decodeSingle(r.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, errs.E(errs.KindValidation, "httpapi.create", "request body too large", err))
			return
		}
		writeError(w, errs.E(errs.KindValidation, "httpapi.create", "invalid request body", err))
		return
	}

	raw, ok := req["value"]
	if !ok {
		writeError(w, errs.Unprocessable("httpapi.create", `missing "value" field`))
		return
	}

	var value string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &value) != nil {
		writeError(w, errs.Unprocessable("httpapi.create", `invalid data type for "value" (must be string)`))
		return
	}

	rec, err := s.svc.Create(value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// decodeSingle decodes exactly one JSON value from r into v.
// Anything but whitespace after that value is an error.
func decodeSingle(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return err
	}
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Get(r.PathValue("value"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.PathValue("value")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	set, err := filter.Parse(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.List(set))
}

func (s *Server) handleNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Query(r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := StatsResponse{StoreStats: s.svc.Stats(), Shards: []shard.ShardInfo{}}
	if s.shards != nil {
		resp.Shards = s.shards.Info()
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindInternal {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, errs.HTTPStatus(kind), errorResponse{Error: errs.Message(err)})
}
