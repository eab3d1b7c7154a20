package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/dreamware/lexis/internal/client"
	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/filter"
	"github.com/dreamware/lexis/internal/storage"
)

// TestSystem is a lexis server process under test
type TestSystem struct {
	t          *testing.T
	server     *exec.Cmd
	exited     chan error
	addr       string
	client     *client.Client
	httpClient *http.Client
}

// NewTestSystem creates a test system that will listen on a high port
func NewTestSystem(t *testing.T) *TestSystem {
	addr := "http://127.0.0.1:18090"
	return &TestSystem{
		t:      t,
		addr:   addr,
		client: client.New(addr),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Start builds the lexis binary and launches it with four shards
func (ts *TestSystem) Start() error {
	bin := filepath.Join(ts.t.TempDir(), "lexis")
	build := exec.Command("go", "build", "-o", bin, "./cmd/lexis")
	build.Dir = filepath.Join("..", "..")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("failed to build lexis: %w", err)
	}

	ts.server = exec.Command(bin, "serve", "--config", "", "--shards", "4")
	ts.server.Env = append(os.Environ(),
		"LEXIS_LISTEN=127.0.0.1:18090",
		"LEXIS_STATS_INTERVAL=1",
	)
	ts.server.Stdout = os.Stdout
	ts.server.Stderr = os.Stderr
	if err := ts.server.Start(); err != nil {
		return fmt.Errorf("failed to start lexis: %w", err)
	}
	ts.exited = make(chan error, 1)
	go func() { ts.exited <- ts.server.Wait() }()

	return ts.waitForService(ts.addr + "/health")
}

// Stop sends SIGTERM and waits for a clean exit, killing the process if it
// takes too long
func (ts *TestSystem) Stop() error {
	if ts.server == nil || ts.server.Process == nil {
		return nil
	}
	if err := ts.server.Process.Signal(syscall.SIGTERM); err != nil {
		return err
	}
	select {
	case err := <-ts.exited:
		return err
	case <-time.After(10 * time.Second):
		ts.server.Process.Kill()
		return fmt.Errorf("lexis did not exit after SIGTERM")
	}
}

// waitForService waits for an HTTP service to become available
func (ts *TestSystem) waitForService(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s", url)
		case err := <-ts.exited:
			return fmt.Errorf("lexis exited early: %v", err)
		default:
			resp, err := ts.httpClient.Get(url)
			if err == nil && resp.StatusCode == http.StatusOK {
				resp.Body.Close()
				return nil
			}
			if resp != nil {
				resp.Body.Close()
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// post sends a raw JSON body to /strings and returns the status code
func (ts *TestSystem) post(body string) (int, error) {
	resp, err := ts.httpClient.Post(ts.addr+"/strings", "application/json", strings.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// TestLexisServer runs end-to-end scenarios against a real lexis process
func TestLexisServer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("Skipping integration test: go toolchain not found")
	}

	ts := NewTestSystem(t)
	if err := ts.Start(); err != nil {
		t.Fatalf("Failed to start test system: %v", err)
	}

	t.Run("CreateAndRetrieve", func(t *testing.T) {
		testCreateAndRetrieve(t, ts)
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		testDuplicateRejected(t, ts)
	})

	t.Run("InvalidBodies", func(t *testing.T) {
		testInvalidBodies(t, ts)
	})

	t.Run("StructuredFilters", func(t *testing.T) {
		testStructuredFilters(t, ts)
	})

	t.Run("NaturalLanguage", func(t *testing.T) {
		testNaturalLanguage(t, ts)
	})

	t.Run("DeleteValue", func(t *testing.T) {
		testDeleteValue(t, ts)
	})

	t.Run("ConcurrentCreates", func(t *testing.T) {
		testConcurrentCreates(t, ts)
	})

	t.Run("ShardVisibility", func(t *testing.T) {
		testShardVisibility(t, ts)
	})

	if err := ts.Stop(); err != nil {
		t.Errorf("lexis did not shut down cleanly: %v", err)
	}
}

// testCreateAndRetrieve stores a palindrome and reads it back
func testCreateAndRetrieve(t *testing.T, ts *TestSystem) {
	ctx := context.Background()

	rec, err := ts.client.Create(ctx, "Racecar")
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	if !rec.Properties.IsPalindrome {
		t.Errorf("Expected Racecar to be a palindrome")
	}
	if rec.Properties.Length != 7 || rec.Properties.WordCount != 1 {
		t.Errorf("Expected length 7 and 1 word, got %d and %d", rec.Properties.Length, rec.Properties.WordCount)
	}
	if rec.ID != rec.Properties.Fingerprint {
		t.Errorf("Expected id %q to equal sha256_hash %q", rec.ID, rec.Properties.Fingerprint)
	}

	got, err := ts.client.Get(ctx, "Racecar")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.ID != rec.ID || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Expected the stored record back, got %+v", got)
	}
}

// testDuplicateRejected verifies a second create of the same value conflicts
func testDuplicateRejected(t *testing.T, ts *TestSystem) {
	ctx := context.Background()
	if _, err := ts.client.Create(ctx, "twice over"); err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	_, err := ts.client.Create(ctx, "  twice over  ")
	if errs.KindOf(err) != errs.KindConflict {
		t.Errorf("Expected conflict for surrounding whitespace duplicate, got %v", err)
	}
}

// testInvalidBodies checks the status codes for malformed create requests
func testInvalidBodies(t *testing.T, ts *TestSystem) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"value":`, http.StatusBadRequest},
		{"missing value", `{}`, http.StatusUnprocessableEntity},
		{"number value", `{"value": 12}`, http.StatusUnprocessableEntity},
		{"null value", `{"value": null}`, http.StatusUnprocessableEntity},
		{"blank value", `{"value": "   "}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		status, err := ts.post(tt.body)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tt.name, err)
		}
		if status != tt.want {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.want, status)
		}
	}
}

// testStructuredFilters lists with combined filters
func testStructuredFilters(t *testing.T, ts *TestSystem) {
	ctx := context.Background()

	res, err := ts.client.List(ctx, filter.Set{MinLength: filter.Int(5), MaxLength: filter.Int(10)})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if !containsValue(res.Data, "Racecar") {
		t.Errorf("Expected Racecar within length 5..10")
	}

	res, err = ts.client.List(ctx, filter.Set{IsPalindrome: filter.Bool(false)})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if containsValue(res.Data, "Racecar") {
		t.Errorf("Did not expect Racecar among non-palindromes")
	}
	if res.Count != len(res.Data) {
		t.Errorf("Count %d does not match %d records", res.Count, len(res.Data))
	}
}

// testNaturalLanguage runs English queries through the translator
func testNaturalLanguage(t *testing.T, ts *TestSystem) {
	ctx := context.Background()

	res, err := ts.client.Query(ctx, "all single word palindromic strings")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if !containsValue(res.Data, "Racecar") {
		t.Errorf("Expected Racecar in single word palindromes")
	}
	if wc := res.InterpretedQuery.ParsedFilters.WordCount; wc == nil || *wc != 1 {
		t.Errorf("Expected parsed word_count 1, got %v", wc)
	}

	_, err = ts.client.Query(ctx, "strings that sound nice")
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected unparseable query to be rejected, got %v", err)
	}

	_, err = ts.client.Query(ctx, "strings longer than 10 characters shorter than 5 characters")
	if errs.KindOf(err) != errs.KindUnprocessable {
		t.Errorf("Expected conflicting query to be unprocessable, got %v", err)
	}
}

// testDeleteValue removes a value and checks it is gone
func testDeleteValue(t *testing.T, ts *TestSystem) {
	ctx := context.Background()
	if _, err := ts.client.Create(ctx, "short lived"); err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	if err := ts.client.Delete(ctx, "short lived"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := ts.client.Get(ctx, "short lived"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if err := ts.client.Delete(ctx, "short lived"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected second delete to be not found, got %v", err)
	}
}

// testConcurrentCreates races many creates of one value; exactly one wins
func testConcurrentCreates(t *testing.T, ts *TestSystem) {
	const workers = 20
	var wg sync.WaitGroup
	statuses := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := ts.post(`{"value":"contended value"}`)
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			statuses <- status
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts := 0, 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("Unexpected status %d", status)
		}
	}
	if created != 1 || conflicts != workers-1 {
		t.Errorf("Expected 1 created and %d conflicts, got %d and %d", workers-1, created, conflicts)
	}
}

// testShardVisibility checks /stats reports all shards and the key total
func testShardVisibility(t *testing.T, ts *TestSystem) {
	stats, err := ts.client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if len(stats.Shards) != 4 {
		t.Errorf("Expected 4 shards, got %d", len(stats.Shards))
	}
	sum := 0
	for _, sh := range stats.Shards {
		sum += sh.Keys
	}
	if sum != stats.Keys {
		t.Errorf("Shard keys sum %d does not match total %d", sum, stats.Keys)
	}
	list, err := ts.client.List(context.Background(), filter.Set{})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if list.Count != stats.Keys {
		t.Errorf("List count %d does not match stats keys %d", list.Count, stats.Keys)
	}
}

func containsValue(records []storage.Record, value string) bool {
	for _, r := range records {
		if r.Value == value {
			return true
		}
	}
	return false
}
