package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/filter"
	"github.com/dreamware/lexis/internal/httpapi"
	"github.com/dreamware/lexis/internal/service"
	"github.com/dreamware/lexis/internal/storage"
)

// Client talks to a Lexis server
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080"
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Create submits value for analysis and storage
func (c *Client) Create(ctx context.Context, value string) (storage.Record, error) {
	var rec storage.Record
	err := c.postJSON(ctx, "/strings", map[string]string{"value": value}, &rec)
	return rec, err
}

// Get fetches the record for value
func (c *Client) Get(ctx context.Context, value string) (storage.Record, error) {
	var rec storage.Record
	err := c.getJSON(ctx, "/strings/"+url.PathEscape(value), &rec)
	return rec, err
}

// Delete removes the record for value
func (c *Client) Delete(ctx context.Context, value string) error {
	return c.do(ctx, http.MethodDelete, "/strings/"+url.PathEscape(value), nil, nil)
}

// List fetches all records matching set
func (c *Client) List(ctx context.Context, set filter.Set) (service.ListResult, error) {
	var res service.ListResult
	path := "/strings"
	if q := Encode(set); q != "" {
		path += "?" + q
	}
	err := c.getJSON(ctx, path, &res)
	return res, err
}

// Query filters records with a natural-language query
func (c *Client) Query(ctx context.Context, query string) (service.QueryResult, error) {
	var res service.QueryResult
	err := c.getJSON(ctx, "/strings/filter-by-natural-language?query="+url.QueryEscape(query), &res)
	return res, err
}

// Stats fetches store and shard statistics
func (c *Client) Stats(ctx context.Context) (httpapi.StatsResponse, error) {
	var res httpapi.StatsResponse
	err := c.getJSON(ctx, "/stats", &res)
	return res, err
}

// Health returns nil if the server answers its liveness probe
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Encode renders set as query parameters understood by filter.Parse
func Encode(set filter.Set) string {
	q := url.Values{}
	if set.IsPalindrome != nil {
		q.Set(filter.ParamIsPalindrome, strconv.FormatBool(*set.IsPalindrome))
	}
	if set.MinLength != nil {
		q.Set(filter.ParamMinLength, strconv.Itoa(*set.MinLength))
	}
	if set.MaxLength != nil {
		q.Set(filter.ParamMaxLength, strconv.Itoa(*set.MaxLength))
	}
	if set.WordCount != nil {
		q.Set(filter.ParamWordCount, strconv.Itoa(*set.WordCount))
	}
	if set.ContainsCharacter != nil {
		q.Set(filter.ParamContainsCharacter, *set.ContainsCharacter)
	}
	return q.Encode()
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, reqBody, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do sends one request and decodes a JSON response into out if non-nil.
// Error responses come back as *errs.Error with the kind the status maps to.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := fmt.Sprintf("http %s %s: %d", method, path, resp.StatusCode)
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			msg = e.Error
		}
		return errs.E(errs.FromStatus(resp.StatusCode), "client."+strings.ToLower(method), msg, nil)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
