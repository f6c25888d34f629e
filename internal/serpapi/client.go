package serpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	engine = "google_hotels"
	locale = "en"

	// maxErrorBody caps how much of a failed response is kept for logs.
	maxErrorBody = 512
)

var emptyResults = json.RawMessage("[]")

// Observer receives the outcome of every upstream call.
type Observer interface {
	ObserveUpstream(outcome string, duration time.Duration)
}

// Client queries the SerpApi Google Hotels engine.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// NewClient creates a new Client. A zero timeout leaves the transport defaults in place.
func NewClient(baseURL, apiKey string, timeout time.Duration, observer Observer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		observer: observer,
		logger:   logger,
	}
}

// SearchURL builds the outbound request URL for req.
func (c *Client) SearchURL(req SearchRequest) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	q := u.Query()
	q.Set("engine", engine)
	q.Set("q", req.Query)
	q.Set("currency", currency)
	q.Set("api_key", c.apiKey)
	q.Set("hl", locale)
	if req.CheckInDate != "" {
		q.Set("check_in_date", req.CheckInDate)
	}
	if req.CheckOutDate != "" {
		q.Set("check_out_date", req.CheckOutDate)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// SearchHotels performs a single GET against the search engine and returns
// the hotels_results field, or an empty list when the field is missing.
func (c *Client) SearchHotels(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	start := time.Now()
	results, err := c.search(ctx, req)
	c.observe(err, time.Since(start))
	return results, err
}

func (c *Client) search(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	searchURL, err := c.SearchURL(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &FetchError{Err: redact(err)}
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := string(bytes.TrimSpace(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(msg),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("upstream response received",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return extractHotels(body)
}

// extractHotels pulls hotels_results out of a search response body.
// Bodies that are valid JSON but not an object, and falsy hotels_results
// values, yield an empty list. A null body has no fields to read and is
// reported as a ParseError.
func extractHotels(body []byte) (json.RawMessage, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		if doc == nil {
			return nil, &ParseError{Err: errors.New("response body is null")}
		}
		return emptyResults, nil
	}

	results, ok := obj["hotels_results"]
	if !ok || isFalsy(results) {
		return emptyResults, nil
	}

	// Re-read the raw field so the value is relayed byte for byte.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	return raw["hotels_results"], nil
}

// isFalsy reports whether a decoded JSON value is null, false, zero or "".
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	default:
		return false
	}
}

func (c *Client) observe(err error, duration time.Duration) {
	if c.observer == nil {
		return
	}

	outcome := "success"
	var fetchErr *FetchError
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		outcome = "parse_error"
	case errors.As(err, &fetchErr) && fetchErr.StatusCode != 0:
		outcome = "bad_status"
	case err != nil:
		outcome = "transport_error"
	}
	c.observer.ObserveUpstream(outcome, duration)
}

// redact drops the request URL from transport errors so the API key never
// reaches the logs.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
