package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultCurrency is sent when the caller does not pick one.
const DefaultCurrency = "INR"

// SearchRequest holds the parameters forwarded to the hotel search engine.
type SearchRequest struct {
	Query        string
	Currency     string
	CheckInDate  string
	CheckOutDate string
}

// Searcher defines the interface for hotel search backends.
type Searcher interface {
	// SearchHotels returns the hotels_results value of a search.
	SearchHotels(ctx context.Context, req SearchRequest) (json.RawMessage, error)
}

// FetchError is returned when the upstream call fails or answers with a
// non-success status. StatusCode is zero for transport failures.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the upstream body is not a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse upstream response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
