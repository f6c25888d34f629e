package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// property is a trimmed-down google_hotels result entry.
type property struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	CheckInTime   string  `json:"check_in_time,omitempty"`
	CheckOutTime  string  `json:"check_out_time,omitempty"`
	RatePerNight  rate    `json:"rate_per_night"`
	OverallRating float64 `json:"overall_rating"`
	Reviews       int     `json:"reviews"`
	HotelClass    string  `json:"hotel_class,omitempty"`
}

type rate struct {
	Lowest             string  `json:"lowest"`
	ExtractedLowest    float64 `json:"extracted_lowest"`
	BeforeTaxesAndFees string  `json:"before_taxes_and_fees,omitempty"`
}

type searchMetadata struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type searchParameters struct {
	Engine       string `json:"engine"`
	Q            string `json:"q"`
	Currency     string `json:"currency"`
	HL           string `json:"hl"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
}

type searchResponse struct {
	SearchMetadata   searchMetadata   `json:"search_metadata"`
	SearchParameters searchParameters `json:"search_parameters"`
	HotelsResults    []property       `json:"hotels_results"`
}

// MockEngine imitates the /search.json endpoint for engine=google_hotels.
type MockEngine struct {
	apiKey      string
	failureRate float64
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockEngine creates a MockEngine. An empty apiKey accepts any non-empty key.
func NewMockEngine(apiKey string, failureRate float64, logger *slog.Logger) *MockEngine {
	return &MockEngine{
		apiKey:      apiKey,
		failureRate: failureRate,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ServeHTTP handles HTTP requests for the mock engine.
func (e *MockEngine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	key := query.Get("api_key")
	if key == "" || (e.apiKey != "" && key != e.apiKey) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid API key."}, e.logger)
		return
	}
	if query.Get("engine") != "google_hotels" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unsupported `engine` parameter."}, e.logger)
		return
	}
	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing query `q` parameter."}, e.logger)
		return
	}

	if e.fail() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Service temporarily unavailable."}, e.logger)
		return
	}

	currency := query.Get("currency")
	if currency == "" {
		currency = "USD"
	}

	resp := searchResponse{
		SearchMetadata: searchMetadata{
			ID:        uuid.NewString(),
			Status:    "Success",
			CreatedAt: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		},
		SearchParameters: searchParameters{
			Engine:       "google_hotels",
			Q:            q,
			Currency:     currency,
			HL:           query.Get("hl"),
			CheckInDate:  query.Get("check_in_date"),
			CheckOutDate: query.Get("check_out_date"),
		},
		HotelsResults: e.generateProperties(q, currency),
	}

	writeJSON(w, http.StatusOK, resp, e.logger)
}

func (e *MockEngine) fail() bool {
	if e.failureRate <= 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() < e.failureRate
}

func (e *MockEngine) generateProperties(q, currency string) []property {
	names := []string{"Grand Hotel", "City Center Inn", "Budget Stay", "Luxury Palace"}
	classes := []string{"4-star hotel", "3-star hotel", "2-star hotel", "5-star hotel"}
	bounds := [][2]float64{{100, 200}, {80, 150}, {50, 100}, {200, 400}}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]property, 0, len(names))
	for i, name := range names {
		price := e.randomPrice(bounds[i][0], bounds[i][1])
		out = append(out, property{
			Type:          "hotel",
			Name:          name,
			Description:   name + " near " + q,
			CheckInTime:   "3:00 PM",
			CheckOutTime:  "11:00 AM",
			RatePerNight:  rate{Lowest: formatPrice(currency, price), ExtractedLowest: price},
			OverallRating: float64(30+e.rng.Intn(20)) / 10,
			Reviews:       e.rng.Intn(5000),
			HotelClass:    classes[i],
		})
	}
	return out
}

func (e *MockEngine) randomPrice(min, max float64) float64 {
	price := min + e.rng.Float64()*(max-min)
	return float64(int(price))
}

func formatPrice(currency string, price float64) string {
	b, _ := json.Marshal(price)
	return currency + " " + string(b)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
