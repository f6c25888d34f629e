package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEngine(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		apiKey      string
		failureRate float64
		query       string
		wantStatus  int
		wantHotels  int
	}{
		{
			name:       "success",
			query:      "engine=google_hotels&q=paris&api_key=k&currency=EUR&hl=en",
			wantStatus: http.StatusOK,
			wantHotels: 4,
		},
		{
			name:       "missing api key",
			query:      "engine=google_hotels&q=paris",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong api key",
			apiKey:     "expected",
			query:      "engine=google_hotels&q=paris&api_key=other",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong engine",
			query:      "engine=google&q=paris&api_key=k",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing q",
			query:      "engine=google_hotels&api_key=k",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "always failing",
			failureRate: 1,
			query:       "engine=google_hotels&q=paris&api_key=k",
			wantStatus:  http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewMockEngine(tt.apiKey, tt.failureRate, logger)

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search.json?"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp searchResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "Success", resp.SearchMetadata.Status)
			assert.Equal(t, "paris", resp.SearchParameters.Q)
			assert.Equal(t, "EUR", resp.SearchParameters.Currency)
			assert.Len(t, resp.HotelsResults, tt.wantHotels)
			for _, p := range resp.HotelsResults {
				assert.NotEmpty(t, p.Name)
				assert.Positive(t, p.RatePerNight.ExtractedLowest)
			}
		})
	}
}
