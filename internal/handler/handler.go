package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alex-user-go/hotelgateway/internal/middleware"
	"github.com/alex-user-go/hotelgateway/internal/serpapi"
)

// Error messages returned to callers. Upstream detail is only logged.
const (
	MsgMissingQuery = "Required parameter: q (search query)"
	MsgFetchFailed  = "Failed to fetch hotels"
)

// ErrMissingQuery is returned when the q parameter is absent or empty.
var ErrMissingQuery = errors.New(MsgMissingQuery)

// Handler handles HTTP requests.
type Handler struct {
	searcher serpapi.Searcher
	logger   *slog.Logger
}

// New creates a new Handler.
func New(searcher serpapi.Searcher, logger *slog.Logger) *Handler {
	return &Handler{
		searcher: searcher,
		logger:   logger,
	}
}

// HotelsHandler handles /hotels requests.
func (h *Handler) HotelsHandler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	req, err := ParseSearchRequest(r)
	if err != nil {
		h.logger.Warn("invalid request parameters",
			"request_id", requestID,
			"error", err,
			"remote_addr", r.RemoteAddr,
		)
		WriteError(w, http.StatusBadRequest, MsgMissingQuery)
		return
	}

	hotels, err := h.searcher.SearchHotels(r.Context(), req)
	if err != nil {
		h.logger.Error("error fetching hotels",
			"request_id", requestID,
			"error", err,
			"q", req.Query,
			"currency", req.Currency,
			"check_in_date", req.CheckInDate,
			"check_out_date", req.CheckOutDate,
		)
		WriteError(w, http.StatusInternalServerError, MsgFetchFailed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(hotels); err != nil {
		// Can't change status after WriteHeader, just log
		h.logger.Error("failed to write response", "request_id", requestID, "error", err)
	}
}

// ParseSearchRequest extracts search parameters from the request.
// Only q is required; currency falls back to INR.
func ParseSearchRequest(r *http.Request) (serpapi.SearchRequest, error) {
	query := r.URL.Query()

	q := query.Get("q")
	if q == "" {
		return serpapi.SearchRequest{}, ErrMissingQuery
	}

	currency := query.Get("currency")
	if currency == "" {
		currency = serpapi.DefaultCurrency
	}

	return serpapi.SearchRequest{
		Query:        q,
		Currency:     currency,
		CheckInDate:  query.Get("check_in_date"),
		CheckOutDate: query.Get("check_out_date"),
	}, nil
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
