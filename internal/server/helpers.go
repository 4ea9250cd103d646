package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/services/funds"
)

// ErrorResponse is the standard error format for REST API responses.
// The NAV-range fields are populated for date range errors so callers
// can correct the request without a second round trip.
type ErrorResponse struct {
	Error           string `json:"error"`
	EarliestNAVDate string `json:"earliestNAVDate,omitempty"`
	LatestNAVDate   string `json:"latestNAVDate,omitempty"`
	RequestedFrom   string `json:"requestedFrom,omitempty"`
	RequestedTo     string `json:"requestedTo,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps a service error onto its HTTP status and body.
func WriteServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr  *models.ValidationError
		rangeErr       *models.RangeError
		unavailableErr *models.DataUnavailableError
		computeErr     *models.ComputationError
		upstreamErr    *models.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &rangeErr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:           rangeErr.Error(),
			EarliestNAVDate: rangeErr.EarliestNAVDate,
			LatestNAVDate:   rangeErr.LatestNAVDate,
			RequestedFrom:   rangeErr.RequestedFrom,
			RequestedTo:     rangeErr.RequestedTo,
		})
	case errors.As(err, &unavailableErr):
		WriteError(w, http.StatusNotFound, unavailableErr.Error())
	case errors.As(err, &computeErr):
		WriteError(w, http.StatusUnprocessableEntity, computeErr.Error())
	case errors.As(err, &upstreamErr):
		status := http.StatusBadGateway
		if upstreamErr.Timeout {
			status = http.StatusGatewayTimeout
		}
		WriteError(w, status, upstreamErr.Msg)
	case errors.Is(err, funds.ErrSyncInProgress):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// QueryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func QueryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// QueryBool parses a boolean query parameter ("true"/"1").
func QueryBool(r *http.Request, key string) bool {
	v := r.URL.Query().Get(key)
	return strings.EqualFold(v, "true") || v == "1"
}
