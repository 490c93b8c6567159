package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/predictfund/predictfund/internal/domain"
)

// errorResponse is the body for every non-2xx response. Field is only set for
// validation failures that name a specific input field.
type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500 body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"message":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeValidationError sends a 400 naming the offending field when known.
func writeValidationError(w http.ResponseWriter, ve *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: ve.Message,
		Field:   ve.Field,
	})
}

// writeInternalError sends the generic 500 body. Details stay in the logs.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// pathID extracts a numeric path parameter using Go 1.22+ built-in routing
// (http.Request.PathValue). The second return is false when the value is not
// a valid integer id; the caller should respond 400.
func pathID(r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
