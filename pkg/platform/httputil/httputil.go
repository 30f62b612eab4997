// Package httputil centralizes JSON response writing and domain fault
// translation so every handler produces the same error envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"zkdrop/pkg/faults"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain fault into the standard error envelope.
// Internal errors omit the description so infrastructure details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := faults.CodeOf(err)
	status := faults.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if code != faults.CodeInternal {
		var f *faults.Fault
		if errors.As(err, &f) && f.Message != "" {
			body["error_description"] = f.Message
		}
	}
	WriteJSON(w, status, body)
}

// Decode reads a JSON request body into T, writing a bad_request envelope and
// returning ok=false when decoding fails.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		}
		WriteError(w, faults.New(faults.CodeBadRequest, "malformed JSON body"))
		return req, false
	}
	return req, true
}
