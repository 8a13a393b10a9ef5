// Package shared centralizes JSON response and domain-error translation
// so every handler emits the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "muster/pkg/domain-errors"
)

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON error envelope. Details carries structured
// payloads such as the conflicting entries on a 409.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError translates a domain error into the HTTP envelope. Unknown
// errors collapse to a bare internal code so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorDetails(w, err, nil)
}

// WriteErrorDetails is WriteError with an attached details payload.
func WriteErrorDetails(w http.ResponseWriter, err error, details any) {
	code := dErrors.CodeOf(err)
	body := ErrorBody{Error: string(code), Details: details}
	if code != dErrors.CodeInternal {
		body.Message = err.Error()
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
