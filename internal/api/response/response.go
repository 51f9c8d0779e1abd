// Package response holds the JSON response helpers shared by every handler.
// Error bodies always carry a human-readable msg field; internal detail is
// attached only outside production.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Error is the JSON shape of every non-2xx response.
type Error struct {
	Msg     string `json:"msg"`
	Details string `json:"details,omitempty"`
}

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a plain error body with just a msg field.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Error{Msg: msg})
}

// WriteInternalError writes a generic 500. The underlying error text is
// included only when detailed is true (non-production).
func WriteInternalError(w http.ResponseWriter, err error, detailed bool) {
	body := Error{Msg: "internal server error"}
	if detailed && err != nil {
		body.Details = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}

// WriteValidationError maps validator failures to a 400 with the offending
// fields named.
func WriteValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	msg := "invalid request"
	if len(errs) > 0 {
		msg = "missing or invalid field: " + errs[0].Field()
	}
	WriteError(w, http.StatusBadRequest, msg)
}
