// Package httpapi exposes the product routes of the storefront over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// jsonError is the error body every route uses.
type jsonError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg, detail string) {
	writeJSON(w, code, jsonError{Message: msg, Error: detail})
}
