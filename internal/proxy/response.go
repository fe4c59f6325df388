package proxy

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in proxy-generated JSON error bodies.
const (
	codeForbidden  = "forbidden"
	codeBadPath    = "bad_path"
	codeBadGateway = "bad_gateway"
	codeInternal   = "internal_error"
)

// ErrorResponse is the body of every error the proxy generates itself.
// Upstream errors are passed through untouched.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
