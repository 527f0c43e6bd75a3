// Package httputil writes JSON responses and maps domain error codes to
// HTTP statuses in one place so handlers stay small.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError maps a domain error to an HTTP response. Internal errors omit
// the description so store and gateway details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.Description = dErrors.DescriptionOf(err)
	}

	WriteJSON(w, statusFor(code), body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeDispatchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
