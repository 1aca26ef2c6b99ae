// Package httputil translates domain errors into HTTP responses with a
// stable { "error", "error_description" } envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "idp-gateway/pkg/domain-errors"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// statusFor maps domain error codes onto HTTP status lines. Codes outside
// the known set default to 400: they are backend verification codes passed
// through verbatim and always describe a rejected request.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeValidation, dErrors.CodeBadRequest,
		dErrors.CodeInvalidRedirectURI, dErrors.CodeInvalidScope,
		dErrors.CodeNoACRRegistered, dErrors.CodeInvalidTransaction:
		return http.StatusBadRequest
	case dErrors.CodeInvalidClient, dErrors.CodeUnauthorized, dErrors.CodeAuthFailed:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WriteError renders a domain error. Internal errors omit the description so
// infrastructure details never cross the wire.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)

	body := errorBody{Error: string(code)}
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body.ErrorDescription = de.Message
		}
	}

	WriteJSON(w, status, body)
}

// WriteJSON renders v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
