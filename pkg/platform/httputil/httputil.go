package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "a2admin/pkg/domain-errors"
)

// ErrorResponse is the failure envelope of every JSON endpoint.
type ErrorResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteOK writes {"ok": true, ...fields}.
func WriteOK(w http.ResponseWriter, status int, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["ok"] = true
	WriteJSON(w, status, body)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, err, "")
}

// WriteErrorWithRedirect is WriteError plus a landing-page hint, used by the
// tenant guards so clients can tell "sign in again" from "go to the admin area".
func WriteErrorWithRedirect(w http.ResponseWriter, err error, redirect string) {
	writeError(w, err, redirect)
}

func writeError(w http.ResponseWriter, err error, redirect string) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error:    DomainCodeToHTTPCode(domainErr.Code),
			Message:  domainErr.Message,
			Redirect: redirect,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:    DomainCodeToHTTPCode(dErrors.CodeInternal),
		Message:  "Server error",
		Redirect: redirect,
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
// Downstream failures inside admin workflows are reported as 400 so the console
// shows the failing step instead of a generic server error.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput,
		dErrors.CodeInvariantViolation, dErrors.CodeDownstream:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the "error" field of the envelope.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeDownstream:
		return "downstream_failure"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeTimeout:
		return "timeout"
	default:
		return "internal_error"
	}
}
