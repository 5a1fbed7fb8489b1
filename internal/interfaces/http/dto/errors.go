package dto

import (
	"net/http"

	"github.com/supplynet/backend/internal/domain/shared"
)

// Error codes carried in the response envelope. Domain codes are reused as-is
// so a DomainError maps to the wire without translation.
const (
	ErrCodeValidation   = shared.CodeValidation
	ErrCodeInvalidInput = shared.CodeInvalidInput
	ErrCodeNotFound     = shared.CodeNotFound
	ErrCodeForbidden    = shared.CodeForbidden
	ErrCodeUnauthorized = shared.CodeUnauthorized
	ErrCodeInternal     = shared.CodeInternal
)

// Transport-level codes that never originate in the domain.
const (
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     = "INVALID_TOKEN"
	ErrCodeTokenRevoked     = "TOKEN_REVOKED"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeRouteNotFound:    http.StatusNotFound,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
