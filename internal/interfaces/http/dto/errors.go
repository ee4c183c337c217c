package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain error codes (EMAIL_TAKEN,
// CATEGORY_IN_USE, ...) pass through to the client unchanged; these cover
// everything the handlers raise themselves.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeBusinessRule is used for business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeTooLarge is used when the request body exceeds the limit
	ErrCodeTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeGateway is used when the payment gateway misbehaves
	ErrCodeGateway = "ERR_GATEWAY"
)

// errorCodeStatus maps error codes, transport and domain alike, to HTTP
// status codes.
var errorCodeStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeBusinessRule:  http.StatusUnprocessableEntity,
	ErrCodeTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeGateway:       http.StatusBadGateway,

	// auth and tenancy
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_SIGNATURE":   http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// lookups
	"NOT_FOUND":         http.StatusNotFound,
	"COMPANY_NOT_FOUND": http.StatusNotFound,

	// duplicates
	"ALREADY_EXISTS":  http.StatusConflict,
	"COMPANY_EXISTS":  http.StatusConflict,
	"EMAIL_TAKEN":     http.StatusConflict,
	"CATEGORY_EXISTS": http.StatusConflict,
	"BRAND_EXISTS":    http.StatusConflict,
	"BARCODE_TAKEN":   http.StatusConflict,

	// business rules
	"CATEGORY_IN_USE":       http.StatusUnprocessableEntity,
	"BRAND_IN_USE":          http.StatusUnprocessableEntity,
	"CANNOT_DELETE_OWNER":   http.StatusUnprocessableEntity,
	"PLAN_NOT_PURCHASABLE":  http.StatusUnprocessableEntity,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"SUBSCRIPTION_INACTIVE": http.StatusForbidden,

	// infrastructure
	"IMAGE_UPLOAD_FAILED": http.StatusBadGateway,
	"GATEWAY_ERROR":       http.StatusBadGateway,
	"LOGOUT_FAILED":       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code. Validation-style
// domain codes (INVALID_*, MISSING_*) fall back to 400, everything unknown
// to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "MISSING_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
