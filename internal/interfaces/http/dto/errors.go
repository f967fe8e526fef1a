package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when a status-guarded write loses a race
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodePreconditionFailed is used when a lifecycle precondition is not met
	ErrCodePreconditionFailed = "ERR_PRECONDITION_FAILED"
	// ErrCodeApproverNotEligible is used when the actor is outside the approver set
	ErrCodeApproverNotEligible = "ERR_APPROVER_NOT_ELIGIBLE"
	// ErrCodeReconciliationFailed is used when the adjustment transaction rolled back
	ErrCodeReconciliationFailed = "ERR_RECONCILIATION_FAILED"
	// ErrCodeResolutionFailed is used when the people directory cannot be reached
	ErrCodeResolutionFailed = "ERR_RESOLUTION_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodePreconditionFailed:   http.StatusUnprocessableEntity,
	ErrCodeApproverNotEligible:  http.StatusForbidden,
	ErrCodeReconciliationFailed: http.StatusUnprocessableEntity,
	ErrCodeResolutionFailed:     http.StatusBadGateway,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_SITE":         ErrCodeInvalidInput,
	"INVALID_SITE_NAME":    ErrCodeInvalidInput,
	"INVALID_COUNT_NUMBER": ErrCodeInvalidInput,
	"INVALID_CREATOR":      ErrCodeInvalidInput,
	"INVALID_APPROVER":     ErrCodeInvalidInput,
	"INVALID_ACTOR":        ErrCodeInvalidInput,
	"INVALID_STOCK_ITEM":   ErrCodeInvalidInput,
	"DUPLICATE_ITEM":       ErrCodeAlreadyExists,
	"NO_ITEMS":             ErrCodeInvalidState,
	"INCOMPLETE_COUNT":     ErrCodeInvalidState,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"ITEM_NOT_COUNTED":     ErrCodeInvalidState,
	"SITE_ARCHIVED":        ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
