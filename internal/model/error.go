package model

import (
	"fmt"
	"net/http"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeMissingZipCode      = "missing_zip_code"
	ErrCodeInvalidZipCode      = "invalid_zip_code"
	ErrCodeInvalidAvailability = "invalid_availability"
	ErrCodeZipCodeExists       = "zip_code_exists"
	ErrCodeCodeNotFound        = "code_not_found"
	ErrCodeMissingProductID    = "missing_product_id"
	ErrCodeInvalidToken        = "invalid_token"
	ErrCodeNoCheckRecorded     = "no_check_recorded"
	ErrCodeForbidden           = "forbidden"
	ErrCodeSaveFailed          = "save_failed"
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeInternalError       = "internal_error"
)

// DomainError carries a machine-readable code, an HTTP status, and a
// human-readable message from the service layer to the API boundary.
type DomainError struct {
	Code    string
	Message string
	Field   string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code string, status int, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// WithField returns a copy of the error annotated with the offending field.
func (e *DomainError) WithField(field string) *DomainError {
	c := *e
	c.Field = field
	return &c
}

// Common domain errors
var (
	ErrMissingZipCode = &DomainError{
		Code:    ErrCodeMissingZipCode,
		Message: "Zip code is required.",
		Field:   "zip_code",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidZipCode = &DomainError{
		Code:    ErrCodeInvalidZipCode,
		Message: "Zip code format is invalid. Please enter a valid zip code.",
		Field:   "zip_code",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAvailability = &DomainError{
		Code:    ErrCodeInvalidAvailability,
		Message: `Availability must be either "available" or "unavailable".`,
		Field:   "availability",
		Status:  http.StatusBadRequest,
	}
	ErrMissingProductID = &DomainError{
		Code:    ErrCodeMissingProductID,
		Message: "Product ID is required.",
		Field:   "product_id",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidToken = &DomainError{
		Code:    ErrCodeInvalidToken,
		Message: "Check token is missing or invalid.",
		Status:  http.StatusForbidden,
	}
	ErrNoCheckRecorded = &DomainError{
		Code:    ErrCodeNoCheckRecorded,
		Message: "No availability check has been recorded for this session.",
		Status:  http.StatusNotFound,
	}
	ErrForbidden = &DomainError{
		Code:    ErrCodeForbidden,
		Message: "You do not have permission to manage availability codes.",
		Status:  http.StatusForbidden,
	}
)

// ErrZipCodeExists reports a duplicate code conflict.
func ErrZipCodeExists(zipCode string) *DomainError {
	return &DomainError{
		Code:    ErrCodeZipCodeExists,
		Message: fmt.Sprintf("Zip code %q already exists.", zipCode),
		Field:   "zip_code",
		Status:  http.StatusConflict,
	}
}

// ErrCodeNotFoundByID reports an unknown record id.
func ErrCodeNotFoundByID(id int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeCodeNotFound,
		Message: fmt.Sprintf("Code with ID %d not found.", id),
		Status:  http.StatusNotFound,
	}
}

// ErrSaveFailed reports a persistence failure.
func ErrSaveFailed(op string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSaveFailed,
		Message: fmt.Sprintf("Failed to %s code data.", op),
		Status:  http.StatusInternalServerError,
	}
}

// ErrInvalidRequest reports a malformed request with a caller-supplied message.
func ErrInvalidRequest(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}
