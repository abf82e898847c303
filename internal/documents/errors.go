package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document issuance operations.
var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("document number already issued")
	ErrUnknownType    = errors.New("unknown document type")
	ErrInvalidRequest = errors.New("invalid issue request")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidFile    = errors.New("invalid file")
	ErrNotRendered    = errors.New("document has no rendered artifact")
	ErrBatchTooLarge  = errors.New("batch exceeds maximum size")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotRendered) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrBatchTooLarge) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
