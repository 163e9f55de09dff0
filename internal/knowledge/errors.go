package knowledge

import (
	"errors"
	"net/http"
)

var (
	ErrDisabled     = errors.New("knowledge base not configured")
	ErrNotFound     = errors.New("document not found")
	ErrInvalidFile  = errors.New("invalid file")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrUnavailable  = errors.New("knowledge base unavailable")
)

// MapHTTPStatus maps knowledge errors to HTTP status codes. Failures of
// the remote index surface as bad gateway.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
