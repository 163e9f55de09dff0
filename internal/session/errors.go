package session

import (
	"errors"
	"net/http"
)

var (
	ErrBusy         = errors.New("a request is already in flight")
	ErrEmptyMessage = errors.New("message is empty")
	ErrInvalidBody  = errors.New("invalid request body")
)

// MapHTTPStatus maps session errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
