package settings

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("setting not found")
	ErrDuplicate = errors.New("region already on watchlist")
	ErrInvalid   = errors.New("invalid setting")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
