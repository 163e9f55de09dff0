// Package middleware provides the HTTP middleware stack and the request
// logging and CORS middleware mounted on every module.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	*s = append(*s, fn)
}

// Apply wraps handler so the first middleware registered runs outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
