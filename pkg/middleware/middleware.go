// Package middleware provides the HTTP middleware stack and the standard
// middlewares used by service modules: request logging, CORS, and bearer
// token verification.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	wrappers []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw func(http.Handler) http.Handler) {
	s.wrappers = append(s.wrappers, mw)
}

// Apply wraps the handler so that the first registered middleware runs
// outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.wrappers) - 1; i >= 0; i-- {
		handler = s.wrappers[i](handler)
	}
	return handler
}
