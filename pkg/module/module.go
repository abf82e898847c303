// Package module provides prefix-mounted HTTP modules, each with its own
// inner router and middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cividoc/cividoc/pkg/middleware"
)

// Module strips its path prefix from incoming requests and delegates to an
// inner router wrapped with the module's middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics on an empty, slash-less, or multi-level prefix: prefixes are wired
// at startup, so a bad one is a programming error.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Serve strips the module prefix from the request path and dispatches to the
// middleware-wrapped inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := req.URL.Path[len(m.prefix):]
	if inner == "" {
		inner = "/"
	}

	cloned := new(http.Request)
	*cloned = *req
	cloned.URL = new(url.URL)
	*cloned.URL = *req.URL
	cloned.URL.Path = inner
	cloned.URL.RawPath = ""

	m.middleware.Apply(m.router).ServeHTTP(w, cloned)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
