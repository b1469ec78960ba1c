// Package routes defines the route values that declaration files refer to
// and mounts assembled route collections onto a chi router.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route is a single HTTP endpoint: a method, a chi pattern and a handler.
type Route struct {
	Name    string       // users::List, or openapi for the document route
	Method  string       // GET, POST, etc.
	Pattern string       // /users/{id}
	Handler http.Handler // Handler serving the endpoint
}

// RouteInfo provides metadata about a route for introspection
type RouteInfo struct {
	Name       string
	Method     string
	Pattern    string
	Parameters []string
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// New creates a route for an arbitrary method
func New(method, pattern string, handler http.Handler) Route {
	return Route{
		Method:  strings.ToUpper(method),
		Pattern: pattern,
		Handler: handler,
	}
}

// Get creates a GET route
func Get(pattern string, handler http.HandlerFunc) Route {
	return New(http.MethodGet, pattern, handler)
}

// Post creates a POST route
func Post(pattern string, handler http.HandlerFunc) Route {
	return New(http.MethodPost, pattern, handler)
}

// Put creates a PUT route
func Put(pattern string, handler http.HandlerFunc) Route {
	return New(http.MethodPut, pattern, handler)
}

// Patch creates a PATCH route
func Patch(pattern string, handler http.HandlerFunc) Route {
	return New(http.MethodPatch, pattern, handler)
}

// Delete creates a DELETE route
func Delete(pattern string, handler http.HandlerFunc) Route {
	return New(http.MethodDelete, pattern, handler)
}

// Named returns a copy of the route with the given name
func (r Route) Named(name string) Route {
	r.Name = name
	return r
}

// Key identifies the route by method and pattern.
func (r Route) Key() string {
	return r.Method + " " + r.Pattern
}

// Validate checks that the route can be mounted.
func (r Route) Validate() error {
	if !supportedMethods[r.Method] {
		return fmt.Errorf("unsupported method %q", r.Method)
	}
	if !strings.HasPrefix(r.Pattern, "/") {
		return fmt.Errorf("pattern %q must start with '/'", r.Pattern)
	}
	if r.Handler == nil {
		return errors.New("handler is nil")
	}
	return nil
}

// Bind validates a declared route and names it after its reference when the
// route value carries no name of its own.
func Bind(name string, r Route) (Route, error) {
	r.Method = strings.ToUpper(r.Method)
	if err := r.Validate(); err != nil {
		return Route{}, fmt.Errorf("bind %s: %w", name, err)
	}
	if r.Name == "" {
		r.Name = name
	}
	return r, nil
}

// Mount registers every route on mux. Nothing is registered when two routes
// share a method and pattern.
func Mount(mux chi.Router, rs []Route) error {
	seen := make(map[string]string, len(rs))
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("mount %s: %w", r.Name, err)
		}
		if prev, ok := seen[r.Key()]; ok {
			return fmt.Errorf("mount %s: %s already registered by %s", r.Name, r.Key(), prev)
		}
		seen[r.Key()] = r.Name
	}

	for _, r := range rs {
		mux.Method(r.Method, r.Pattern, r.Handler)
	}
	return nil
}

// NewRouter creates a chi router serving rs.
func NewRouter(rs []Route) (chi.Router, error) {
	mux := chi.NewRouter()
	if err := Mount(mux, rs); err != nil {
		return nil, err
	}
	return mux, nil
}

// Info returns introspection rows for rs in order.
func Info(rs []Route) []RouteInfo {
	infos := make([]RouteInfo, 0, len(rs))
	for _, r := range rs {
		infos = append(infos, RouteInfo{
			Name:       r.Name,
			Method:     r.Method,
			Pattern:    r.Pattern,
			Parameters: extractParameters(r.Pattern),
		})
	}
	return infos
}

// extractParameters extracts parameter names from a route pattern
func extractParameters(pattern string) []string {
	params := make([]string, 0)
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			// {id:[0-9]+} carries a regexp after the name
			if idx := strings.Index(name, ":"); idx >= 0 {
				name = name[:idx]
			}
			params = append(params, name)
		}
	}
	return params
}
