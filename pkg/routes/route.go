// Package routes declares HTTP routes as data so domain handlers can expose
// their endpoints without owning a mux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Summary is optional
// and only surfaces in the published OpenAPI document.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Handler http.HandlerFunc
}
