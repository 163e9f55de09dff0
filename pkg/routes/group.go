package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/vantage/pkg/openapi"
)

// Group organizes routes and nested groups under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups to mux as "METHOD /prefix/pattern".
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.register(mux, "")
	}
}

func (g Group) register(mux *http.ServeMux, parent string) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		child.register(mux, prefix)
	}
}

// Describe adds an operation to spec for every route in groups. The first
// path segment of each top-level group becomes the operation tag.
func Describe(spec *openapi.Spec, groups ...Group) error {
	for _, g := range groups {
		tag := strings.Trim(g.Prefix, "/")
		if err := g.describe(spec, "", tag); err != nil {
			return err
		}
	}
	return nil
}

func (g Group) describe(spec *openapi.Spec, parent, tag string) error {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		if err := spec.AddOperation(r.Method, prefix+r.Pattern, r.Summary, tag); err != nil {
			return err
		}
	}
	for _, child := range g.Children {
		if err := child.describe(spec, prefix, tag); err != nil {
			return err
		}
	}
	return nil
}
