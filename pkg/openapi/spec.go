// Package openapi publishes a minimal OpenAPI 3.1 document describing the
// registered routes.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type Spec struct {
	OpenAPI string               `json:"openapi"`
	Info    *Info                `json:"info"`
	Servers []*Server            `json:"servers,omitempty"`
	Paths   map[string]*PathItem `json:"paths"`
}

func NewSpec(cfg *Config, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:       cfg.Title,
			Version:     version,
			Description: cfg.Description,
		},
		Paths: make(map[string]*PathItem),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation documents method on path. Path parameters are read from
// {name} segments; a trailing "..." wildcard marker is dropped.
func (s *Spec) AddOperation(method, path, summary, tag string) error {
	op := &Operation{
		Summary:   summary,
		Responses: map[string]*Response{"default": errorResponse},
	}
	if tag != "" {
		op.Tags = []string{tag}
	}

	var clean []string
	for seg := range strings.SplitSeq(path, "/") {
		if name, ok := strings.CutPrefix(seg, "{"); ok {
			name = strings.TrimSuffix(strings.TrimSuffix(name, "}"), "...")
			if name != "$" {
				op.Parameters = append(op.Parameters, PathParam(name))
				seg = "{" + name + "}"
			} else {
				seg = ""
			}
		}
		clean = append(clean, seg)
	}
	path = strings.Join(clean, "/")
	if path == "" {
		path = "/"
	}

	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	default:
		return fmt.Errorf("unsupported method %s for %s", method, path)
	}
	return nil
}

// ServeSpec returns a handler that writes spec, serialized once.
func ServeSpec(spec *Spec) (http.HandlerFunc, error) {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}, nil
}
