package openapi

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

// PathItem groups the operations on one path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

type Operation struct {
	Summary    string               `json:"summary,omitempty"`
	Tags       []string             `json:"tags,omitempty"`
	Parameters []*Parameter         `json:"parameters,omitempty"`
	Responses  map[string]*Response `json:"responses"`
}

type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required,omitempty"`
	Schema   *Schema `json:"schema"`
}

type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

type Schema struct {
	Type       string             `json:"type,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
}

// PathParam is a required string parameter taken from the URL path.
func PathParam(name string) *Parameter {
	return &Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   &Schema{Type: "string"},
	}
}

// errorResponse matches handlers.ErrorResponse.
var errorResponse = &Response{
	Description: "Error",
	Content: map[string]*MediaType{
		"application/json": {Schema: &Schema{
			Type:       "object",
			Properties: map[string]*Schema{"error": {Type: "string"}},
		}},
	},
}
