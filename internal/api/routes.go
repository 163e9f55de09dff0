package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/knowledge"
	"github.com/JaimeStill/vantage/internal/session"
	"github.com/JaimeStill/vantage/pkg/openapi"
	"github.com/JaimeStill/vantage/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	domain *Domain,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		session.NewHandler(domain.Session, runtime.Logger).Routes(),
		alerts.NewHandler(domain.Session, runtime.Logger, runtime.Pagination).Routes(),
		knowledge.NewHandler(runtime.Knowledge, runtime.Logger, runtime.KnowledgeUpload).Routes(),
		domain.Settings.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	if err := routes.Describe(spec, groups...); err != nil {
		return fmt.Errorf("describe routes: %w", err)
	}
	serve, err := openapi.ServeSpec(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", serve)
	return nil
}
