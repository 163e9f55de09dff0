package api

import (
	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/infrastructure"
	"github.com/JaimeStill/vantage/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination      pagination.Config
	MaxUploadSize   int64
	KnowledgeUpload int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			SessionID: infra.SessionID,
			Agent:     infra.Agent,
			Activity:  infra.Activity,
			Knowledge: infra.Knowledge,
		},
		Pagination:      cfg.API.Pagination,
		MaxUploadSize:   cfg.API.MaxUploadSizeBytes(),
		KnowledgeUpload: cfg.Knowledge.MaxUploadBytes(),
	}
}
