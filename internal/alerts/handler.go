package alerts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vantage/pkg/handlers"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/routes"
)

// Source exposes the current alert set and its statistics.
type Source interface {
	Alerts() []Alert
	Stats() Stats
}

// Handler serves the alert history and statistics.
type Handler struct {
	src        Source
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(src Source, logger *slog.Logger, cfg pagination.Config) *Handler {
	return &Handler{
		src:        src,
		logger:     logger.With("handler", "alerts"),
		pagination: cfg,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/alerts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stats", Summary: "Alert counts by tier", Handler: h.Stats},
		},
	}
}

// List returns the filtered alerts, newest first, one page at a time.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := pagination.PageRequestFromQuery(values, h.pagination)
	matched := SortByTimestampDesc(Filter(h.src.Alerts(), QueryFromValues(values)))

	handlers.RespondJSON(w, http.StatusOK, pagination.Slice(matched, page))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.src.Stats())
}
