package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/handlers"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "settings"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/settings",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/defaults", Handler: h.RestoreDefaults},
		},
		Children: []routes.Group{
			{
				Prefix: "/thresholds",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListThresholds},
					{Method: "PUT", Pattern: "/{geography_type}", Handler: h.SaveThreshold},
					{Method: "DELETE", Pattern: "/{geography_type}", Handler: h.DeleteThreshold},
				},
			},
			{
				Prefix: "/watchlist",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListWatchlist},
					{Method: "POST", Pattern: "", Handler: h.AddRegion},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.RemoveRegion},
				},
			},
		},
	}
}

func (h *Handler) ListThresholds(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Thresholds(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) SaveThreshold(w http.ResponseWriter, r *http.Request) {
	var cmd ThresholdCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	t, err := h.sys.SaveThreshold(r.Context(), r.PathValue("geography_type"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteThreshold(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.DeleteThreshold(r.Context(), r.PathValue("geography_type")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWatchlist returns one page of the watchlist, optionally filtered by
// ?search= and ordered by ?sort=.
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filter := WatchlistFilterFromQuery(r.URL.Query())

	result, err := h.sys.Watchlist(r.Context(), page, filter)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

type addRegionRequest struct {
	Region string `json:"region"`
}

func (h *Handler) AddRegion(w http.ResponseWriter, r *http.Request) {
	var req addRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	e, err := h.sys.AddRegion(r.Context(), req.Region)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, e)
}

func (h *Handler) RemoveRegion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	if err := h.sys.RemoveRegion(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreDefaults(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.RestoreDefaults(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
