package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vantage/pkg/handlers"
	"github.com/JaimeStill/vantage/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "session"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/session",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "POST", Pattern: "/messages", Summary: "Send a message to the agent", Handler: h.Send},
			{Method: "PUT", Pattern: "/input", Handler: h.Compose},
			{Method: "DELETE", Pattern: "/error", Handler: h.DismissError},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset},
			{Method: "POST", Pattern: "/sample", Summary: "Load the sample briefing", Handler: h.LoadSample},
			{Method: "GET", Pattern: "/activity", Summary: "Stream agent activity", Handler: h.Activity},
		},
	}
}

type sendRequest struct {
	Message string `json:"message"`
}

type composeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Snapshot())
}

// Send dispatches a message and responds once the agent replies. An empty
// message field sends the composed input instead.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	var (
		snap Snapshot
		err  error
	)
	if req.Message != "" {
		snap, err = h.sys.SendText(r.Context(), req.Message)
	} else {
		snap, err = h.sys.Send(r.Context())
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	if err := h.sys.Compose(req.Text); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Snapshot())
}

func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.sys.DismissError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Reset(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Snapshot())
}

func (h *Handler) LoadSample(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.LoadSample(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Snapshot())
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Activity())
}
