package knowledge

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vantage/pkg/handlers"
	"github.com/JaimeStill/vantage/pkg/routes"
)

// Handler exposes the knowledge base over HTTP.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "knowledge"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/knowledge",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete},
		},
	}
}

// ListResponse pairs the document listing with the last recorded failure.
type ListResponse struct {
	Documents []Document `json:"documents"`
	LastError string     `json:"last_error,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		docs []Document
		err  error
	)
	if r.URL.Query().Get("refresh") == "true" {
		docs, err = h.sys.Refresh(r.Context())
	} else {
		docs, err = h.sys.Documents(r.Context())
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ListResponse{Documents: docs, LastError: h.sys.LastError()})
}

// Upload indexes the multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	upload := Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if err := h.sys.Upload(r.Context(), upload); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	docs, err := h.sys.Documents(r.Context())
	if err != nil {
		docs = []Document{}
	}
	handlers.RespondJSON(w, http.StatusCreated, ListResponse{Documents: docs, LastError: h.sys.LastError()})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
