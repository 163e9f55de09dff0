package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Document is an entry in the retrieval index.
type Document struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Status   string `json:"status"`
}

// Upload is a file submitted for indexing.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Store is the remote retrieval index.
type Store interface {
	List(ctx context.Context, ragID string) ([]Document, error)
	Upload(ctx context.Context, ragID string, file Upload) error
	Delete(ctx context.Context, ragID string, fileNames []string) error
}

// Client is the HTTP Store.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

func NewClient(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger.With("system", "knowledge-store"),
	}
}

func (c *Client) documentsURL(ragID string) string {
	return c.baseURL + "/v3/rag/" + url.PathEscape(ragID) + "/documents"
}

type listResponse struct {
	Documents []Document `json:"documents"`
}

func (c *Client) List(ctx context.Context, ragID string) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentsURL(ragID), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode documents: %w", ErrUnavailable, err)
	}
	if resp.Documents == nil {
		resp.Documents = []Document{}
	}
	return resp.Documents, nil
}

func (c *Client) Upload(ctx context.Context, ragID string, file Upload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.FileName))
	header.Set("Content-Type", file.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(file.Data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.documentsURL(ragID), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.do(req)
	return err
}

type deleteRequest struct {
	FileNames []string `json:"file_names"`
}

func (c *Client) Delete(ctx context.Context, ragID string, fileNames []string) error {
	data, err := json.Marshal(deleteRequest{FileNames: fileNames})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.documentsURL(ragID), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn("knowledge request rejected",
			"method", req.Method,
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(body)),
		)
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, req.Method, req.URL.Path, resp.StatusCode)
	}

	return body, nil
}
