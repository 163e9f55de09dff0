// Package knowledge manages the documents indexed for the reasoning
// service's retrieval. Listings are cached locally and refreshed after each
// successful change. Failures are recorded on the knowledge system and never
// reach the query session.
package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/vantage/pkg/formatting"
	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

// Allowed file extensions, without the dot.
var allowedTypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
}

// System is the knowledge base.
type System interface {
	// Documents returns the cached listing, loading it on a miss.
	Documents(ctx context.Context) ([]Document, error)
	// Refresh reloads the listing from the index.
	Refresh(ctx context.Context) ([]Document, error)
	Upload(ctx context.Context, file Upload) error
	Delete(ctx context.Context, fileName string) error
	// LastError returns the most recent failure, or "" after a success.
	LastError() string
	Start(lc *lifecycle.Coordinator) error
}

type knowledge struct {
	store    Store
	ragID    string
	maxBytes int64
	maxPages int
	enabled  bool
	cache    *cache.Cache
	group    singleflight.Group
	logger   *slog.Logger

	mu      sync.RWMutex
	lastErr string
}

func New(cfg *Config, store Store, logger *slog.Logger) System {
	ttl := cfg.CacheTTLDuration()
	return &knowledge{
		store:    store,
		ragID:    cfg.RagID,
		maxBytes: cfg.MaxUploadBytes(),
		maxPages: cfg.MaxPages,
		enabled:  cfg.Enabled(),
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger.With("system", "knowledge"),
	}
}

func (k *knowledge) cacheKey() string {
	return "documents:" + k.ragID
}

func (k *knowledge) Documents(ctx context.Context) ([]Document, error) {
	if !k.enabled {
		return nil, ErrDisabled
	}
	if docs, ok := k.cache.Get(k.cacheKey()); ok {
		return docs.([]Document), nil
	}
	return k.Refresh(ctx)
}

// Refresh coalesces concurrent reloads into a single request.
func (k *knowledge) Refresh(ctx context.Context) ([]Document, error) {
	if !k.enabled {
		return nil, ErrDisabled
	}

	v, err, _ := k.group.Do(k.cacheKey(), func() (any, error) {
		docs, err := k.store.List(ctx, k.ragID)
		if err != nil {
			return nil, err
		}
		k.cache.SetDefault(k.cacheKey(), docs)
		return docs, nil
	})
	if err != nil {
		k.record(fmt.Errorf("load documents: %w", err))
		return nil, err
	}

	k.record(nil)
	return v.([]Document), nil
}

func (k *knowledge) Upload(ctx context.Context, file Upload) error {
	if !k.enabled {
		return ErrDisabled
	}

	file, err := k.validate(file)
	if err != nil {
		k.record(err)
		return err
	}

	if err := k.store.Upload(ctx, k.ragID, file); err != nil {
		err = fmt.Errorf("upload %s: %w", file.FileName, err)
		k.record(err)
		return err
	}

	k.logger.Info("document uploaded", "file_name", file.FileName, "size", formatting.FormatBytes(int64(len(file.Data)), 1))
	k.invalidate(ctx)
	return nil
}

func (k *knowledge) Delete(ctx context.Context, fileName string) error {
	if !k.enabled {
		return ErrDisabled
	}
	if strings.TrimSpace(fileName) == "" {
		err := fmt.Errorf("%w: file name required", ErrInvalidFile)
		k.record(err)
		return err
	}

	if err := k.store.Delete(ctx, k.ragID, []string{fileName}); err != nil {
		err = fmt.Errorf("delete %s: %w", fileName, err)
		k.record(err)
		return err
	}

	k.logger.Info("document deleted", "file_name", fileName)
	k.invalidate(ctx)
	return nil
}

// invalidate drops the cached listing and reloads it. A failed reload is
// recorded but does not fail the mutation that triggered it.
func (k *knowledge) invalidate(ctx context.Context) {
	k.cache.Delete(k.cacheKey())
	if _, err := k.Refresh(ctx); err != nil {
		k.logger.Warn("document refresh failed", "error", err)
	}
}

func (k *knowledge) validate(file Upload) (Upload, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.FileName)), ".")
	contentType, ok := allowedTypes[ext]
	if !ok {
		return file, fmt.Errorf("%w: %q is not a PDF, DOCX, or TXT file", ErrInvalidFile, file.FileName)
	}
	if len(file.Data) == 0 {
		return file, fmt.Errorf("%w: %q is empty", ErrInvalidFile, file.FileName)
	}
	if k.maxBytes > 0 && int64(len(file.Data)) > k.maxBytes {
		return file, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge,
			formatting.FormatBytes(int64(len(file.Data)), 1),
			formatting.FormatBytes(k.maxBytes, 0))
	}

	if ext == "pdf" {
		pages, err := api.PageCount(bytes.NewReader(file.Data), nil)
		if err != nil {
			return file, fmt.Errorf("%w: unreadable PDF: %w", ErrInvalidFile, err)
		}
		if k.maxPages > 0 && pages > k.maxPages {
			return file, fmt.Errorf("%w: %d pages exceeds limit of %d", ErrInvalidFile, pages, k.maxPages)
		}
	}

	if file.ContentType == "" || file.ContentType == "application/octet-stream" {
		file.ContentType = contentType
	}
	return file, nil
}

func (k *knowledge) record(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err == nil {
		k.lastErr = ""
		return
	}
	k.lastErr = err.Error()
}

func (k *knowledge) LastError() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.lastErr
}

// Start warms the document cache during startup.
func (k *knowledge) Start(lc *lifecycle.Coordinator) error {
	if !k.enabled {
		k.logger.Info("knowledge base disabled")
		return nil
	}

	lc.OnStartup("knowledge", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		docs, err := k.Refresh(ctx)
		if err != nil {
			k.logger.Warn("knowledge cache warm-up failed", "error", err)
			return err
		}
		k.logger.Info("knowledge cache warmed", "documents", len(docs))
		return nil
	})
	return nil
}
