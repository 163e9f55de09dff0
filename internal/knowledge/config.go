package knowledge

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/vantage/pkg/formatting"
)

// Config locates the retrieval index backing the knowledge base. An empty
// BaseURL disables the knowledge base.
type Config struct {
	BaseURL       string `toml:"base_url"`
	APIKey        string `toml:"api_key"`
	RagID         string `toml:"rag_id"`
	CacheTTL      string `toml:"cache_ttl"`
	Timeout       string `toml:"timeout"`
	MaxUploadSize string `toml:"max_upload_size"`
	MaxPages      int    `toml:"max_pages"`
}

type Env struct {
	BaseURL       string
	APIKey        string
	RagID         string
	CacheTTL      string
	Timeout       string
	MaxUploadSize string
	MaxPages      string
}

func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxUploadBytes returns MaxUploadSize in bytes.
func (c *Config) MaxUploadBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

// Enabled reports whether a knowledge base is configured.
func (c *Config) Enabled() bool {
	return c.BaseURL != ""
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.RagID != "" {
		c.RagID = overlay.RagID
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxPages > 0 {
		c.MaxPages = overlay.MaxPages
	}
}

func (c *Config) loadDefaults() {
	if c.CacheTTL == "" {
		c.CacheTTL = "5m"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 500
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(dst *string, name string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(&c.BaseURL, env.BaseURL)
	set(&c.APIKey, env.APIKey)
	set(&c.RagID, env.RagID)
	set(&c.CacheTTL, env.CacheTTL)
	set(&c.Timeout, env.Timeout)
	set(&c.MaxUploadSize, env.MaxUploadSize)

	if env.MaxPages != "" {
		if v := os.Getenv(env.MaxPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxPages = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Enabled() {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url %q", c.BaseURL)
		}
		if c.RagID == "" {
			return fmt.Errorf("rag_id required")
		}
	}
	if d, err := time.ParseDuration(c.CacheTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid cache_ttl %q", c.CacheTTL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}
	return nil
}
