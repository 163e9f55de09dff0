package agent

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config locates the reasoning service and identifies this client to it.
type Config struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	AgentID           string `toml:"agent_id"`
	UserID            string `toml:"user_id"`
	Timeout           string `toml:"timeout"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	BaseURL           string
	APIKey            string
	AgentID           string
	UserID            string
	Timeout           string
	RequestsPerMinute string
}

// TimeoutDuration returns Timeout as a time.Duration. Zero means calls
// wait for the service indefinitely.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.AgentID != "" {
		c.AgentID = overlay.AgentID
	}
	if overlay.UserID != "" {
		c.UserID = overlay.UserID
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequestsPerMinute > 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
}

func (c *Config) loadDefaults() {
	if c.UserID == "" {
		c.UserID = "vantage"
	}
	if c.Timeout == "" {
		c.Timeout = "0s"
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 30
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(env.AgentID); v != "" {
		c.AgentID = v
	}
	if v := getenv(env.UserID); v != "" {
		c.UserID = v
	}
	if v := getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := getenv(env.RequestsPerMinute); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestsPerMinute = n
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.AgentID == "" {
		return fmt.Errorf("agent_id required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
