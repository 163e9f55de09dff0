// Package config loads the service configuration from TOML files and
// VANTAGE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/knowledge"
	"github.com/JaimeStill/vantage/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVantageEnv             = "VANTAGE_ENV"
	EnvVantageShutdownTimeout = "VANTAGE_SHUTDOWN_TIMEOUT"
	EnvVantageVersion         = "VANTAGE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VANTAGE_DB_HOST",
	Port:            "VANTAGE_DB_PORT",
	Name:            "VANTAGE_DB_NAME",
	User:            "VANTAGE_DB_USER",
	Password:        "VANTAGE_DB_PASSWORD",
	SSLMode:         "VANTAGE_DB_SSL_MODE",
	MaxOpenConns:    "VANTAGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VANTAGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VANTAGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VANTAGE_DB_CONN_TIMEOUT",
}

var agentEnv = &agent.Env{
	BaseURL:           "VANTAGE_AGENT_BASE_URL",
	APIKey:            "VANTAGE_AGENT_API_KEY",
	AgentID:           "VANTAGE_AGENT_ID",
	UserID:            "VANTAGE_AGENT_USER_ID",
	Timeout:           "VANTAGE_AGENT_TIMEOUT",
	RequestsPerMinute: "VANTAGE_AGENT_REQUESTS_PER_MINUTE",
}

var activityEnv = &activity.Env{
	URL:            "VANTAGE_ACTIVITY_URL",
	APIKey:         "VANTAGE_ACTIVITY_API_KEY",
	ReconnectDelay: "VANTAGE_ACTIVITY_RECONNECT_DELAY",
}

var knowledgeEnv = &knowledge.Env{
	BaseURL:       "VANTAGE_KNOWLEDGE_BASE_URL",
	APIKey:        "VANTAGE_KNOWLEDGE_API_KEY",
	RagID:         "VANTAGE_KNOWLEDGE_RAG_ID",
	CacheTTL:      "VANTAGE_KNOWLEDGE_CACHE_TTL",
	Timeout:       "VANTAGE_KNOWLEDGE_TIMEOUT",
	MaxUploadSize: "VANTAGE_KNOWLEDGE_MAX_UPLOAD_SIZE",
	MaxPages:      "VANTAGE_KNOWLEDGE_MAX_PAGES",
}

// Config is the root configuration for the Vantage service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	API             APIConfig        `toml:"api"`
	Agent           agent.Config     `toml:"agent"`
	Activity        activity.Config  `toml:"activity"`
	Knowledge       knowledge.Config `toml:"knowledge"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the VANTAGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVantageEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the config files resolved against dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Activity.Merge(&overlay.Activity)
	c.Knowledge.Merge(&overlay.Knowledge)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agent.Finalize(agentEnv); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Activity.Finalize(activityEnv); err != nil {
		return fmt.Errorf("activity: %w", err)
	}
	if err := c.Knowledge.Finalize(knowledgeEnv); err != nil {
		return fmt.Errorf("knowledge: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVantageShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVantageVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvVantageEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
