package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost = "VANTAGE_SERVER_HOST"
	EnvServerPort = "VANTAGE_SERVER_PORT"
)

// ServerConfig holds HTTP listener settings. WriteTimeout defaults to zero
// because a message send holds its request open until the agent replies,
// and agent calls carry no deadline of their own.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Timeouts is the parsed form of the ServerConfig durations.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

type durationField struct {
	key      string
	env      string
	fallback string
	value    *string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{"read_header_timeout", "VANTAGE_SERVER_READ_HEADER_TIMEOUT", "10s", &c.ReadHeaderTimeout},
		{"read_timeout", "VANTAGE_SERVER_READ_TIMEOUT", "1m", &c.ReadTimeout},
		{"write_timeout", "VANTAGE_SERVER_WRITE_TIMEOUT", "0s", &c.WriteTimeout},
		{"idle_timeout", "VANTAGE_SERVER_IDLE_TIMEOUT", "2m", &c.IdleTimeout},
		{"shutdown_timeout", "VANTAGE_SERVER_SHUTDOWN_TIMEOUT", "30s", &c.ShutdownTimeout},
	}
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts parses the configured durations. Finalize has already rejected
// malformed values, so parse errors yield zero.
func (c *ServerConfig) Timeouts() Timeouts {
	parse := func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	return Timeouts{
		ReadHeader: parse(c.ReadHeaderTimeout),
		Read:       parse(c.ReadTimeout),
		Write:      parse(c.WriteTimeout),
		Idle:       parse(c.IdleTimeout),
		Shutdown:   parse(c.ShutdownTimeout),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	dst, src := c.durations(), overlay.durations()
	for i := range dst {
		if *src[i].value != "" {
			*dst[i].value = *src[i].value
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.durations() {
		if *f.value == "" {
			*f.value = f.fallback
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.durations() {
		if v := os.Getenv(f.env); v != "" {
			*f.value = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations() {
		d, err := time.ParseDuration(*f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: negative duration %s", f.key, d)
		}
	}
	return nil
}
