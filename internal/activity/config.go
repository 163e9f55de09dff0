package activity

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config locates the activity stream. An empty URL disables the
// subscription; the session then only tracks its own processing flag.
type Config struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	ReconnectDelay string `toml:"reconnect_delay"`
}

type Env struct {
	URL            string
	APIKey         string
	ReconnectDelay string
}

func (c *Config) ReconnectDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReconnectDelay)
	return d
}

func (c *Config) Finalize(env *Env) error {
	if c.ReconnectDelay == "" {
		c.ReconnectDelay = "5s"
	}
	if env != nil {
		if v := getenv(env.URL); v != "" {
			c.URL = v
		}
		if v := getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
		if v := getenv(env.ReconnectDelay); v != "" {
			c.ReconnectDelay = v
		}
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.ReconnectDelay != "" {
		c.ReconnectDelay = overlay.ReconnectDelay
	}
}

func (c *Config) validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("url must use ws or wss: %q", c.URL)
		}
	}
	if d, err := time.ParseDuration(c.ReconnectDelay); err != nil || d <= 0 {
		return fmt.Errorf("invalid reconnect_delay %q", c.ReconnectDelay)
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
