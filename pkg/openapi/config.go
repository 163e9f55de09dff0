package openapi

import "os"

// Config carries the document metadata. The version comes from the
// service config rather than from here.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the variables that override Config fields.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize fills the title and description. Neither can be invalid.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Vantage API"
	}
	if c.Description == "" {
		c.Description = "Geographic risk-concentration briefings for insurance portfolios."
	}
	if env != nil {
		override(env.Title, &c.Title)
		override(env.Description, &c.Description)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func override(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
