package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/vantage/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "0s"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "vantage"
user = "vantage"
password = "vantage"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[agent]
base_url = "https://agents.example.com"
api_key = "agent-key"
agent_id = "6996d54a0970b3a6e013d02e"

[activity]
url = "wss://metrics.example.com/ws"

[knowledge]
base_url = "https://rag.example.com"
rag_id = "6996d500e12ce168202cfbaa"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[agent]
requests_per_minute = 12
`

// minimalConfig holds only the fields validation requires.
const minimalConfig = `
[database]
name = "vantage"
user = "vantage"

[agent]
base_url = "http://localhost:9000"
agent_id = "manager"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "vantage" {
		t.Errorf("db name: got %s, want vantage", cfg.Database.Name)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Agent.AgentID != "6996d54a0970b3a6e013d02e" {
		t.Errorf("agent id: got %s", cfg.Agent.AgentID)
	}
	if cfg.Agent.UserID != "vantage" {
		t.Errorf("agent user id default: got %s, want vantage", cfg.Agent.UserID)
	}
	if cfg.Activity.URL != "wss://metrics.example.com/ws" {
		t.Errorf("activity url: got %s", cfg.Activity.URL)
	}
	if !cfg.Knowledge.Enabled() {
		t.Error("knowledge should be enabled when base_url is set")
	}
	if cfg.Knowledge.CacheTTLDuration() != 5*time.Minute {
		t.Errorf("knowledge cache ttl: got %v, want 5m", cfg.Knowledge.CacheTTLDuration())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)

	t.Setenv("VANTAGE_ENV", "staging")

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Agent.RequestsPerMinute != 12 {
		t.Errorf("agent rpm: got %d, want 12 (from overlay)", cfg.Agent.RequestsPerMinute)
	}
	if cfg.Agent.BaseURL != "https://agents.example.com" {
		t.Errorf("agent base url: got %s (from base)", cfg.Agent.BaseURL)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)

	t.Setenv("VANTAGE_VERSION", "2.0.0")
	t.Setenv("VANTAGE_SERVER_PORT", "3000")
	t.Setenv("VANTAGE_AGENT_API_KEY", "from-env")
	t.Setenv("VANTAGE_KNOWLEDGE_MAX_PAGES", "42")
	t.Setenv("VANTAGE_ACTIVITY_RECONNECT_DELAY", "250ms")

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Agent.APIKey != "from-env" {
		t.Errorf("agent api key: got %s, want from-env", cfg.Agent.APIKey)
	}
	if cfg.Knowledge.MaxPages != 42 {
		t.Errorf("knowledge max pages: got %d, want 42", cfg.Knowledge.MaxPages)
	}
	if cfg.Activity.ReconnectDelayDuration() != 250*time.Millisecond {
		t.Errorf("activity reconnect delay: got %v", cfg.Activity.ReconnectDelayDuration())
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("VANTAGE_DB_NAME", "testdb")
	t.Setenv("VANTAGE_DB_USER", "testuser")
	t.Setenv("VANTAGE_AGENT_BASE_URL", "http://localhost:9000")
	t.Setenv("VANTAGE_AGENT_ID", "manager")

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Knowledge.Enabled() {
		t.Error("knowledge should be disabled without base_url")
	}
	if cfg.Activity.URL != "" {
		t.Errorf("activity url: got %q, want empty", cfg.Activity.URL)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `server = [`)

	if _, err := config.LoadFrom(dir); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv("VANTAGE_ENV", "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
	timeouts := cfg.Server.Timeouts()
	if timeouts.Write != 0 {
		t.Errorf("write timeout: got %v, want 0", timeouts.Write)
	}
	if timeouts.ReadHeader != 10*time.Second || timeouts.Idle != 2*time.Minute {
		t.Errorf("timeouts: got %+v", timeouts)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 20 || cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination: got %+v, want 20/100", cfg.API.Pagination)
	}
	if cfg.API.MaxUploadSizeBytes() != 32<<20 {
		t.Errorf("api max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.Agent.RequestsPerMinute != 30 {
		t.Errorf("agent rpm: got %d, want 30", cfg.Agent.RequestsPerMinute)
	}
	if cfg.Agent.TimeoutDuration() != 0 {
		t.Errorf("agent timeout: got %v, want 0", cfg.Agent.TimeoutDuration())
	}
	if cfg.Knowledge.MaxUploadBytes() != 25<<20 {
		t.Errorf("knowledge max upload: got %d", cfg.Knowledge.MaxUploadBytes())
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 32MB", "bad", 32 << 20},
		{"empty falls back to 32MB", "", 32 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  minimalConfig + "\n[server]\nport = 99999\n",
			wantErr: "invalid port",
		},
		{
			name:    "negative server timeout",
			config:  minimalConfig + "\n[server]\nidle_timeout = \"-1s\"\n",
			wantErr: "invalid idle_timeout",
		},
		{
			name:    "invalid shutdown timeout",
			config:  "shutdown_timeout = \"soon\"\n" + minimalConfig,
			wantErr: "invalid shutdown_timeout",
		},
		{
			name: "missing agent",
			config: `
[database]
name = "vantage"
user = "vantage"
`,
			wantErr: "agent: base_url required",
		},
		{
			name:    "activity scheme",
			config:  minimalConfig + "\n[activity]\nurl = \"https://metrics.example.com\"\n",
			wantErr: "activity: url must use ws or wss",
		},
		{
			name:    "knowledge without rag id",
			config:  minimalConfig + "\n[knowledge]\nbase_url = \"https://rag.example.com\"\n",
			wantErr: "knowledge: rag_id required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)

			_, err := config.LoadFrom(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
