package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Service.Host != "localhost" {
		t.Errorf("host = %q, want localhost", cfg.Service.Host)
	}
	if cfg.Service.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Service.Port)
	}
	if cfg.Service.Image == "" {
		t.Error("image default is empty")
	}
	if cfg.Compose.Binary != "docker" {
		t.Errorf("binary = %q, want docker", cfg.Compose.Binary)
	}
	if cfg.Demo.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.Demo.TopK)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"port too large", func(c *Config) { c.Service.Port = 70000 }, true},
		{"port zero", func(c *Config) { c.Service.Port = 0 }, true},
		{"persistent without dir", func(c *Config) {
			c.Service.Persistent = true
			c.Service.PersistDir = "  "
		}, true},
		{"top_k zero", func(c *Config) { c.Demo.TopK = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FromYAMLWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte(`
service:
  host: ${TEST_CHROMA_HOST:-fallback-host}
  port: ${TEST_CHROMA_PORT:-8100}
  telemetry: false
demo:
  collection: articles
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("TEST_CHROMA_HOST", "db.internal")

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.Host != "db.internal" {
		t.Errorf("host = %q, want env override db.internal", cfg.Service.Host)
	}
	if cfg.Service.Port != 8100 {
		t.Errorf("port = %d, want default-expanded 8100", cfg.Service.Port)
	}
	if cfg.BaseURL() != "http://db.internal:8100" {
		t.Errorf("BaseURL = %q", cfg.BaseURL())
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := []byte(`
service:
  host: explicit-host
client:
  request_timeout_sec: 7
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Service.Host != "explicit-host" {
		t.Errorf("host = %q, want explicit-host", cfg.Service.Host)
	}
	if cfg.Client.RequestTimeoutSec != 7 {
		t.Errorf("request_timeout_sec = %d, want 7", cfg.Client.RequestTimeoutSec)
	}
	// Untouched settings still receive defaults.
	if cfg.Service.Port != 8000 {
		t.Errorf("port = %d, want default 8000", cfg.Service.Port)
	}
}

func TestLoadFile_MissingPathIsError(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("CHROMA_HOST", "envhost")
	t.Setenv("CHROMA_PORT", "8222")
	t.Setenv("IS_PERSISTENT", "false")
	t.Setenv("ANONYMIZED_TELEMETRY", "")
	t.Setenv("ALLOW_RESET", "1")

	cfg, err := Load("nonexistent")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.Host != "envhost" {
		t.Errorf("host = %q, want envhost", cfg.Service.Host)
	}
	if cfg.Service.Port != 8222 {
		t.Errorf("port = %d, want 8222", cfg.Service.Port)
	}
	if cfg.Service.Persistent {
		t.Error("persistent should be false via IS_PERSISTENT=false")
	}
	if cfg.Service.Telemetry {
		t.Error("telemetry should default false")
	}
	if !cfg.Service.AllowReset {
		t.Error("allow_reset should be true via ALLOW_RESET=1")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${TEST_EXPAND_SET}", "value"},
		{"${TEST_EXPAND_UNSET:-fallback}", "fallback"},
		{"${TEST_EXPAND_SET:-fallback}", "value"},
		{"${TEST_EXPAND_UNSET}", ""},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
