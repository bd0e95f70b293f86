package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the chromactl configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Compose ComposeConfig `yaml:"compose"`
	Client  ClientConfig  `yaml:"client"`
	Demo    DemoConfig    `yaml:"demo"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig describes the containerized Chroma instance.
type ServiceConfig struct {
	Image      string `yaml:"image"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	PersistDir string `yaml:"persist_dir"`
	Persistent bool   `yaml:"persistent"`
	Telemetry  bool   `yaml:"telemetry"`
	AllowReset bool   `yaml:"allow_reset"`
}

// ComposeConfig holds container orchestrator settings.
type ComposeConfig struct {
	File    string `yaml:"file"`
	Project string `yaml:"project"`
	Binary  string `yaml:"binary"`
}

// ClientConfig holds HTTP client settings.
type ClientConfig struct {
	ReadinessTimeoutSec int `yaml:"readiness_timeout_sec"`
	RequestTimeoutSec   int `yaml:"request_timeout_sec"`
}

// DemoConfig holds demo runner settings.
type DemoConfig struct {
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A missing file is not an error: defaults plus CHROMA_* environment
// overrides apply, so the tool runs without any config on disk.
func Load(env string) (Config, error) {
	cfg := newConfig()

	configPath := findConfigPath(env)
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case err == nil:
		if cfg, err = decode(cfg, data, configPath); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err):
		cfg.applyEnvOverrides()
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return finalize(cfg)
}

// LoadFile reads configuration from an explicit YAML file path. Unlike
// Load, a missing file is an error: the operator named it.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := decode(newConfig(), data, path)
	if err != nil {
		return Config{}, err
	}
	return finalize(cfg)
}

// newConfig returns the pre-decode state. Persistence defaults to on; a
// YAML `persistent: false` or IS_PERSISTENT=false turns it off explicitly.
func newConfig() Config {
	var cfg Config
	cfg.Service.Persistent = true
	return cfg
}

// decode substitutes env variables of the form ${VAR} and ${VAR:-default}
// and unmarshals the YAML document.
func decode(cfg Config, data []byte, path string) (Config, error) {
	data = expandEnvVars(data)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func finalize(cfg Config) (Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Service.Image == "" {
		c.Service.Image = "chromadb/chroma:0.6.3"
	}
	if c.Service.Host == "" {
		c.Service.Host = "localhost"
	}
	if c.Service.Port <= 0 {
		c.Service.Port = 8000
	}
	if c.Service.PersistDir == "" {
		c.Service.PersistDir = "./chroma-data"
	}
	if c.Compose.File == "" {
		c.Compose.File = filepath.Join("deploy", "docker-compose.yaml")
	}
	if c.Compose.Project == "" {
		c.Compose.Project = "chromactl"
	}
	if c.Compose.Binary == "" {
		c.Compose.Binary = "docker"
	}
	if c.Client.ReadinessTimeoutSec <= 0 {
		c.Client.ReadinessTimeoutSec = 30
	}
	if c.Client.RequestTimeoutSec <= 0 {
		c.Client.RequestTimeoutSec = 60
	}
	if c.Demo.Collection == "" {
		c.Demo.Collection = "articles"
	}
	if c.Demo.TopK <= 0 {
		c.Demo.TopK = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port must be between 1 and 65535, got %d", c.Service.Port)
	}
	if c.Service.Persistent && strings.TrimSpace(c.Service.PersistDir) == "" {
		return fmt.Errorf("service.persist_dir is required when service.persistent is set")
	}
	if c.Demo.TopK < 1 {
		return fmt.Errorf("demo.top_k must be at least 1, got %d", c.Demo.TopK)
	}
	return nil
}

// BaseURL returns the HTTP endpoint of the Chroma service.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Service.Host, c.Service.Port)
}

// applyEnvOverrides reads the well-known CHROMA_* variables when no config
// file is present. With a config file the same variables flow in through
// ${VAR:-default} expansion instead.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHROMA_IMAGE"); v != "" {
		c.Service.Image = v
	}
	if v := os.Getenv("CHROMA_HOST"); v != "" {
		c.Service.Host = v
	}
	if v := os.Getenv("CHROMA_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Service.Port = port
		}
	}
	if v := os.Getenv("CHROMA_PERSIST_DIR"); v != "" {
		c.Service.PersistDir = v
	}
	c.Service.Persistent = envBool("IS_PERSISTENT", true)
	c.Service.Telemetry = envBool("ANONYMIZED_TELEMETRY", false)
	c.Service.AllowReset = envBool("ALLOW_RESET", false)
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// findConfigPath locates the config file for the given environment.
func findConfigPath(env string) string {
	return filepath.Join("config", fmt.Sprintf("%s.yaml", env))
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
