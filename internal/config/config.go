package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr  = ":8080"
	DefaultLogLevel    = "info"
	DefaultMetricsPath = "/metrics"
)

// Config describes the dispenserd YAML configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Machine MachineConfig `yaml:"machine"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// On reports whether metrics are served. Metrics default to enabled.
func (m MetricsConfig) On() bool {
	return m.Enabled == nil || *m.Enabled
}

type MachineConfig struct {
	// SeedPath optionally names a submission that fills the machine at startup.
	SeedPath string `yaml:"seed_path"`
	// CPUs overrides the host CPU count used to size the worker pool.
	CPUs int `yaml:"cpus"`
}

// Load reads, parses, normalizes, and validates a config file.
// Relative seed paths resolve against the config file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if cfg.Machine.SeedPath != "" && !filepath.IsAbs(cfg.Machine.SeedPath) {
		cfg.Machine.SeedPath = filepath.Join(filepath.Dir(path), cfg.Machine.SeedPath)
	}
	return cfg, nil
}

// Parse decodes YAML config bytes, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	Normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize trims values and applies defaults.
func Normalize(cfg *Config) {
	cfg.Server.ListenAddr = strings.TrimSpace(cfg.Server.ListenAddr)
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	cfg.Metrics.Path = strings.TrimSpace(cfg.Metrics.Path)
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	cfg.Machine.SeedPath = strings.TrimSpace(cfg.Machine.SeedPath)
}

// Validate checks a normalized config.
func Validate(cfg Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddr); err != nil {
		add("server.listen_addr", "must be host:port")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "must be one of debug, info, warn, error")
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		add("metrics.path", "must start with /")
	}
	switch cfg.Metrics.Path {
	case "/healthz", "/v1", "/v1/":
		add("metrics.path", "collides with an API route")
	}
	if cfg.Machine.CPUs < 0 {
		add("machine.cpus", "must not be negative")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Issue is one rejected config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every rejected field of a config file.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "invalid config"
	}
	var b strings.Builder
	b.WriteString("invalid config:")
	for _, issue := range err.Issues {
		fmt.Fprintf(&b, "\n  %s %s", issue.Field, issue.Message)
	}
	return b.String()
}
