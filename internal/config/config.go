package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend types.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the effective configuration after config.yaml and environment
// overrides have been applied.
type Config struct {
	// Root confines file-backed documents and setup working directories.
	Root      string  `yaml:"root" json:"root"`
	StatePath string  `yaml:"state_path" json:"state_path"`
	LogLevel  string  `yaml:"log_level" json:"log_level"`
	Backend   Backend `yaml:"backend" json:"backend"`
	HTTP      HTTP    `yaml:"http" json:"http"`
}

// Backend selects where documents are stored.
type Backend struct {
	Type  string `yaml:"type" json:"type"`
	Redis Redis  `yaml:"redis" json:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// HTTP configures the web API.
type HTTP struct {
	Addr string `yaml:"addr" json:"addr"`
	Auth Auth   `yaml:"auth" json:"auth"`
}

// Auth configures HTTP basic authentication.
type Auth struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Realm    string `yaml:"realm" json:"realm"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root:      ".",
		StatePath: "project-status.json",
		LogLevel:  "info",
		Backend: Backend{
			Type: BackendFile,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "continuity",
			},
		},
		HTTP: HTTP{
			Addr: ":3000",
			Auth: Auth{
				Realm:    "MCP Continuity Server",
				Username: "admin",
				Password: "password",
			},
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (File() when path is empty; a missing file is not an error), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = File()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables. CONTINUITY_ADDR wins over PORT.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("CONTINUITY_ROOT", &c.Root)
	setString("CONTINUITY_STATE_PATH", &c.StatePath)
	setString("CONTINUITY_LOG_LEVEL", &c.LogLevel)
	setString("CONTINUITY_BACKEND", &c.Backend.Type)
	setString("REDIS_ADDR", &c.Backend.Redis.Addr)
	setString("AUTH_REALM", &c.HTTP.Auth.Realm)
	setString("AUTH_USERNAME", &c.HTTP.Auth.Username)
	setString("AUTH_PASSWORD", &c.HTTP.Auth.Password)

	if port := getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
	setString("CONTINUITY_ADDR", &c.HTTP.Addr)

	if v := getenv("AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTH_ENABLED=%q: %w", v, err)
		}
		c.HTTP.Auth.Enabled = enabled
	}
	return nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Backend.Type {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown backend type %q (want %q or %q)", c.Backend.Type, BackendFile, BackendRedis)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.HTTP.Auth.Enabled && (c.HTTP.Auth.Username == "" || c.HTTP.Auth.Password == "") {
		return errors.New("http auth is enabled but username or password is empty")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug, info, warn, and error to slog levels.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Backend.Redis.Password != "" {
		out.Backend.Redis.Password = "****"
	}
	if out.HTTP.Auth.Password != "" {
		out.HTTP.Auth.Password = "****"
	}
	return &out
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(data), nil
}
