// Package config loads the excelauto configuration from a YAML or JSON
// file and EXCELAUTO_* environment variables.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Transports understood by the mcp command.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// DefaultPort is the port the MCP SSE server listens on.
const DefaultPort = 8888

// Config is the complete runtime configuration.
type Config struct {
	Transport       string `mapstructure:"transport" yaml:"transport" json:"transport"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	HTTPPort        int    `mapstructure:"http_port" yaml:"http_port" json:"http_port"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogJSON         bool   `mapstructure:"log_json" yaml:"log_json" json:"log_json"`
	Lang            string `mapstructure:"lang" yaml:"lang" json:"lang"`
	LangFile        string `mapstructure:"lang_file" yaml:"lang_file" json:"lang_file"`
	MaxInstructions int    `mapstructure:"max_instructions" yaml:"max_instructions" json:"max_instructions"`
	// SessionDir keeps sessions as JSON files so they survive restarts.
	// Ignored when Redis is configured.
	SessionDir      string `mapstructure:"session_dir" yaml:"session_dir" json:"session_dir"`
	// SessionKey is a base64 AES-256 key. When set, stored sessions are encrypted.
	SessionKey      string `mapstructure:"session_key" yaml:"session_key" json:"session_key"`
	Redis           Redis  `mapstructure:"redis" yaml:"redis" json:"redis"`
}

// Redis configures the optional shared session store and workbook locks.
// An empty Addr keeps sessions in memory.
type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string        `mapstructure:"password" yaml:"password" json:"password"`
	DB       int           `mapstructure:"db" yaml:"db" json:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Transport:       TransportStdio,
		Port:            DefaultPort,
		HTTPPort:        8080,
		LogLevel:        "info",
		Lang:            "en",
		MaxInstructions: 10000,
		Redis: Redis{
			Prefix: "excelauto:session:",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config %q: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return raw, nil
}

// decode maps a loosely typed document onto cfg, so "8888" works for a
// port and "30s" for a TTL.
func decode(raw map[string]any, cfg *Config) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// applyEnv overrides cfg with EXCELAUTO_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("EXCELAUTO_TRANSPORT"); ok && v != "" {
		cfg.Transport = v
	}
	if v, ok := lookup("EXCELAUTO_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EXCELAUTO_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v, ok := lookup("EXCELAUTO_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("EXCELAUTO_LANG"); ok && v != "" {
		cfg.Lang = v
	}
	if v, ok := lookup("EXCELAUTO_LANG_FILE"); ok && v != "" {
		cfg.LangFile = v
	}
	if v, ok := lookup("EXCELAUTO_SESSION_DIR"); ok && v != "" {
		cfg.SessionDir = v
	}
	if v, ok := lookup("EXCELAUTO_SESSION_KEY"); ok && v != "" {
		cfg.SessionKey = v
	}
	if v, ok := lookup("EXCELAUTO_REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportSSE)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}
	if c.MaxInstructions <= 0 {
		return fmt.Errorf("max_instructions must be positive, got %d", c.MaxInstructions)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	if _, err := c.SessionKeyBytes(); err != nil {
		return err
	}
	return nil
}

// SessionKeyBytes decodes SessionKey. It returns nil when no key is set.
func (c Config) SessionKeyBytes() ([]byte, error) {
	if c.SessionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("session_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("session_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
