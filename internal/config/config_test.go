package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 10000, cfg.MaxInstructions)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "excelauto.yaml", `
transport: sse
port: "9999"
log_level: debug
redis:
  addr: localhost:6379
  ttl: 30m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, "excelauto:session:", cfg.Redis.Prefix)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "excelauto.json", `{"lang_file": "lang.json", "max_instructions": 5}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lang.json", cfg.LangFile)
	assert.Equal(t, 5, cfg.MaxInstructions)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key.yaml": "colour: blue\n",
		"bad port.yaml":    "port: 0\n",
		"transport.yaml":   "transport: carrier-pigeon\n",
		"syntax.json":      "{",
		"limit.yaml":       "max_instructions: -1\n",
		"short key.yaml":   "session_key: c2hvcnQ=\n",
		"key b64.yaml":     "session_key: '!!!'\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, content))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"EXCELAUTO_PORT":       "7000",
		"EXCELAUTO_LOG_LEVEL":  "warn",
		"EXCELAUTO_LANG":       "pt",
		"EXCELAUTO_REDIS_ADDR": "redis:6379",
		"EXCELAUTO_TRANSPORT":  "sse",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookup))
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "pt", cfg.Lang)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, TransportSSE, cfg.Transport)

	env["EXCELAUTO_PORT"] = "eighty"
	assert.Error(t, applyEnv(&cfg, lookup))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("EXCELAUTO_PORT", "7001")
	cfg, err := Load(writeFile(t, "c.yaml", "port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Port)
}

func TestSessionKeyBytes(t *testing.T) {
	cfg := Default()
	key, err := cfg.SessionKeyBytes()
	require.NoError(t, err)
	assert.Nil(t, key)

	cfg.SessionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
	key, err = cfg.SessionKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), key)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_Sessions(t *testing.T) {
	t.Setenv("EXCELAUTO_SESSION_DIR", "/var/lib/excelauto")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/excelauto", cfg.SessionDir)
}
