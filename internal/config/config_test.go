package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CIRCUITECH_HOME", home)
	t.Setenv("CIRCUITECH_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	path := filepath.Join(home, ".circuitech", "config.json")
	assert.Equal(t, path, cfg.Path())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, ModeHTTP, cfg.GetMode())
	assert.Equal(t, DefaultBackendURL, cfg.GetBaseURL())
	assert.Equal(t, DefaultModel, cfg.GetModel())
	assert.True(t, cfg.IsValid())
	assert.Equal(t, 60*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.GetSessionTTL())
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, DefaultLLMBaseURL, cfg.Server.LLMBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".circuitech", "circuitech.log"), cfg.LogFile)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFrom_DirectProfile(t *testing.T) {
	t.Setenv("CIRCUITECH_API_KEY", "")
	path := writeConfig(t, `{
		"active_profile": "groq",
		"request_timeout": 15,
		"profiles": {
			"groq": {"mode": "direct", "api_key": "gsk-123", "base_url": "https://api.groq.com/openai/v1"},
			"local": {"mode": "http", "base_url": "http://10.0.0.2:8000"}
		},
		"server": {"redis_addr": "localhost:6379", "session_ttl": 600}
	}`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ModeDirect, cfg.GetMode())
	assert.Equal(t, "gsk-123", cfg.GetAPIKey())
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.GetBaseURL())
	assert.Equal(t, DefaultModel, cfg.GetModel())
	assert.True(t, cfg.IsValid())
	assert.Equal(t, 15*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, "localhost:6379", cfg.Server.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.GetSessionTTL())

	require.NoError(t, cfg.UseProfile("local"))
	assert.Equal(t, ModeHTTP, cfg.GetMode())
	assert.Equal(t, "http://10.0.0.2:8000", cfg.GetBaseURL())

	assert.Error(t, cfg.UseProfile("nope"))
}

func TestIsValid_DirectNeedsKey(t *testing.T) {
	t.Setenv("CIRCUITECH_API_KEY", "")
	path := writeConfig(t, `{"active_profile": "d", "profiles": {"d": {"mode": "direct"}}}`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.False(t, cfg.IsValid())
	assert.Equal(t, "", cfg.GetBaseURL())

	t.Setenv("CIRCUITECH_API_KEY", "from-env")
	assert.True(t, cfg.IsValid())
	assert.Equal(t, "from-env", cfg.GetAPIKey())
}

func TestLoadConfigFrom_MissingActiveFallsBack(t *testing.T) {
	path := writeConfig(t, `{"active_profile": "gone", "profiles": {"only": {"base_url": "http://x"}}}`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "only", cfg.ActiveProfile)
	assert.Equal(t, "http://x", cfg.GetBaseURL())
}

func TestLoadConfigFrom_UnknownMode(t *testing.T) {
	path := writeConfig(t, `{"active_profile": "a", "profiles": {"a": {"mode": "grpc"}}}`)

	_, err := LoadConfigFrom(path)
	assert.ErrorContains(t, err, "unknown mode")
}

func TestLoadConfigFrom_InvalidJSON(t *testing.T) {
	_, err := LoadConfigFrom(writeConfig(t, `{"profiles":`))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CIRCUITECH_LOG_LEVEL", "debug")
	t.Setenv("CIRCUITECH_SERVER_ADDR", ":9999")
	path := writeConfig(t, `{"active_profile": "a", "log_level": "warn", "profiles": {"a": {"mode": "http"}}}`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("CIRCUITECH_API_KEY", "")
	path := writeConfig(t, `{"active_profile": "default", "profiles": {"default": {"mode": "http", "base_url": "http://localhost:8000"}}}`)
	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	cfg.Profiles["groq"] = Profile{Mode: ModeDirect, APIKey: "gsk-abc", Model: "llama-3.1-8b-instant"}
	require.NoError(t, cfg.UseProfile("groq"))
	cfg.RequestTimeout = 30
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "groq", reloaded.ActiveProfile)
	assert.Equal(t, "gsk-abc", reloaded.GetAPIKey())
	assert.Equal(t, "llama-3.1-8b-instant", reloaded.GetModel())
	assert.Equal(t, 30*time.Second, reloaded.GetRequestTimeout())
	assert.Len(t, reloaded.Profiles, 2)
}
