package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeHTTP   = "http"
	ModeDirect = "direct"

	DefaultBackendURL = "http://localhost:8000"
	DefaultModel      = "llama-3.3-70b-versatile"
	DefaultLLMBaseURL = "https://api.groq.com/openai/v1"

	envPrefix = "CIRCUITECH"
)

// Profile selects how the client reaches the reasoning backend. In http mode
// BaseURL is the backend server; in direct mode it is an optional
// OpenAI-compatible endpoint and APIKey is required.
type Profile struct {
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	RedisAddr  string `mapstructure:"redis_addr"`
	SessionTTL int    `mapstructure:"session_ttl"` // seconds
	LLMBaseURL string `mapstructure:"llm_base_url"`
}

type Config struct {
	Profiles       map[string]Profile `mapstructure:"profiles"`
	ActiveProfile  string             `mapstructure:"active_profile"`
	LogFile        string             `mapstructure:"log_file"`
	LogLevel       string             `mapstructure:"log_level"`
	RequestTimeout int                `mapstructure:"request_timeout"` // seconds
	Server         ServerConfig       `mapstructure:"server"`

	path           string
	currentProfile *Profile
}

// LoadConfig reads ~/.circuitech/config.json (CIRCUITECH_HOME overrides the
// home directory), creating it with a default profile when missing.
// CIRCUITECH_* environment variables override file values.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.path = configPath

	if err := cfg.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}
	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetDefault("active_profile", "default")
	v.SetDefault("log_file", filepath.Join(filepath.Dir(configPath), "circuitech.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 60)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.redis_addr", "")
	v.SetDefault("server.session_ttl", 86400)
	v.SetDefault("server.llm_base_url", DefaultLLMBaseURL)

	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func createDefaultConfig(configPath string) error {
	cfg := &Config{
		Profiles: map[string]Profile{
			"default": {
				Mode:    ModeHTTP,
				BaseURL: DefaultBackendURL,
				Model:   DefaultModel,
			},
		},
		ActiveProfile: "default",
		path:          configPath,
	}
	return cfg.Save()
}

// Save writes profiles and settings back to the config file.
func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}

	v := newViper(c.path)
	profiles := make(map[string]any, len(c.Profiles))
	for name, p := range c.Profiles {
		profiles[name] = map[string]any{
			"mode":     p.Mode,
			"base_url": p.BaseURL,
			"api_key":  p.APIKey,
			"model":    p.Model,
		}
	}
	v.Set("profiles", profiles)
	v.Set("active_profile", c.ActiveProfile)
	if c.LogFile != "" {
		v.Set("log_file", c.LogFile)
	}
	if c.LogLevel != "" {
		v.Set("log_level", c.LogLevel)
	}
	if c.RequestTimeout > 0 {
		v.Set("request_timeout", c.RequestTimeout)
	}
	if c.Server.Addr != "" {
		v.Set("server.addr", c.Server.Addr)
	}
	v.Set("server.redis_addr", c.Server.RedisAddr)
	if c.Server.SessionTTL > 0 {
		v.Set("server.session_ttl", c.Server.SessionTTL)
	}
	if c.Server.LLMBaseURL != "" {
		v.Set("server.llm_base_url", c.Server.LLMBaseURL)
	}

	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(c.path, 0o600)
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) IsValid() bool {
	if c.currentProfile == nil {
		return false
	}
	switch c.GetMode() {
	case ModeDirect:
		return c.GetAPIKey() != ""
	default:
		return c.GetBaseURL() != ""
	}
}

func (c *Config) GetMode() string {
	if c.currentProfile == nil || c.currentProfile.Mode == "" {
		return ModeHTTP
	}
	return strings.ToLower(c.currentProfile.Mode)
}

// GetAPIKey prefers CIRCUITECH_API_KEY over the profile value.
func (c *Config) GetAPIKey() string {
	if key := os.Getenv(envPrefix + "_API_KEY"); key != "" {
		return key
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	if c.currentProfile.BaseURL == "" && c.GetMode() == ModeHTTP {
		return DefaultBackendURL
	}
	return c.currentProfile.BaseURL
}

func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) GetSessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTL) * time.Second
}

// UseProfile makes name the active profile.
func (c *Config) UseProfile(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

func getConfigPath() (string, error) {
	var configDir string

	// Use CIRCUITECH_HOME if set, otherwise use user's home directory
	if home := os.Getenv(envPrefix + "_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".circuitech", "config.json"), nil
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	switch strings.ToLower(profile.Mode) {
	case "", ModeHTTP, ModeDirect:
	default:
		return fmt.Errorf("profile '%s': unknown mode %q", c.ActiveProfile, profile.Mode)
	}

	c.currentProfile = &profile
	return nil
}
