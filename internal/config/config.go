package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

const (
	BackendFS    = "fs"
	BackendRedis = "redis"
)

type ServerConfig struct {
	Host           string   `toml:"host" envconfig:"HOST"`
	Port           int      `toml:"port" envconfig:"PORT"`
	Debug          bool     `toml:"debug" envconfig:"DEBUG"`
	AllowedOrigins []string `toml:"allowed_origins" ignored:"true"`
	PublicBaseURL  string   `toml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
}

type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type LLMConfig struct {
	Claude         ProviderConfig `toml:"claude" ignored:"true"`
	Gemini         ProviderConfig `toml:"gemini" ignored:"true"`
	TimeoutSeconds int            `toml:"timeout_seconds" envconfig:"LLM_TIMEOUT_SECONDS"`
	MaxTokens      int            `toml:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
}

// Timeout bounds a single upstream generation call.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type StorageConfig struct {
	Backend        string `toml:"backend" envconfig:"STORAGE_BACKEND"`
	GamesDir       string `toml:"games_dir" envconfig:"GAMES_DIR"`
	UploadsDir     string `toml:"uploads_dir" envconfig:"UPLOADS_DIR"`
	RedisURL       string `toml:"redis_url" envconfig:"REDIS_URL"`
	MaxUploadBytes int64  `toml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

type CleanupConfig struct {
	Schedule string `toml:"schedule" envconfig:"CLEANUP_SCHEDULE"`
	DaysOld  int    `toml:"days_old" envconfig:"CLEANUP_DAYS_OLD"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri" envconfig:"MEMGRAPH_URI"`
	User     string `toml:"user" envconfig:"MEMGRAPH_USER"`
	Password string `toml:"password" envconfig:"MEMGRAPH_PASSWORD"`
}

type LogConfig struct {
	Level    string `toml:"level" envconfig:"LOG_LEVEL"`
	Encoding string `toml:"encoding" envconfig:"LOG_ENCODING"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Cleanup  CleanupConfig  `toml:"cleanup"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  "0.0.0.0",
			Port:  8000,
			Debug: true,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3003",
			},
			PublicBaseURL: "http://localhost:3000",
		},
		LLM: LLMConfig{
			Claude:         ProviderConfig{Model: "claude-3-5-sonnet-20241022"},
			Gemini:         ProviderConfig{Model: "gemini-pro"},
			TimeoutSeconds: 30,
			MaxTokens:      1000,
		},
		Storage: StorageConfig{
			Backend:        BackendFS,
			GamesDir:       "saved_games",
			UploadsDir:     "uploads",
			RedisURL:       "redis://localhost:6379/0",
			MaxUploadBytes: 5 << 20,
		},
		Cleanup: CleanupConfig{
			DaysOld: 30,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file at path
// and finally the process environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse TOML: %w", err)
			}
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	applyProviderEnv(&cfg.LLM)
	// ALLOWED_ORIGINS extends the configured list rather than replacing it.
	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, strings.Split(extra, ",")...)
	}
	cfg.Server.AllowedOrigins = cleanOrigins(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Provider sections share field names, so they are read explicitly instead
// of through envconfig prefixes.
func applyProviderEnv(llm *LLMConfig) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"CLAUDE_API_KEY", &llm.Claude.APIKey},
		{"CLAUDE_MODEL", &llm.Claude.Model},
		{"CLAUDE_BASE_URL", &llm.Claude.BaseURL},
		{"GEMINI_API_KEY", &llm.Gemini.APIKey},
		{"GEMINI_MODEL", &llm.Gemini.Model},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

func cleanOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case BackendFS, BackendRedis:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (use %q or %q)", c.Storage.Backend, BackendFS, BackendRedis)
	}
	if c.Storage.GamesDir == "" {
		return fmt.Errorf("GAMES_DIR is required")
	}
	if c.Storage.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR is required")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive")
	}
	if c.Cleanup.DaysOld < 0 {
		return fmt.Errorf("CLEANUP_DAYS_OLD must not be negative")
	}
	for _, o := range c.Server.AllowedOrigins {
		if err := validateOrigin(o); err != nil {
			return err
		}
	}
	return nil
}

// validateOrigin accepts scheme://host[:port] with http or https, the only
// form the CORS middleware takes without panicking.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid ALLOWED_ORIGINS entry %q: want http(s)://host[:port]", origin)
	}
	if strings.Contains(origin, "*") || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid ALLOWED_ORIGINS entry %q: want http(s)://host[:port]", origin)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
