package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, BackendFS, cfg.Storage.Backend)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.LLM.Claude.Model)
	assert.Equal(t, "gemini-pro", cfg.LLM.Gemini.Model)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9090
allowed_origins = ["https://play.example.com/"]

[llm.claude]
api_key = "file-key"

[storage]
games_dir = "/data/games"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "9191")
	t.Setenv("CLAUDE_API_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("ALLOWED_ORIGINS", "https://extra.example.com, ,https://play.example.com")
	t.Setenv("DEBUG", "False")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, "/data/games", cfg.Storage.GamesDir)
	assert.Equal(t, "env-key", cfg.LLM.Claude.APIKey)
	assert.Equal(t, "gemini-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, []string{"https://play.example.com", "https://extra.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")

	_, err := Load("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8123
	assert.Equal(t, "127.0.0.1:8123", cfg.Addr())
}

func TestLoad_RejectsOriginWithoutScheme(t *testing.T) {
	for _, origin := range []string{"localhost:3000", "ftp://files.example.com", "https://", "https://*.example.com", "https://a.example.com/app"} {
		t.Run(origin, func(t *testing.T) {
			t.Setenv("ALLOWED_ORIGINS", origin)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "ALLOWED_ORIGINS")
		})
	}
}

func TestValidate_AcceptsPortedOrigins(t *testing.T) {
	cfg := Default()
	cfg.Server.AllowedOrigins = []string{"http://localhost:3003", "https://play.example.com"}
	assert.NoError(t, cfg.Validate())
}
