package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 0.75, cfg.Model.Threshold)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr)
	assert.Equal(t, "$", cfg.Currency)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracy.toml")
	body := `
db_path = "/tmp/test.db"
currency = "€"

[model]
provider = "ollama"
ollama_url = "http://localhost:11434"
confidence_threshold = 0.6

[query]
cache_ttl = "90s"

[server]
addr = ":9999"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "€", cfg.Currency)
	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, 0.6, cfg.Model.Threshold)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL())
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("NOTION_TOKEN", "secret_x")
	t.Setenv("TRACY_DB_PATH", "/var/lib/tracy.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "secret_x", cfg.Archive.NotionToken)
	assert.Equal(t, "/var/lib/tracy.db", cfg.DBPath)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nconfidence_threshold = 1.5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
