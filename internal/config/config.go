// Package config loads tracker configuration from a TOML file with
// environment overrides for secrets. Every field has a usable default;
// a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full runtime configuration.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	Currency string `toml:"currency"` // symbol used in answers, e.g. "$" or "€"

	Model   ModelConfig   `toml:"model"`
	Query   QueryConfig   `toml:"query"`
	Server  ServerConfig  `toml:"server"`
	Bot     BotConfig     `toml:"bot"`
	Archive ArchiveConfig `toml:"archive"`
}

// ModelConfig selects the text-generation provider.
type ModelConfig struct {
	Provider  string  `toml:"provider"` // gemini | anthropic | ollama
	Name      string  `toml:"name"`     // provider-specific model name
	OllamaURL string  `toml:"ollama_url"`
	Threshold float64 `toml:"confidence_threshold"`
}

// QueryConfig tunes the query-answering pipeline.
type QueryConfig struct {
	CacheTTL duration `toml:"cache_ttl"`
}

// ServerConfig is the relay HTTP listener.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// BotConfig is the Telegram front-end. The token comes from
// TELEGRAM_BOT_TOKEN; an empty token disables the bot.
type BotConfig struct {
	Token          string  `toml:"-"`
	AllowedChatIDs []int64 `toml:"allowed_chat_ids"`
}

// ArchiveConfig drives the optional BigQuery/GCS export and the Notion
// mirror. The Notion token comes from NOTION_TOKEN.
type ArchiveConfig struct {
	Project          string `toml:"project"`
	Dataset          string `toml:"dataset"`
	Bucket           string `toml:"bucket"`
	NotionDatabaseID string `toml:"notion_database_id"`
	NotionToken      string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:   defaultDBPath(),
		LogLevel: "info",
		Currency: "$",
		Model: ModelConfig{
			Provider:  "gemini",
			Threshold: 0.75,
		},
		Query: QueryConfig{
			CacheTTL: duration{5 * time.Minute},
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8090",
			Metrics: true,
		},
		Archive: ArchiveConfig{
			Dataset: "tracy",
		},
	}
}

// Load reads path (TOML) over the defaults, then applies env overrides.
// A missing file just yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	cfg.Bot.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Archive.NotionToken = os.Getenv("NOTION_TOKEN")
	if v := os.Getenv("TRACY_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TRACY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.Model.Threshold <= 0 || cfg.Model.Threshold > 1 {
		return cfg, fmt.Errorf("config: confidence_threshold %v outside (0, 1]", cfg.Model.Threshold)
	}
	return cfg, nil
}

// CacheTTL returns the configured cache duration.
func (c Config) CacheTTL() time.Duration {
	return c.Query.CacheTTL.Duration
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tracy.db"
	}
	return filepath.Join(home, ".tracy", "tracy.db")
}

// duration lets TOML carry values like "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
