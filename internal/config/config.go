package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store StoreConfig
	AI    AIConfig
	UI    UIConfig
}

// StoreConfig holds document-store settings.
type StoreConfig struct {
	Path string
}

// AIConfig holds classifier settings. There is deliberately no built-in
// default key: the credential comes from the environment or the config file,
// or AI categorization is simply off.
type AIConfig struct {
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
	BaseURL   string `mapstructure:"base_url"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// PHANTOMFIN_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "phantomfin", "phantomfin.db"))
	v.SetDefault("ai.api_key_env", "GROQ_API_KEY")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "llama-3.3-70b-versatile")
	v.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ui.date_format", "Jan 2, 2006")
	v.SetDefault("ui.currency_symbol", "$")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PHANTOMFIN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "phantomfin"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PHANTOMFIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The API key is stored in plain text; prefer the env var.
func Save(cfg Config) error {
	path := os.Getenv("PHANTOMFIN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "phantomfin", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.path", cfg.Store.Path)
	v.Set("ai.api_key_env", cfg.AI.APIKeyEnv)
	v.Set("ai.api_key", cfg.AI.APIKey)
	v.Set("ai.model", cfg.AI.Model)
	v.Set("ai.base_url", cfg.AI.BaseURL)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the classifier credential: env var first, then the
// config file value. Empty means no credential is configured.
func ResolveAPIKey(cfg Config) string {
	env := strings.TrimSpace(cfg.AI.APIKeyEnv)
	if env == "" {
		env = "GROQ_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(cfg.AI.APIKey)
}
