package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PHANTOMFIN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "GROQ_API_KEY", cfg.AI.APIKeyEnv)
	require.Equal(t, "llama-3.3-70b-versatile", cfg.AI.Model)
	require.Empty(t, cfg.AI.APIKey) // no built-in credential
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	require.Contains(t, cfg.Store.Path, "phantomfin")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("PHANTOMFIN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.AI.Model = "llama-3.1-8b-instant"
	cfg.UI.CurrencySymbol = "£"
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "llama-3.1-8b-instant", got.AI.Model)
	require.Equal(t, "£", got.UI.CurrencySymbol)
}

func TestResolveAPIKey_EnvWinsOverConfig(t *testing.T) {
	cfg := Config{AI: AIConfig{APIKeyEnv: "PHANTOMFIN_TEST_KEY", APIKey: "from-config"}}

	t.Setenv("PHANTOMFIN_TEST_KEY", "")
	require.Equal(t, "from-config", ResolveAPIKey(cfg))

	t.Setenv("PHANTOMFIN_TEST_KEY", "from-env")
	require.Equal(t, "from-env", ResolveAPIKey(cfg))
}
