package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://listen-api.listennotes.com/api/v2", cfg.ListenNotes.BaseURL)
	assert.Equal(t, "https://podscan.fm/api/v1", cfg.Podscan.BaseURL)
	assert.Equal(t, "https://api.apify.com/v2", cfg.Apify.BaseURL)
	assert.Equal(t, "apidojo~twitter-user-scraper", cfg.Apify.Actors.Twitter)
	assert.Equal(t, "clockworks~tiktok-profile-scraper", cfg.Apify.Actors.TikTok)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 8, cfg.Enrich.Workers)
	assert.Equal(t, 200, cfg.Enrich.ProbeIntervalMs)
	assert.False(t, cfg.Enrich.RSSEnabled)
	assert.Equal(t, 8, cfg.Vet.Workers)
	assert.Equal(t, "data", cfg.Artifacts.DataDir)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
listennotes:
  key: ln-key
podscan:
  token: ps-token
log:
  level: debug
  format: console
enrich:
  workers: 4
  rss_enabled: true
artifacts:
  data_dir: /var/podscout
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ln-key", cfg.ListenNotes.Key)
	assert.Equal(t, "ps-token", cfg.Podscan.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Enrich.Workers)
	assert.True(t, cfg.Enrich.RSSEnabled)
	assert.Equal(t, "/var/podscout", cfg.Artifacts.DataDir)
	// Defaults still apply for unset values
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, 8, cfg.Vet.Workers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	yaml := `
log:
  level: debug
listennotes:
  key: from-file
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PODSCOUT_LOG_LEVEL", "warn")
	t.Setenv("PODSCOUT_LISTENNOTES_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.ListenNotes.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("PODSCOUT_ENRICH_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Enrich.Workers)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func TestValidateSearchKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateSearchKeys()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listennotes.key")
	assert.Contains(t, err.Error(), "podscan.token")

	cfg.ListenNotes.Key = "ln"
	err = cfg.ValidateSearchKeys()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "listennotes.key")
	assert.Contains(t, err.Error(), "podscan.token")

	cfg.Podscan.Token = "ps"
	assert.NoError(t, cfg.ValidateSearchKeys())
}

func TestValidatePipelineKeys(t *testing.T) {
	cfg := &Config{}
	cfg.ListenNotes.Key = "ln"
	cfg.Podscan.Token = "ps"

	err := cfg.ValidatePipelineKeys()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")
	assert.Contains(t, err.Error(), "perplexity.key")
	assert.Contains(t, err.Error(), "apify.token")

	cfg.Anthropic.Key = "ak"
	cfg.Perplexity.Key = "pk"
	cfg.Apify.Token = "at"
	assert.NoError(t, cfg.ValidatePipelineKeys())
}

func TestValidatePipelineKeys_RequiresSearchKeys(t *testing.T) {
	cfg := &Config{}
	cfg.Anthropic.Key = "ak"
	cfg.Perplexity.Key = "pk"
	cfg.Apify.Token = "at"

	err := cfg.ValidatePipelineKeys()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listennotes.key")
}

func TestValidateKeywordKeys(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateKeywordKeys())

	cfg.Anthropic.Key = "ak"
	assert.NoError(t, cfg.ValidateKeywordKeys())
}
