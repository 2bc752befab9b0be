package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.False(t, cfg.LLM.UseLocal)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 2000, cfg.LLM.RetryDelayMs)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaURL)
	assert.Equal(t, 2000, cfg.Analysis.MaxContentLength)
	assert.True(t, cfg.Analysis.ImportantPagesOnly)
	assert.True(t, cfg.Leads.FindExternal)
	assert.Equal(t, 5, cfg.Leads.MaxExternal)
	assert.Equal(t, "file", cfg.Cache.Driver)
	assert.Equal(t, "data/cache", cfg.Cache.Dir)
	assert.Equal(t, 86400, cfg.Cache.TTLSecs)
	assert.Equal(t, "data/results", cfg.Results.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: gemini
  model: gemini-2.5-pro
cache:
  driver: sqlite
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values.
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
cache:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("LEADGEN_CACHE_DRIVER", "postgres")
	t.Setenv("LEADGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadLegacyEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("USE_LOCAL_LLM", "true")
	t.Setenv("MAX_CONTENT_LENGTH", "1500")
	t.Setenv("FIND_EXTERNAL_LEADS", "false")
	t.Setenv("SCRAPE_IMPORTANT_PAGES_ONLY", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.LLM.UseLocal)
	assert.Equal(t, 1500, cfg.Analysis.MaxContentLength)
	assert.False(t, cfg.Leads.FindExternal)
	assert.False(t, cfg.Analysis.ImportantPagesOnly)
}

func TestLoadPrefixedEnvWinsOverLegacy(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LEADGEN_ANALYSIS_MAX_CONTENT_LENGTH", "3000")
	t.Setenv("MAX_CONTENT_LENGTH", "1500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Analysis.MaxContentLength)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEADGEN_SERVER_PORT=3000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LEADGEN_SERVER_PORT") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.Temperature = 0.7
	cfg.LLM.MaxRetries = 3
	cfg.Analysis.MaxContentLength = 2000
	cfg.Cache.Driver = "file"
	cfg.Cache.Dir = "data/cache"
	cfg.Cache.TTLSecs = 86400
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateRun(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("run"))
}

func TestValidateCoreProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "openai"
	cfg.LLM.Temperature = 3
	cfg.Cache.Driver = "postgres"

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
	assert.Contains(t, err.Error(), "llm.temperature")
	assert.Contains(t, err.Error(), "cache.database_url is required")
}

func TestValidateLocalSkipsProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.UseLocal = true
	cfg.LLM.Provider = ""
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateSync(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salesforce or notion")

	cfg.Notion.Token = "ntn_token"
	cfg.Notion.LeadDB = "lead-db-id"
	assert.NoError(t, cfg.Validate("sync"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
