package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Leads      LeadsConfig      `yaml:"leads" mapstructure:"leads"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Results    ResultsConfig    `yaml:"results" mapstructure:"results"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and tunes the language model backend.
type LLMConfig struct {
	Provider            string  `yaml:"provider" mapstructure:"provider"`
	UseLocal            bool    `yaml:"use_local" mapstructure:"use_local"`
	Model               string  `yaml:"model" mapstructure:"model"`
	AnthropicKey        string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	GeminiKey           string  `yaml:"gemini_key" mapstructure:"gemini_key"`
	OllamaURL           string  `yaml:"ollama_url" mapstructure:"ollama_url"`
	Temperature         float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens           int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries          int     `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelayMs        int     `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	TimeoutSecs         int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit           float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	BreakerThreshold    int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs int     `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// AnalysisConfig configures profile derivation.
type AnalysisConfig struct {
	MaxContentLength   int  `yaml:"max_content_length" mapstructure:"max_content_length"`
	ImportantPagesOnly bool `yaml:"important_pages_only" mapstructure:"important_pages_only"`
}

// LeadsConfig configures lead generation.
type LeadsConfig struct {
	FindExternal bool   `yaml:"find_external" mapstructure:"find_external"`
	MaxExternal  int    `yaml:"max_external" mapstructure:"max_external"`
	CatalogPath  string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// CacheConfig selects the cache store.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Dir         string `yaml:"dir" mapstructure:"dir"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLSecs     int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// ScrapeConfig configures website fetching.
type ScrapeConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyMB   int    `yaml:"max_body_mb" mapstructure:"max_body_mb"`
}

// ResultsConfig configures where run results are written.
type ResultsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID   string `yaml:"client_id" mapstructure:"client_id"`
	Username   string `yaml:"username" mapstructure:"username"`
	KeyPath    string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL   string `yaml:"login_url" mapstructure:"login_url"`
	LeadSource string `yaml:"lead_source" mapstructure:"lead_source"`
}

// Configured reports whether enough is set to authenticate.
func (c SalesforceConfig) Configured() bool {
	return c.ClientID != "" && c.Username != "" && c.KeyPath != ""
}

// NotionConfig holds the Notion token and lead database.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// Configured reports whether leads can be written to Notion.
func (c NotionConfig) Configured() bool {
	return c.Token != "" && c.LeadDB != ""
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the unprefixed environment variables older
// deployments set.
var legacyEnv = map[string]string{
	"llm.use_local":                 "USE_LOCAL_LLM",
	"llm.anthropic_key":             "ANTHROPIC_API_KEY",
	"llm.gemini_key":                "GEMINI_API_KEY",
	"analysis.max_content_length":   "MAX_CONTENT_LENGTH",
	"analysis.important_pages_only": "SCRAPE_IMPORTANT_PAGES_ONLY",
	"leads.find_external":           "FIND_EXTERNAL_LEADS",
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	// A missing .env is normal; a malformed one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "LEADGEN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", env)
		}
	}

	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.use_local", false)
	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_ms", 2000)
	v.SetDefault("llm.timeout_secs", 60)
	v.SetDefault("llm.rate_limit", 0)
	v.SetDefault("llm.breaker_threshold", 3)
	v.SetDefault("llm.breaker_cooldown_secs", 60)
	v.SetDefault("analysis.max_content_length", 2000)
	v.SetDefault("analysis.important_pages_only", true)
	v.SetDefault("leads.find_external", true)
	v.SetDefault("leads.max_external", 5)
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.dir", "data/cache")
	v.SetDefault("cache.ttl_secs", 86400)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; lead-cli/1.0)")
	v.SetDefault("scrape.max_body_mb", 5)
	v.SetDefault("results.dir", "data/results")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.lead_source", "Website Analysis")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
