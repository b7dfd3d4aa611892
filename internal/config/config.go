package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	ListenNotes ListenNotesConfig `yaml:"listennotes" mapstructure:"listennotes"`
	Podscan     PodscanConfig     `yaml:"podscan" mapstructure:"podscan"`
	Apify       ApifyConfig       `yaml:"apify" mapstructure:"apify"`
	Perplexity  PerplexityConfig  `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Enrich      EnrichConfig      `yaml:"enrich" mapstructure:"enrich"`
	Vet         VetConfig         `yaml:"vet" mapstructure:"vet"`
	Artifacts   ArtifactsConfig   `yaml:"artifacts" mapstructure:"artifacts"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ListenNotesConfig holds Listen Notes API settings.
type ListenNotesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PodscanConfig holds Podscan API settings.
type PodscanConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ApifyConfig holds the Apify token and the actor backing each platform
// scraper.
type ApifyConfig struct {
	Token   string       `yaml:"token" mapstructure:"token"`
	BaseURL string       `yaml:"base_url" mapstructure:"base_url"`
	Actors  ActorsConfig `yaml:"actors" mapstructure:"actors"`
}

// ActorsConfig names the Apify actors per platform.
type ActorsConfig struct {
	Twitter   string `yaml:"twitter" mapstructure:"twitter"`
	LinkedIn  string `yaml:"linkedin" mapstructure:"linkedin"`
	Instagram string `yaml:"instagram" mapstructure:"instagram"`
	Facebook  string `yaml:"facebook" mapstructure:"facebook"`
	YouTube   string `yaml:"youtube" mapstructure:"youtube"`
	TikTok    string `yaml:"tiktok" mapstructure:"tiktok"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EnrichConfig configures the enrichment stage.
type EnrichConfig struct {
	Workers         int  `yaml:"workers" mapstructure:"workers"`
	ProbeIntervalMs int  `yaml:"probe_interval_ms" mapstructure:"probe_interval_ms"`
	RSSEnabled      bool `yaml:"rss_enabled" mapstructure:"rss_enabled"`
}

// VetConfig configures the vetting stage.
type VetConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ArtifactsConfig configures CSV artifact output.
type ArtifactsConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// MetricsConfig configures the Prometheus side-channel. When Addr is empty
// no listener is started; the Prometheus sink is active either way when
// Enabled is true.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory is folded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PODSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("listennotes.base_url", "https://listen-api.listennotes.com/api/v2")
	v.SetDefault("podscan.base_url", "https://podscan.fm/api/v1")
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.actors.twitter", "apidojo~twitter-user-scraper")
	v.SetDefault("apify.actors.linkedin", "dev_fusion~linkedin-profile-scraper")
	v.SetDefault("apify.actors.instagram", "apify~instagram-profile-scraper")
	v.SetDefault("apify.actors.facebook", "apify~facebook-pages-scraper")
	v.SetDefault("apify.actors.youtube", "streamers~youtube-channel-scraper")
	v.SetDefault("apify.actors.tiktok", "clockworks~tiktok-profile-scraper")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("enrich.workers", 8)
	v.SetDefault("enrich.probe_interval_ms", 200)
	v.SetDefault("enrich.rss_enabled", false)
	v.SetDefault("vet.workers", 8)
	v.SetDefault("artifacts.data_dir", "data")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "")

	// Read config file (optional)
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

// missingKeys returns the names of unset credentials among the given
// name/value pairs.
func missingKeys(pairs ...[2]string) []string {
	var missing []string
	for _, p := range pairs {
		if strings.TrimSpace(p[1]) == "" {
			missing = append(missing, p[0])
		}
	}
	return missing
}

// ValidateSearchKeys checks the credentials the Search stage needs. Missing
// keys are a configuration error that fails the run at startup.
func (c *Config) ValidateSearchKeys() error {
	missing := missingKeys(
		[2]string{"listennotes.key", c.ListenNotes.Key},
		[2]string{"podscan.token", c.Podscan.Token},
	)
	if len(missing) > 0 {
		return eris.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidatePipelineKeys checks the credentials a full pipeline run needs, on
// top of the search keys: the LLM providers and the scraping provider.
func (c *Config) ValidatePipelineKeys() error {
	if err := c.ValidateSearchKeys(); err != nil {
		return err
	}
	missing := missingKeys(
		[2]string{"anthropic.key", c.Anthropic.Key},
		[2]string{"perplexity.key", c.Perplexity.Key},
		[2]string{"apify.token", c.Apify.Token},
	)
	if len(missing) > 0 {
		return eris.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateKeywordKeys checks the credentials keyword generation needs.
func (c *Config) ValidateKeywordKeys() error {
	if strings.TrimSpace(c.Anthropic.Key) == "" {
		return eris.New("config: missing required keys: anthropic.key")
	}
	return nil
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
