package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the top-level configuration for lead-intel.
type Config struct {
	Hunter     HunterConfig     `yaml:"hunter" mapstructure:"hunter"`
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Usage      UsageConfig      `yaml:"usage" mapstructure:"usage"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// HunterConfig configures the Hunter email finder and domain search.
type HunterConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApolloConfig configures the Apollo company and person directory.
type ApolloConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// EnrichConfig holds enrichment orchestration settings.
type EnrichConfig struct {
	ProviderTimeoutSecs int  `yaml:"provider_timeout_secs" mapstructure:"provider_timeout_secs"`
	AllowOffline        bool `yaml:"allow_offline" mapstructure:"allow_offline"`
}

// ProviderTimeout returns the per-call provider timeout.
func (e EnrichConfig) ProviderTimeout() time.Duration {
	if e.ProviderTimeoutSecs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(e.ProviderTimeoutSecs) * time.Second
}

// ScoringConfig holds lead scoring settings.
type ScoringConfig struct {
	MinScore   int    `yaml:"min_score" mapstructure:"min_score"`
	RulesFile  string `yaml:"rules_file" mapstructure:"rules_file"`
	JitterSeed uint64 `yaml:"jitter_seed" mapstructure:"jitter_seed"`
}

// StoreConfig selects and configures the lead store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RedisConfig configures the optional Redis usage counter backend.
type RedisConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// UsageConfig holds monthly provider quotas and per-request prices.
type UsageConfig struct {
	Backend string                   `yaml:"backend" mapstructure:"backend"`
	Quotas  map[string]ProviderQuota `yaml:"quotas" mapstructure:"quotas"`
}

// ProviderQuota is the monthly allowance for a single provider.
type ProviderQuota struct {
	Monthly    int64   `yaml:"monthly" mapstructure:"monthly"`
	PlanUSD    float64 `yaml:"plan_usd" mapstructure:"plan_usd"`
	OverageUSD float64 `yaml:"overage_usd" mapstructure:"overage_usd"`
}

// CircuitConfig configures per-provider circuit breakers.
type CircuitConfig struct {
	FailureThreshold  int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs  int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
	HalfOpenMaxProbes int `yaml:"half_open_max_probes" mapstructure:"half_open_max_probes"`
}

// SalesforceConfig holds JWT bearer credentials for lead export.
type SalesforceConfig struct {
	ClientID   string `yaml:"client_id" mapstructure:"client_id"`
	Username   string `yaml:"username" mapstructure:"username"`
	KeyPath    string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL   string `yaml:"login_url" mapstructure:"login_url"`
	LeadSource string `yaml:"lead_source" mapstructure:"lead_source"`
}

// NotionConfig holds the Notion token and the leads database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// BatchConfig controls concurrent batch enrichment.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// MonitoringConfig configures quota and provider health alerts.
type MonitoringConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	WebhookURL        string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	QuotaWarnRatio    float64 `yaml:"quota_warn_ratio" mapstructure:"quota_warn_ratio"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and LEADINTEL_ env vars.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEADINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("hunter.key", "")
	v.SetDefault("apollo.key", "")
	v.SetDefault("hunter.base_url", "https://api.hunter.io")
	v.SetDefault("hunter.rate_limit", 10)
	v.SetDefault("apollo.base_url", "https://api.apollo.io")
	v.SetDefault("apollo.rate_limit", 5)
	v.SetDefault("enrich.provider_timeout_secs", 8)
	v.SetDefault("enrich.allow_offline", false)
	v.SetDefault("scoring.min_score", 70)
	v.SetDefault("scoring.rules_file", "")
	v.SetDefault("scoring.jitter_seed", 0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadintel.db")
	v.SetDefault("redis.url", "")
	v.SetDefault("usage.backend", "memory")
	v.SetDefault("usage.quotas.hunter.monthly", 25)
	v.SetDefault("usage.quotas.hunter.plan_usd", 0)
	v.SetDefault("usage.quotas.hunter.overage_usd", 0.098)
	v.SetDefault("usage.quotas.apollo.monthly", 60)
	v.SetDefault("usage.quotas.apollo.plan_usd", 0)
	v.SetDefault("usage.quotas.apollo.overage_usd", 0.20)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("circuit.half_open_max_probes", 1)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.lead_source", "Lead Intelligence")
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.lead_db", "")
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("monitoring.enabled", false)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.quota_warn_ratio", 0.8)
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

// Validate checks that the fields required by the given command mode are set.
// Modes: "enrich", "batch", "serve", "export-salesforce", "export-notion".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Usage.Backend == "redis" && c.Redis.URL == "" {
		errs = append(errs, "redis.url is required when usage.backend is redis")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50 {
		errs = append(errs, "batch.max_concurrent must be between 1 and 50")
	}

	switch mode {
	case "enrich", "batch":
		if c.Hunter.Key == "" && c.Apollo.Key == "" && !c.Enrich.AllowOffline {
			errs = append(errs, "hunter.key or apollo.key is required (or set enrich.allow_offline)")
		}
		if c.Scoring.MinScore < 0 || c.Scoring.MinScore > 100 {
			errs = append(errs, "scoring.min_score must be between 0 and 100")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	case "export-salesforce":
		if c.Salesforce.ClientID == "" {
			errs = append(errs, "salesforce.client_id is required")
		}
		if c.Salesforce.Username == "" {
			errs = append(errs, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			errs = append(errs, "salesforce.key_path is required")
		}
	case "export-notion":
		if c.Notion.Token == "" {
			errs = append(errs, "notion.token is required")
		}
		if c.Notion.LeadDB == "" {
			errs = append(errs, "notion.lead_db is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
