package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset      DatasetConfig      `yaml:"dataset" mapstructure:"dataset"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	Period       PeriodConfig       `yaml:"period" mapstructure:"period"`
	Matching     MatchingConfig     `yaml:"matching" mapstructure:"matching"`
	Conversation ConversationConfig `yaml:"conversation" mapstructure:"conversation"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// DatasetConfig points at the ledger source. Driver is "csv" or "sqlite".
type DatasetConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for the NL services.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// MaxAttempts bounds calls to the external services: 2 means at most one
	// retry on a transient failure.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// Timeout returns the per-call deadline for external service calls.
func (c AnthropicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// PeriodConfig anchors relative temporal references.
type PeriodConfig struct {
	// AnchorYear resolves "this year" and friends. Zero means the current
	// wall-clock year.
	AnchorYear int `yaml:"anchor_year" mapstructure:"anchor_year"`
}

// MatchingConfig holds the fuzzy-disambiguation thresholds. They are
// configuration, not hard-coded constants, so boundary behavior is
// assertable in tests.
type MatchingConfig struct {
	// AutoResolveThreshold is the minimum similarity score for the top
	// candidate to resolve without asking the user.
	AutoResolveThreshold float64 `yaml:"auto_resolve_threshold" mapstructure:"auto_resolve_threshold"`
	// AutoResolveMargin is the minimum lead the top candidate must have over
	// the runner-up.
	AutoResolveMargin float64 `yaml:"auto_resolve_margin" mapstructure:"auto_resolve_margin"`
	// MaxCandidates caps ranked candidate lists shown to the user.
	MaxCandidates int `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// ConversationConfig bounds per-session history.
type ConversationConfig struct {
	Window int `yaml:"window" mapstructure:"window"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REALESTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.driver", "csv")
	v.SetDefault("dataset.path", "data/ledger.csv")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.max_attempts", 2)
	v.SetDefault("period.anchor_year", 0)
	v.SetDefault("matching.auto_resolve_threshold", 0.85)
	v.SetDefault("matching.auto_resolve_margin", 0.15)
	v.SetDefault("matching.max_candidates", 5)
	v.SetDefault("conversation.window", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
