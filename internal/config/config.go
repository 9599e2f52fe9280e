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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Validate  ValidateConfig  `yaml:"validate" mapstructure:"validate"`
	Risk      RiskConfig      `yaml:"risk" mapstructure:"risk"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings for narrative generation.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// Timeout returns the narrative call timeout as a duration.
func (c AnthropicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// ExtractConfig configures field extraction.
type ExtractConfig struct {
	// RulesPath optionally points at a YAML file that overrides or
	// extends the built-in label patterns per field.
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ValidateConfig configures the data validator.
type ValidateConfig struct {
	// BalanceTolerance is the accounting-equation tolerance band as a
	// fraction of total assets.
	BalanceTolerance float64 `yaml:"balance_tolerance" mapstructure:"balance_tolerance"`
}

// RiskConfig holds the threshold table for risk classification.
// The debt-to-equity pair defaults to the 0.5/1.0 set; the stricter
// 1.0/2.0 variant is a config change, not a code change.
type RiskConfig struct {
	LiquidityHighBelow   float64 `yaml:"liquidity_high_below" mapstructure:"liquidity_high_below"`
	LiquidityMediumBelow float64 `yaml:"liquidity_medium_below" mapstructure:"liquidity_medium_below"`
	SolvencyMediumAbove  float64 `yaml:"solvency_medium_above" mapstructure:"solvency_medium_above"`
	SolvencyHighAbove    float64 `yaml:"solvency_high_above" mapstructure:"solvency_high_above"`
	OperationalMedAbove  float64 `yaml:"operational_medium_above" mapstructure:"operational_medium_above"`
	OperationalHighAbove float64 `yaml:"operational_high_above" mapstructure:"operational_high_above"`
}

// AnalyzeConfig configures batch document processing.
type AnalyzeConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the REST API server.
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
	v.SetEnvPrefix("FINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "finsight.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.timeout_secs", 60)
	v.SetDefault("anthropic.rate_per_sec", 2)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_api_key", "")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("extract.rules_path", "")
	v.SetDefault("validate.balance_tolerance", 0.05)
	v.SetDefault("risk.liquidity_high_below", 1.0)
	v.SetDefault("risk.liquidity_medium_below", 1.5)
	v.SetDefault("risk.solvency_medium_above", 0.5)
	v.SetDefault("risk.solvency_high_above", 1.0)
	v.SetDefault("risk.operational_medium_above", 0.4)
	v.SetDefault("risk.operational_high_above", 0.6)
	v.SetDefault("analyze.max_concurrent_documents", 4)

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
