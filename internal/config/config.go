package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Supported remote NLP providers
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderNone        = "none"
)

// Operation names used for per-operation NLP configuration
const (
	OperationEntities   = "entities"
	OperationSimilarity = "similarity"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMATCH_NLP_HUGGINGFACEAPIKEY, HUGGINGFACE_API_TOKEN, etc.)
// 4. Default values - Lowest priority
type Config struct {
	NLP           NLPConfig           `mapstructure:"nlp"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	loadedPrompts AllLoadedPrompts
}

// NLPConfig holds the remote entity-recognition and similarity provider configuration
type NLPConfig struct {
	// Global/fallback configuration
	Provider          string        `mapstructure:"provider" validate:"oneof=huggingface gemini none"`
	BaseURL           string        `mapstructure:"baseURL" validate:"omitempty,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	HuggingFaceAPIKey string        `mapstructure:"huggingFaceApiKey"`
	GeminiAPIKey      string        `mapstructure:"geminiApiKey"`
	MaxRetries        int           `mapstructure:"maxRetries" validate:"gte=0,lte=10"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond" validate:"gte=0"`
	Temperature       float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	CustomPrompts     PromptConfig  `mapstructure:"customPrompts"`

	// Operation-specific configurations
	Entities   OperationNLPConfig `mapstructure:"entities"`
	Similarity OperationNLPConfig `mapstructure:"similarity"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`                                      // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`                                  // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`                                     // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`                                      // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`                                  // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold" validate:"gte=0,lte=1"` // Failure ratio threshold (0.0-1.0)
}

// OperationNLPConfig holds NLP provider configuration for one operation.
// Pointer fields are nil until the global fallback is applied.
type OperationNLPConfig struct {
	Provider          string               `mapstructure:"provider" validate:"omitempty,oneof=huggingface gemini none"`
	Model             string               `mapstructure:"model"`
	BaseURL           string               `mapstructure:"baseURL" validate:"omitempty,url"`
	Timeout           *time.Duration       `mapstructure:"timeout"`
	APIKey            string               `mapstructure:"apiKey"`
	MaxRetries        *int                 `mapstructure:"maxRetries"`
	RequestsPerSecond *float64             `mapstructure:"requestsPerSecond"`
	Temperature       *float32             `mapstructure:"temperature"`
	CustomPrompts     PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker    CircuitBreakerConfig `mapstructure:"circuitBreaker"`

	// Prompt content read from CustomPrompts file paths at load time
	LoadedPrompts LoadedPrompts `mapstructure:"-"`
}

// PromptConfig holds configuration for customizable entity-extraction prompts
type PromptConfig struct {
	SystemPrompt     string `mapstructure:"systemPrompt"`
	SystemPromptFile string `mapstructure:"systemPromptFile"`
	UserPrompt       string `mapstructure:"userPrompt"`
	UserPromptFile   string `mapstructure:"userPromptFile"`
}

// ScoringConfig holds scoring engine configuration
type ScoringConfig struct {
	// CatalogFile optionally replaces the built-in keyword catalog (YAML)
	CatalogFile string `mapstructure:"catalogFile"`
	// Concurrent runs entity extraction and similarity in parallel
	Concurrent bool `mapstructure:"concurrent"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel" validate:"oneof=debug info warn error"`
	DefaultFormat    string   `mapstructure:"defaultFormat" validate:"required"`
	SupportedFormats []string `mapstructure:"supportedFormats" validate:"required,min=1"`
	MaxFileSize      int64    `mapstructure:"maxFileSize" validate:"gt=0"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate" validate:"gte=0,lte=1"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	RemoteCalls     RemoteCallMetricsConfig `mapstructure:"remoteCalls"`
	BusinessMetrics BusinessMetricsConfig   `mapstructure:"businessMetrics"`
}

// RemoteCallMetricsConfig holds remote provider call metrics configuration
type RemoteCallMetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	TrackDuration bool `mapstructure:"trackDuration"`
}

// BusinessMetricsConfig holds scoring metrics configuration
type BusinessMetricsConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	TrackScores         bool `mapstructure:"trackScores"`
	TrackFallbacks      bool `mapstructure:"trackFallbacks"`
	TrackContentLengths bool `mapstructure:"trackContentLengths"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("RESUMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// per-operation timeouts have no default, so bind their env keys explicitly
	for _, op := range []string{OperationEntities, OperationSimilarity} {
		_ = v.BindEnv("nlp." + op + ".timeout")
	}
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMATCH'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumatch/")
	v.AddConfigPath("$HOME/.resumatch")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/resumatch/, $HOME/.resumatch, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	return buildConfig(v, configFileUsed)
}

// buildConfig unmarshals, completes and validates a populated viper instance
func buildConfig(v *viper.Viper, configFileUsed string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.validateReferencedFiles(); err != nil {
		return nil, fmt.Errorf("referenced file validation failed: %w", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	for _, op := range []struct {
		name string
		cfg  OperationNLPConfig
	}{
		{OperationEntities, c.GetEntitiesConfig()},
		{OperationSimilarity, c.GetSimilarityConfig()},
	} {
		if *op.cfg.Timeout <= 0 {
			return fmt.Errorf("%s timeout must be positive", op.name)
		}
		if op.cfg.Provider != ProviderNone && op.cfg.Model == "" {
			return fmt.Errorf("%s model is required for provider %s", op.name, op.cfg.Provider)
		}
	}

	return nil
}
