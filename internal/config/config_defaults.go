package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default models per provider and operation
const (
	DefaultHuggingFaceBaseURL         = "https://router.huggingface.co/hf-inference/models"
	DefaultHuggingFaceEntitiesModel   = "dslim/bert-base-NER"
	DefaultHuggingFaceSimilarityModel = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultGeminiEntitiesModel        = "gemini-2.0-flash"
	DefaultGeminiSimilarityModel      = "text-embedding-004"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// NLP Configuration - Global defaults
	v.SetDefault("nlp.provider", ProviderHuggingFace)
	v.SetDefault("nlp.baseURL", "")
	v.SetDefault("nlp.timeout", 10*time.Second)
	v.SetDefault("nlp.huggingFaceApiKey", "")
	v.SetDefault("nlp.geminiApiKey", "")
	v.SetDefault("nlp.maxRetries", 2)
	v.SetDefault("nlp.requestsPerSecond", 5.0)
	v.SetDefault("nlp.temperature", 0.0)

	// NLP Configuration - Entities operation defaults
	v.SetDefault("nlp.entities.provider", "")
	v.SetDefault("nlp.entities.model", "")
	v.SetDefault("nlp.entities.apiKey", "")

	// NLP Configuration - Similarity operation defaults
	v.SetDefault("nlp.similarity.provider", "")
	v.SetDefault("nlp.similarity.model", "")
	v.SetDefault("nlp.similarity.apiKey", "")

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{OperationEntities, OperationSimilarity} {
		prefix := "nlp." + op + ".circuitBreaker."
		v.SetDefault(prefix+"enabled", true)
		v.SetDefault(prefix+"maxRequests", 3)
		v.SetDefault(prefix+"interval", 60*time.Second)
		v.SetDefault(prefix+"timeout", 30*time.Second)
		v.SetDefault(prefix+"minRequests", 3)
		v.SetDefault(prefix+"failureThreshold", 0.6)
	}

	// Scoring Configuration
	v.SetDefault("scoring.catalogFile", "")
	v.SetDefault("scoring.concurrent", true)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.huggingFaceKey", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "resumatch")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.remoteCalls.enabled", true)
	v.SetDefault("observability.customMetrics.remoteCalls.trackDuration", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackScores", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentLengths", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// defaultModelFor returns the built-in model for a provider/operation pair
func defaultModelFor(provider, operation string) string {
	switch provider {
	case ProviderHuggingFace:
		if operation == OperationSimilarity {
			return DefaultHuggingFaceSimilarityModel
		}
		return DefaultHuggingFaceEntitiesModel
	case ProviderGemini:
		if operation == OperationSimilarity {
			return DefaultGeminiSimilarityModel
		}
		return DefaultGeminiEntitiesModel
	default:
		return ""
	}
}
