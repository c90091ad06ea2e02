package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// legacyHuggingFaceTokenEnv is the token variable read by the Hugging Face client libraries
const legacyHuggingFaceTokenEnv = "HUGGINGFACE_API_TOKEN"

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAPIKeyFallbacks()
	c.applyObservabilityDefaults()
}

// applyAPIKeyFallbacks picks up provider tokens from their conventional environment variables
func (c *Config) applyAPIKeyFallbacks() {
	if c.NLP.HuggingFaceAPIKey == "" {
		c.NLP.HuggingFaceAPIKey = strings.TrimSpace(os.Getenv(legacyHuggingFaceTokenEnv))
	}
	if c.NLP.GeminiAPIKey == "" {
		c.NLP.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Console output follows debug logging unless explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = c.Observability.Console.Enabled
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMATCH_NLP_PROVIDER",
		"RESUMATCH_NLP_HUGGINGFACEAPIKEY",
		"RESUMATCH_NLP_GEMINIAPIKEY",
		"RESUMATCH_SCORING_CATALOGFILE",
		"RESUMATCH_APP_LOGLEVEL",
		"RESUMATCH_VAULT_ENABLED",
		legacyHuggingFaceTokenEnv,
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitiveEnv(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] NLP Provider: %s", c.NLP.Provider)
	log.Printf("[CONFIG] Hugging Face API Key: %s", maskedPresence(c.NLP.HuggingFaceAPIKey))
	log.Printf("[CONFIG] Gemini API Key: %s", maskedPresence(c.NLP.GeminiAPIKey))
	log.Printf("[CONFIG] Catalog File: %s", valueOrBuiltin(c.Scoring.CatalogFile))
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Operation-Specific NLP Configurations ===")
	entities := c.GetEntitiesConfig()
	similarity := c.GetSimilarityConfig()
	log.Printf("[CONFIG] Entities - Provider: %s, Model: %s, Timeout: %s", entities.Provider, entities.Model, *entities.Timeout)
	log.Printf("[CONFIG] Similarity - Provider: %s, Model: %s, Timeout: %s", similarity.Provider, similarity.Model, *similarity.Timeout)

	log.Println("[CONFIG] =====================================")
}

func isSensitiveEnv(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "token")
}

func maskedPresence(secret string) string {
	if secret != "" {
		return "***CONFIGURED***"
	}
	return "***NOT SET***"
}

func valueOrBuiltin(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
