package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationNLPConfig, operation string) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.NLP.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = defaultModelFor(opCfg.Provider, operation)
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.NLP.BaseURL
	}
	if opCfg.BaseURL == "" && opCfg.Provider == ProviderHuggingFace {
		opCfg.BaseURL = DefaultHuggingFaceBaseURL
	}
	if opCfg.Timeout == nil {
		timeout := c.NLP.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.apiKeyFor(opCfg.Provider)
	}
	if opCfg.MaxRetries == nil {
		maxRetries := c.NLP.MaxRetries
		opCfg.MaxRetries = &maxRetries
	}
	if opCfg.RequestsPerSecond == nil {
		rps := c.NLP.RequestsPerSecond
		opCfg.RequestsPerSecond = &rps
	}
	if opCfg.Temperature == nil {
		temperature := c.NLP.Temperature
		opCfg.Temperature = &temperature
	}
}

// apiKeyFor returns the global API key for a provider
func (c *Config) apiKeyFor(provider string) string {
	switch provider {
	case ProviderHuggingFace:
		return c.NLP.HuggingFaceAPIKey
	case ProviderGemini:
		return c.NLP.GeminiAPIKey
	default:
		return ""
	}
}

// GetEntitiesConfig returns the NLP configuration for entity recognition with fallback to global config
func (c *Config) GetEntitiesConfig() OperationNLPConfig {
	config := c.NLP.Entities

	c.applyOperationDefaults(&config, OperationEntities)

	// Apply prompt fallbacks
	if config.CustomPrompts.SystemPrompt == "" {
		config.CustomPrompts.SystemPrompt = c.NLP.CustomPrompts.SystemPrompt
	}
	if config.CustomPrompts.UserPrompt == "" {
		config.CustomPrompts.UserPrompt = c.NLP.CustomPrompts.UserPrompt
	}
	if config.CustomPrompts.SystemPromptFile == "" {
		config.CustomPrompts.SystemPromptFile = c.NLP.CustomPrompts.SystemPromptFile
	}
	if config.CustomPrompts.UserPromptFile == "" {
		config.CustomPrompts.UserPromptFile = c.NLP.CustomPrompts.UserPromptFile
	}

	config.LoadedPrompts = c.loadedPrompts.Entities.orElse(c.loadedPrompts.Global)

	return config
}

// GetSimilarityConfig returns the NLP configuration for sentence similarity with fallback to global config
func (c *Config) GetSimilarityConfig() OperationNLPConfig {
	config := c.NLP.Similarity

	c.applyOperationDefaults(&config, OperationSimilarity)

	return config
}
