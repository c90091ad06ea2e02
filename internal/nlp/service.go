package nlp

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// Service holds the remote providers selected for each NLP operation
type Service struct {
	Entities   EntityProvider
	Similarity SimilarityProvider
	logger     *errors.Logger
}

// NewService creates providers for entity recognition and sentence similarity from configuration.
// A provider that cannot be constructed is replaced by a disabled one so scoring falls back locally.
func NewService(cfg *config.Config, logger *errors.Logger, recorder CallRecorder) (*Service, error) {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}

	entitiesCfg := cfg.GetEntitiesConfig()
	entities, err := newEntityProvider(entitiesCfg, logger, recorder)
	if err != nil {
		return nil, err
	}

	similarityCfg := cfg.GetSimilarityConfig()
	similarity, err := newSimilarityProvider(similarityCfg, logger, recorder)
	if err != nil {
		return nil, err
	}

	return &Service{
		Entities:   entities,
		Similarity: similarity,
		logger:     logger,
	}, nil
}

func newEntityProvider(cfg config.OperationNLPConfig, logger *errors.Logger, recorder CallRecorder) (EntityProvider, error) {
	logProviderInit(cfg, config.OperationEntities, logger)

	var provider EntityProvider
	var err error

	switch cfg.Provider {
	case config.ProviderHuggingFace:
		provider, err = NewHuggingFaceProvider(cfg, config.OperationEntities, logger, recorder)
	case config.ProviderGemini:
		provider, err = NewGeminiProvider(cfg, config.OperationEntities, logger, recorder)
	case config.ProviderNone:
		return disabledProvider{operation: config.OperationEntities, reason: "no provider configured"}, nil
	default:
		return nil, unsupportedProvider(cfg.Provider)
	}

	if err != nil {
		logger.LogError(err, "NLP provider unavailable, local fallback will be used",
			"operation", config.OperationEntities,
			"provider", cfg.Provider)
		return disabledProvider{provider: cfg.Provider, operation: config.OperationEntities, reason: err.Error()}, nil
	}
	return provider, nil
}

func newSimilarityProvider(cfg config.OperationNLPConfig, logger *errors.Logger, recorder CallRecorder) (SimilarityProvider, error) {
	logProviderInit(cfg, config.OperationSimilarity, logger)

	var provider SimilarityProvider
	var err error

	switch cfg.Provider {
	case config.ProviderHuggingFace:
		provider, err = NewHuggingFaceProvider(cfg, config.OperationSimilarity, logger, recorder)
	case config.ProviderGemini:
		provider, err = NewGeminiProvider(cfg, config.OperationSimilarity, logger, recorder)
	case config.ProviderNone:
		return disabledProvider{operation: config.OperationSimilarity, reason: "no provider configured"}, nil
	default:
		return nil, unsupportedProvider(cfg.Provider)
	}

	if err != nil {
		logger.LogError(err, "NLP provider unavailable, local fallback will be used",
			"operation", config.OperationSimilarity,
			"provider", cfg.Provider)
		return disabledProvider{provider: cfg.Provider, operation: config.OperationSimilarity, reason: err.Error()}, nil
	}
	return provider, nil
}

func logProviderInit(cfg config.OperationNLPConfig, operation string, logger *errors.Logger) {
	args := []any{
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model,
		"has_api_key", cfg.APIKey != "",
		"circuit_breaker", cfg.CircuitBreaker.Enabled,
	}
	if cfg.Timeout != nil {
		args = append(args, "timeout", *cfg.Timeout)
	}
	if cfg.MaxRetries != nil {
		args = append(args, "max_retries", *cfg.MaxRetries)
	}
	logger.Debug("Initializing NLP provider", args...)
}

func unsupportedProvider(name string) error {
	return errors.NewConfigError(errors.ErrCodeUnsupportedBackend,
		fmt.Sprintf("Unsupported NLP provider: %s", name), nil)
}

// Info returns provider information for both operations
func (s *Service) Info(ctx context.Context) []*ProviderInfo {
	return []*ProviderInfo{
		s.Entities.Info(ctx),
		s.Similarity.Info(ctx),
	}
}

// disabledProvider fails every call so callers take their local fallback
type disabledProvider struct {
	provider  string
	operation string
	reason    string
}

func (d disabledProvider) err() error {
	return errors.NewRemoteError(errors.ErrCodeProviderDisabled,
		fmt.Sprintf("%s provider disabled: %s", d.operation, d.reason), nil)
}

func (d disabledProvider) RecognizeEntities(context.Context, string) ([]types.TokenEntity, error) {
	return nil, d.err()
}

func (d disabledProvider) SentenceSimilarity(context.Context, string, []string) ([]float64, error) {
	return nil, d.err()
}

func (d disabledProvider) Info(context.Context) *ProviderInfo {
	name := d.provider
	if name == "" {
		name = config.ProviderNone
	}
	return &ProviderInfo{
		Provider:  name,
		Operation: d.operation,
		Available: false,
		Error:     d.reason,
	}
}

// RemoteEntities returns the entity provider, or nil when entity recognition is disabled
func (s *Service) RemoteEntities() EntityProvider {
	if _, disabled := s.Entities.(disabledProvider); disabled {
		return nil
	}
	return s.Entities
}

// RemoteSimilarity returns the similarity provider, or nil when similarity is disabled
func (s *Service) RemoteSimilarity() SimilarityProvider {
	if _, disabled := s.Similarity.(disabledProvider); disabled {
		return nil
	}
	return s.Similarity
}
