package nlp

import (
	"context"
	"testing"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceTestConfig(provider string) *config.Config {
	return &config.Config{
		NLP: config.NLPConfig{
			Provider:   provider,
			Timeout:    5 * time.Second,
			MaxRetries: 1,
		},
	}
}

func TestNewServiceSelectsProviders(t *testing.T) {
	cfg := newServiceTestConfig(config.ProviderHuggingFace)
	cfg.NLP.HuggingFaceAPIKey = "hf_test"

	svc, err := NewService(cfg, errors.NewDiscardLogger(), nil)
	require.NoError(t, err)

	entities, ok := svc.Entities.(*HuggingFaceProvider)
	require.True(t, ok, "expected Hugging Face entities provider, got %T", svc.Entities)
	assert.Equal(t, config.DefaultHuggingFaceEntitiesModel, entities.config.Model)
	assert.Equal(t, config.DefaultHuggingFaceBaseURL+"/"+config.DefaultHuggingFaceEntitiesModel, entities.endpoint)

	similarity, ok := svc.Similarity.(*HuggingFaceProvider)
	require.True(t, ok, "expected Hugging Face similarity provider, got %T", svc.Similarity)
	assert.Equal(t, config.DefaultHuggingFaceSimilarityModel, similarity.config.Model)
	assert.Equal(t,
		"https://router.huggingface.co/hf-inference/models/sentence-transformers/all-MiniLM-L6-v2/pipeline/sentence-similarity",
		similarity.endpoint)

	assert.NotNil(t, svc.RemoteEntities())
	assert.NotNil(t, svc.RemoteSimilarity())
}

func TestNewServiceNoneProvider(t *testing.T) {
	svc, err := NewService(newServiceTestConfig(config.ProviderNone), nil, nil)
	require.NoError(t, err)

	_, err = svc.Entities.RecognizeEntities(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))

	_, err = svc.Similarity.SentenceSimilarity(context.Background(), "a", []string{"b"})
	require.Error(t, err)

	infos := svc.Info(context.Background())
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.False(t, info.Available)
		assert.Equal(t, config.ProviderNone, info.Provider)
	}

	assert.Nil(t, svc.RemoteEntities())
	assert.Nil(t, svc.RemoteSimilarity())
}

func TestNewServiceGeminiWithoutKeyIsDisabled(t *testing.T) {
	cfg := newServiceTestConfig(config.ProviderHuggingFace)
	cfg.NLP.Entities.Provider = config.ProviderGemini

	svc, err := NewService(cfg, errors.NewDiscardLogger(), nil)
	require.NoError(t, err)

	disabled, ok := svc.Entities.(disabledProvider)
	require.True(t, ok, "expected disabled entities provider, got %T", svc.Entities)
	assert.Equal(t, config.ProviderGemini, disabled.Info(context.Background()).Provider)

	_, err = svc.Entities.RecognizeEntities(context.Background(), "text")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeProviderDisabled, appErr.Code)
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := newServiceTestConfig(config.ProviderHuggingFace)
	cfg.NLP.Similarity.Provider = "openai"

	_, err := NewService(cfg, errors.NewDiscardLogger(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
