package nlp

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGeminiModels struct {
	generateResponses []*genai.GenerateContentResponse
	generateErrs      []error
	embedResponse     *genai.EmbedContentResponse
	embedErr          error
	model             *genai.Model
	modelErr          error

	generateCalls   int
	lastPrompt      string
	lastConfig      *genai.GenerateContentConfig
	lastEmbedInputs int
}

func (f *fakeGeminiModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := f.generateCalls
	f.generateCalls++
	f.lastConfig = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastPrompt = contents[0].Parts[0].Text
	}
	if i < len(f.generateErrs) && f.generateErrs[i] != nil {
		return nil, f.generateErrs[i]
	}
	return f.generateResponses[min(i, len(f.generateResponses)-1)], nil
}

func (f *fakeGeminiModels) EmbedContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.lastEmbedInputs = len(contents)
	return f.embedResponse, f.embedErr
}

func (f *fakeGeminiModels) Get(context.Context, string, *genai.GetModelConfig) (*genai.Model, error) {
	return f.model, f.modelErr
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGeminiProvider(models geminiModels, operation string, cfg config.OperationNLPConfig) (*GeminiProvider, *fakeRecorder) {
	recorder := &fakeRecorder{}
	if cfg.Model == "" {
		cfg.Model = "gemini-test"
	}
	if cfg.Timeout == nil {
		cfg.Timeout = timePtr(time.Second)
	}
	if cfg.MaxRetries == nil {
		cfg.MaxRetries = intPtr(1)
	}
	provider := newGeminiProvider(models, cfg, operation, errors.NewDiscardLogger(), recorder)
	provider.retrier.baseDelay = time.Millisecond
	return provider, recorder
}

func TestGeminiRecognizeEntities(t *testing.T) {
	models := &fakeGeminiModels{
		generateResponses: []*genai.GenerateContentResponse{
			textResponse(`{"entities":[{"word":"Initech","type":"org"},{"word":"MIT","type":"EDU"},{"word":" ","type":"LOC"}]}`),
		},
	}
	provider, recorder := newTestGeminiProvider(models, config.OperationEntities, config.OperationNLPConfig{})

	entities, err := provider.RecognizeEntities(context.Background(), "Engineer at Initech, MIT graduate")
	require.NoError(t, err)

	assert.Equal(t, []types.TokenEntity{
		{EntityGroup: "ORG", Word: "Initech", Score: 1},
		{EntityGroup: "EDU", Word: "MIT", Score: 1},
	}, entities)
	assert.Contains(t, models.lastPrompt, "Engineer at Initech, MIT graduate")
	require.NotNil(t, models.lastConfig)
	assert.Equal(t, "application/json", models.lastConfig.ResponseMIMEType)
	assert.NotNil(t, models.lastConfig.SystemInstruction)
	assert.Equal(t, []string{OutcomeSuccess}, recorder.outcomes())
}

func TestGeminiRecognizeEntitiesRetriesTemporaryError(t *testing.T) {
	models := &fakeGeminiModels{
		generateErrs: []error{genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		generateResponses: []*genai.GenerateContentResponse{
			textResponse(`{"entities":[]}`),
		},
	}
	provider, _ := newTestGeminiProvider(models, config.OperationEntities, config.OperationNLPConfig{})

	entities, err := provider.RecognizeEntities(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, 2, models.generateCalls)
}

func TestGeminiRecognizeEntitiesMalformed(t *testing.T) {
	models := &fakeGeminiModels{
		generateResponses: []*genai.GenerateContentResponse{textResponse("not json")},
	}
	provider, recorder := newTestGeminiProvider(models, config.OperationEntities, config.OperationNLPConfig{})

	_, err := provider.RecognizeEntities(context.Background(), "text")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMalformedPayload, appErr.Code)
	assert.Equal(t, []string{OutcomeMalformed}, recorder.outcomes())
}

func TestGeminiCustomPrompts(t *testing.T) {
	models := &fakeGeminiModels{
		generateResponses: []*genai.GenerateContentResponse{textResponse(`{"entities":[]}`)},
	}
	provider, _ := newTestGeminiProvider(models, config.OperationEntities, config.OperationNLPConfig{
		CustomPrompts: config.PromptConfig{UserPrompt: "inline: %s"},
		LoadedPrompts: config.LoadedPrompts{UserPrompt: "from file: %s"},
	})

	_, err := provider.RecognizeEntities(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, "from file: resume", models.lastPrompt)
}

func TestGeminiSentenceSimilarity(t *testing.T) {
	models := &fakeGeminiModels{
		embedResponse: &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{
				{Values: []float32{1, 0}},
				{Values: []float32{1, 0}},
				{Values: []float32{0, 1}},
				{Values: []float32{-1, 0}},
			},
		},
	}
	provider, _ := newTestGeminiProvider(models, config.OperationSimilarity, config.OperationNLPConfig{})

	scores, err := provider.SentenceSimilarity(context.Background(), "source", []string{"same", "orthogonal", "opposite"})
	require.NoError(t, err)

	assert.Equal(t, 4, models.lastEmbedInputs)
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	assert.InDelta(t, 0.0, scores[2], 1e-9, "negative cosine is clamped")
}

func TestGeminiSentenceSimilarityEmbeddingCountMismatch(t *testing.T) {
	models := &fakeGeminiModels{
		embedResponse: &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}},
		},
	}
	provider, _ := newTestGeminiProvider(models, config.OperationSimilarity, config.OperationNLPConfig{})

	_, err := provider.SentenceSimilarity(context.Background(), "source", []string{"target"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMalformedPayload, err.(*errors.AppError).Code)
}

func TestGeminiInfo(t *testing.T) {
	models := &fakeGeminiModels{model: &genai.Model{DisplayName: "Gemini Test"}}
	provider, _ := newTestGeminiProvider(models, config.OperationEntities, config.OperationNLPConfig{})

	info := provider.Info(context.Background())
	assert.True(t, info.Available)
	assert.Equal(t, "Gemini Test", info.DisplayName)
	assert.Equal(t, "gemini", info.Provider)

	models.modelErr = genai.APIError{Code: http.StatusNotFound, Status: "NOT_FOUND"}
	info = provider.Info(context.Background())
	assert.False(t, info.Available)
	assert.NotEmpty(t, info.Error)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt2, cosineSimilarity([]float32{1, 1}, []float32{1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(config.OperationNLPConfig{Model: "gemini-test"}, config.OperationEntities, nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProviderDisabled, err.(*errors.AppError).Code)
}

func TestResolvePrompt(t *testing.T) {
	assert.Equal(t, "file", resolvePrompt("file", "config", "default"))
	assert.Equal(t, "config", resolvePrompt("", "config", "default"))
	assert.Equal(t, "default", resolvePrompt("", "", "default"))
}
