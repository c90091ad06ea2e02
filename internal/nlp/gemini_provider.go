package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	geminiProviderName = "gemini"
	modelCheckTimeout  = 10 * time.Second
)

// geminiModels is the subset of genai.Models used by the provider
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// GeminiProvider implements entity recognition by structured generation and
// sentence similarity by embeddings
type GeminiProvider struct {
	models       geminiModels
	config       config.OperationNLPConfig
	operation    string
	limiter      *rate.Limiter
	nerBreaker   *CircuitBreaker[*genai.GenerateContentResponse]
	embedBreaker *CircuitBreaker[*genai.EmbedContentResponse]
	modelBreaker *CircuitBreaker[*genai.Model]
	retrier      retrier
	recorder     CallRecorder
	logger       *errors.Logger
}

var (
	_ EntityProvider     = (*GeminiProvider)(nil)
	_ SimilarityProvider = (*GeminiProvider)(nil)
)

// NewGeminiProvider creates a Gemini provider instance for a specific operation
func NewGeminiProvider(cfg config.OperationNLPConfig, operation string, logger *errors.Logger, recorder CallRecorder) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeProviderDisabled,
			fmt.Sprintf("Gemini API key is required for %s", operation), nil)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, errors.NewRemoteError(errors.ErrCodeRemoteFailed,
			"Failed to create Gemini client", err)
	}

	return newGeminiProvider(client.Models, cfg, operation, logger, recorder), nil
}

func newGeminiProvider(models geminiModels, cfg config.OperationNLPConfig, operation string, logger *errors.Logger, recorder CallRecorder) *GeminiProvider {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond != nil && *cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(*cfg.RequestsPerSecond), 1)
	}

	// Model checks trip more leniently than the operation itself
	modelBreakerCfg := cfg.CircuitBreaker
	modelBreakerCfg.MinRequests = max(modelBreakerCfg.MinRequests, 5)
	modelBreakerCfg.FailureThreshold = max(modelBreakerCfg.FailureThreshold, 0.8)

	return &GeminiProvider{
		models:       models,
		config:       cfg,
		operation:    operation,
		limiter:      limiter,
		nerBreaker:   NewCircuitBreaker[*genai.GenerateContentResponse](geminiProviderName+"-"+operation, cfg.CircuitBreaker, logger),
		embedBreaker: NewCircuitBreaker[*genai.EmbedContentResponse](geminiProviderName+"-"+operation+"-embed", cfg.CircuitBreaker, logger),
		modelBreaker: NewCircuitBreaker[*genai.Model](geminiProviderName+"-"+operation+"-model", modelBreakerCfg, logger),
		retrier:      newRetrier(cfg.MaxRetries, logger),
		recorder:     recorder,
		logger:       logger,
	}
}

// geminiEntity is one entry of the structured entity response
type geminiEntity struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

type geminiEntityResponse struct {
	Entities []geminiEntity `json:"entities"`
}

// RecognizeEntities asks the model for organizations, locations, people and education entities
func (g *GeminiProvider) RecognizeEntities(ctx context.Context, text string) ([]types.TokenEntity, error) {
	if strings.TrimSpace(text) == "" {
		return []types.TokenEntity{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout(g.config))
	defer cancel()

	ctx, span := otel.Tracer("resumatch.nlp.gemini").Start(ctx, "gemini.recognize_entities")
	defer span.End()
	span.SetAttributes(
		attribute.String("nlp.provider", geminiProviderName),
		attribute.String("nlp.model", g.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	systemPrompt, userPrompt := g.entityPrompts(text)
	genaiConfig := g.buildEntitySchema()
	if systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	start := time.Now()
	result, err := g.nerBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(ctx, g.retrier, g.operation, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
			if err := g.wait(ctx); err != nil {
				return nil, err
			}
			return g.models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	var entities []types.TokenEntity
	if err == nil {
		entities, err = parseGeminiEntities(result)
	}

	if err != nil {
		appErr, outcome := classifyRemoteError(geminiProviderName, g.operation, err)
		g.recorder.RecordRemoteCall(ctx, geminiProviderName, g.operation, outcome, time.Since(start))
		span.RecordError(appErr)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, appErr
	}

	g.recorder.RecordRemoteCall(ctx, geminiProviderName, g.operation, OutcomeSuccess, time.Since(start))
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.entity_count", len(entities)),
	)
	return entities, nil
}

// parseGeminiEntities maps the structured response onto token entities
func parseGeminiEntities(result *genai.GenerateContentResponse) ([]types.TokenEntity, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: empty response", errMalformedPayload)
	}

	var parsed geminiEntityResponse
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedPayload, err)
	}

	entities := make([]types.TokenEntity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		word := strings.TrimSpace(e.Word)
		if word == "" {
			continue
		}
		entities = append(entities, types.TokenEntity{
			EntityGroup: strings.ToUpper(strings.TrimSpace(e.Type)),
			Word:        word,
			Score:       1,
		})
	}
	return entities, nil
}

// SentenceSimilarity embeds source and sentences in one request and returns cosine similarities
func (g *GeminiProvider) SentenceSimilarity(ctx context.Context, source string, sentences []string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout(g.config))
	defer cancel()

	ctx, span := otel.Tracer("resumatch.nlp.gemini").Start(ctx, "gemini.sentence_similarity")
	defer span.End()
	span.SetAttributes(
		attribute.String("nlp.provider", geminiProviderName),
		attribute.String("nlp.model", g.config.Model),
		attribute.Int("input.source_length", len(source)),
		attribute.Int("input.sentence_count", len(sentences)),
	)

	if len(sentences) == 0 {
		return []float64{}, nil
	}

	contents := make([]*genai.Content, 0, len(sentences)+1)
	contents = append(contents, genai.NewContentFromText(source, genai.RoleUser))
	for _, sentence := range sentences {
		contents = append(contents, genai.NewContentFromText(sentence, genai.RoleUser))
	}

	start := time.Now()
	result, err := g.embedBreaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return executeWithRetry(ctx, g.retrier, g.operation, func(ctx context.Context) (*genai.EmbedContentResponse, error) {
			if err := g.wait(ctx); err != nil {
				return nil, err
			}
			return g.models.EmbedContent(ctx, g.config.Model, contents, nil)
		})
	})

	var scores []float64
	if err == nil {
		scores, err = embeddingScores(result, len(sentences))
	}

	if err != nil {
		appErr, outcome := classifyRemoteError(geminiProviderName, g.operation, err)
		g.recorder.RecordRemoteCall(ctx, geminiProviderName, g.operation, outcome, time.Since(start))
		span.RecordError(appErr)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, appErr
	}

	g.recorder.RecordRemoteCall(ctx, geminiProviderName, g.operation, OutcomeSuccess, time.Since(start))
	span.SetAttributes(attribute.Bool("success", true))
	return scores, nil
}

// embeddingScores compares the first embedding against the remaining ones
func embeddingScores(result *genai.EmbedContentResponse, sentences int) ([]float64, error) {
	if result == nil || len(result.Embeddings) != sentences+1 {
		return nil, fmt.Errorf("%w: expected %d embeddings", errMalformedPayload, sentences+1)
	}
	for _, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding", errMalformedPayload)
		}
	}

	source := result.Embeddings[0].Values
	scores := make([]float64, sentences)
	for i := range scores {
		scores[i] = cosineSimilarity(source, result.Embeddings[i+1].Values)
	}
	return scores, nil
}

// cosineSimilarity returns the cosine of two vectors clamped to [0,1]
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return math.Max(0, math.Min(1, dot/(math.Sqrt(normA)*math.Sqrt(normB))))
}

// Info checks the readiness and availability of the configured model
func (g *GeminiProvider) Info(ctx context.Context) *ProviderInfo {
	info := &ProviderInfo{
		Provider:  geminiProviderName,
		Operation: g.operation,
		Model:     g.config.Model,
		CircuitBreaker: map[string]any{
			"operation": g.operationBreakerStats(),
			"model":     g.modelBreaker.Stats(),
		},
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", geminiProviderName,
			"error", err.Error())
		return info
	}

	info.Available = true
	if model != nil {
		info.DisplayName = model.DisplayName
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", geminiProviderName,
		"display_name", info.DisplayName)

	return info
}

func (g *GeminiProvider) operationBreakerStats() map[string]any {
	if g.operation == config.OperationSimilarity {
		return g.embedBreaker.Stats()
	}
	return g.nerBreaker.Stats()
}

func (g *GeminiProvider) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// buildEntitySchema creates the response schema for entity extraction
func (g *GeminiProvider) buildEntitySchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"entities": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"word": {Type: genai.TypeString},
							"type": {
								Type: genai.TypeString,
								Enum: []string{"ORG", "LOC", "PER", "EDU", "MISC"},
							},
						},
						Required: []string{"word", "type"},
					},
				},
			},
			Required: []string{"entities"},
		},
	}

	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// entityPrompts returns the system prompt and the formatted user prompt
func (g *GeminiProvider) entityPrompts(text string) (string, string) {
	systemPrompt := resolvePrompt(
		g.config.LoadedPrompts.SystemPrompt,
		g.config.CustomPrompts.SystemPrompt,
		DefaultEntitySystemPrompt,
	)
	userPrompt := resolvePrompt(
		g.config.LoadedPrompts.UserPrompt,
		g.config.CustomPrompts.UserPrompt,
		DefaultEntityUserPrompt,
	)

	if !strings.Contains(userPrompt, "%s") {
		return systemPrompt, userPrompt + "\n\n" + text
	}
	return systemPrompt, fmt.Sprintf(userPrompt, text)
}

// resolvePrompt selects a prompt: loaded from file, then inline config, then built-in default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
