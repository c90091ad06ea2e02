package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const (
	huggingFaceProviderName = "huggingface"
	maxResponseBytes        = 4 << 20
	maxErrorBodyBytes       = 512
)

// HuggingFaceProvider calls the Hugging Face Inference API for one operation
type HuggingFaceProvider struct {
	httpClient *http.Client
	config     config.OperationNLPConfig
	operation  string
	endpoint   string
	limiter    *rate.Limiter
	breaker    *CircuitBreaker[[]byte]
	retrier    retrier
	recorder   CallRecorder
	logger     *errors.Logger
}

var (
	_ EntityProvider     = (*HuggingFaceProvider)(nil)
	_ SimilarityProvider = (*HuggingFaceProvider)(nil)
)

// NewHuggingFaceProvider creates a Hugging Face provider for the named operation
func NewHuggingFaceProvider(cfg config.OperationNLPConfig, operation string, logger *errors.Logger, recorder CallRecorder) (*HuggingFaceProvider, error) {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	if cfg.Model == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Hugging Face model is required for %s", operation), nil)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultHuggingFaceBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid Hugging Face base URL: %s", baseURL), err)
	}

	if cfg.APIKey == "" {
		logger.Warn("Hugging Face API token not configured, requests will be anonymous",
			"operation", operation,
			"model", cfg.Model)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond != nil && *cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(*cfg.RequestsPerSecond), 1)
	}

	return &HuggingFaceProvider{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		config:    cfg,
		operation: operation,
		endpoint:  huggingFaceEndpoint(baseURL, cfg.Model, operation),
		limiter:   limiter,
		breaker:   NewCircuitBreaker[[]byte](huggingFaceProviderName+"-"+operation, cfg.CircuitBreaker, logger),
		retrier:   newRetrier(cfg.MaxRetries, logger),
		recorder:  recorder,
		logger:    logger,
	}, nil
}

// RecognizeEntities runs token classification over text
func (h *HuggingFaceProvider) RecognizeEntities(ctx context.Context, text string) ([]types.TokenEntity, error) {
	if strings.TrimSpace(text) == "" {
		return []types.TokenEntity{}, nil
	}

	ctx, span := otel.Tracer("resumatch.nlp.huggingface").Start(ctx, "huggingface.recognize_entities")
	defer span.End()
	span.SetAttributes(
		attribute.String("nlp.provider", huggingFaceProviderName),
		attribute.String("nlp.model", h.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	var entities []types.TokenEntity
	err := h.call(ctx, map[string]string{"inputs": text}, func(body []byte) error {
		parsed, err := decodeTokenEntities(body)
		if err != nil {
			return err
		}
		entities = parsed
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.entity_count", len(entities)),
	)
	return entities, nil
}

// SentenceSimilarity scores source against each sentence
func (h *HuggingFaceProvider) SentenceSimilarity(ctx context.Context, source string, sentences []string) ([]float64, error) {
	ctx, span := otel.Tracer("resumatch.nlp.huggingface").Start(ctx, "huggingface.sentence_similarity")
	defer span.End()
	span.SetAttributes(
		attribute.String("nlp.provider", huggingFaceProviderName),
		attribute.String("nlp.model", h.config.Model),
		attribute.Int("input.source_length", len(source)),
		attribute.Int("input.sentence_count", len(sentences)),
	)

	payload := similarityRequest{}
	payload.Inputs.SourceSentence = source
	payload.Inputs.Sentences = sentences

	var scores []float64
	err := h.call(ctx, payload, func(body []byte) error {
		if err := json.Unmarshal(body, &scores); err != nil {
			return fmt.Errorf("%w: %v", errMalformedPayload, err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return scores, nil
}

type similarityRequest struct {
	Inputs struct {
		SourceSentence string   `json:"source_sentence"`
		Sentences      []string `json:"sentences"`
	} `json:"inputs"`
}

// call posts payload under the operation timeout, breaker and retry policy, then decodes the body
func (h *HuggingFaceProvider) call(ctx context.Context, payload any, decode func([]byte) error) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout(h.config))
	defer cancel()

	start := time.Now()
	body, err := h.breaker.Execute(func() ([]byte, error) {
		return executeWithRetry(ctx, h.retrier, h.operation, func(ctx context.Context) ([]byte, error) {
			return h.post(ctx, payload)
		})
	})
	if err == nil {
		err = decode(body)
	}

	if err != nil {
		appErr, outcome := classifyRemoteError(huggingFaceProviderName, h.operation, err)
		h.recorder.RecordRemoteCall(ctx, huggingFaceProviderName, h.operation, outcome, time.Since(start))
		return appErr
	}

	h.recorder.RecordRemoteCall(ctx, huggingFaceProviderName, h.operation, OutcomeSuccess, time.Since(start))
	return nil
}

// post performs a single inference request
func (h *HuggingFaceProvider) post(ctx context.Context, payload any) ([]byte, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBodyBytes)}
	}

	return body, nil
}

// Info reports the configured model and breaker state
func (h *HuggingFaceProvider) Info(_ context.Context) *ProviderInfo {
	info := &ProviderInfo{
		Provider:       huggingFaceProviderName,
		Operation:      h.operation,
		Model:          h.config.Model,
		Available:      h.breaker.IsHealthy(),
		CircuitBreaker: h.breaker.Stats(),
	}
	if !info.Available {
		info.Error = "circuit breaker is not closed"
	}
	return info
}

// decodeTokenEntities accepts a flat entity list or a single-element batch of lists
func decodeTokenEntities(body []byte) ([]types.TokenEntity, error) {
	var flat []types.TokenEntity
	flatErr := json.Unmarshal(body, &flat)
	if flatErr == nil {
		if flat == nil {
			flat = []types.TokenEntity{}
		}
		return flat, nil
	}

	var batched [][]types.TokenEntity
	if err := json.Unmarshal(body, &batched); err == nil {
		entities := []types.TokenEntity{}
		for _, group := range batched {
			entities = append(entities, group...)
		}
		return entities, nil
	}

	return nil, fmt.Errorf("%w: %v", errMalformedPayload, flatErr)
}

// huggingFaceEndpoint builds the model URL, naming the pipeline for similarity
func huggingFaceEndpoint(baseURL, model, operation string) string {
	endpoint := strings.TrimRight(baseURL, "/") + "/" + model
	if operation == config.OperationSimilarity {
		endpoint += "/pipeline/sentence-similarity"
	}
	return endpoint
}

func operationTimeout(cfg config.OperationNLPConfig) time.Duration {
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		return *cfg.Timeout
	}
	return 10 * time.Second
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
