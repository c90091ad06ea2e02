package nlp

import (
	"context"
	"time"

	"resumatch/internal/types"
)

// EntityProvider recognizes named entities in free text
type EntityProvider interface {
	RecognizeEntities(ctx context.Context, text string) ([]types.TokenEntity, error)
	Info(ctx context.Context) *ProviderInfo
}

// SimilarityProvider scores a source sentence against candidate sentences.
// Scores are returned in the order of sentences.
type SimilarityProvider interface {
	SentenceSimilarity(ctx context.Context, source string, sentences []string) ([]float64, error)
	Info(ctx context.Context) *ProviderInfo
}

// ProviderInfo describes a configured remote provider for one operation
type ProviderInfo struct {
	Provider       string         `json:"provider"`
	Operation      string         `json:"operation"`
	Model          string         `json:"model,omitempty"`
	DisplayName    string         `json:"displayName,omitempty"`
	Available      bool           `json:"available"`
	Error          string         `json:"error,omitempty"`
	CircuitBreaker map[string]any `json:"circuitBreaker,omitempty"`
}

// CallRecorder receives the outcome of every remote call. Implementations must be safe for concurrent use.
type CallRecorder interface {
	RecordRemoteCall(ctx context.Context, provider, operation, outcome string, duration time.Duration)
}

// Remote call outcomes reported to a CallRecorder
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeMalformed   = "malformed"
)

type noopRecorder struct{}

func (noopRecorder) RecordRemoteCall(context.Context, string, string, string, time.Duration) {}
