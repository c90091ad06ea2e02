package scoring

import (
	"context"
	"time"

	"resumatch/internal/types"
)

// EntityRecognizer is a remote token-classification capability
type EntityRecognizer interface {
	RecognizeEntities(ctx context.Context, text string) ([]types.TokenEntity, error)
}

// SentenceSimilarity is a remote sentence-similarity capability
type SentenceSimilarity interface {
	SentenceSimilarity(ctx context.Context, source string, sentences []string) ([]float64, error)
}

// Recorder receives scoring metrics. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordScoring(ctx context.Context, duration time.Duration, result *types.ScoringResult, err error)
	RecordFallback(ctx context.Context, component string)
	RecordContentLengths(ctx context.Context, resumeLength, jobLength int)
}

// Fallback components reported to a Recorder
const (
	ComponentEntities   = "entities"
	ComponentSimilarity = "similarity"
)

type noopRecorder struct{}

func (noopRecorder) RecordScoring(context.Context, time.Duration, *types.ScoringResult, error) {}
func (noopRecorder) RecordFallback(context.Context, string)                                  {}
func (noopRecorder) RecordContentLengths(context.Context, int, int)                          {}
