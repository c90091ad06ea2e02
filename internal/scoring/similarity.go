package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"resumatch/internal/errors"
)

// SimilaritySource computes a semantic closeness in [0,1]. It never fails.
type SimilaritySource interface {
	Similarity(ctx context.Context, a, b string) float64
}

type tokenSetSimilarity struct{}

func (tokenSetSimilarity) Similarity(_ context.Context, a, b string) float64 {
	return TokenSetSimilarity(a, b)
}

// TokenSetSimilarity is the Jaccard index of the lower-cased whitespace token sets of a and b.
// Two texts without tokens have similarity 0.
func TokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

// remoteSimilarity asks a sentence-similarity provider and falls back to token sets
type remoteSimilarity struct {
	provider SentenceSimilarity
	timeout  time.Duration
	logger   *errors.Logger
	recorder Recorder
}

func (s remoteSimilarity) Similarity(ctx context.Context, a, b string) float64 {
	score, err := s.score(ctx, a, b)
	if err != nil {
		s.logger.Warn("Remote similarity failed, using token-set similarity",
			"component", ComponentSimilarity,
			"error", err.Error())
		s.recorder.RecordFallback(ctx, ComponentSimilarity)
		return TokenSetSimilarity(a, b)
	}
	return score
}

func (s remoteSimilarity) score(ctx context.Context, a, b string) (score float64, err error) {
	ctx, cancel := withRemoteTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("similarity provider panicked: %v", r)
		}
	}()

	scores, err := s.provider.SentenceSimilarity(ctx, a, []string{b})
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, nil
	}
	if math.IsNaN(scores[0]) {
		return 0, fmt.Errorf("similarity provider returned NaN")
	}
	return clamp(scores[0], 0, 1), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
