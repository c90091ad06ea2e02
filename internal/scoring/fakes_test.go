package scoring

import (
	"context"
	"sync"
	"time"

	"resumatch/internal/types"
)

type fakeRecognizer struct {
	tokens []types.TokenEntity
	err    error
	block  bool
	panics bool
}

func (f *fakeRecognizer) RecognizeEntities(ctx context.Context, _ string) ([]types.TokenEntity, error) {
	if f.panics {
		panic("recognizer exploded")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.tokens, f.err
}

type fakeSimilarity struct {
	scores []float64
	err    error
	block  bool
	panics bool
}

func (f *fakeSimilarity) SentenceSimilarity(ctx context.Context, _ string, _ []string) ([]float64, error) {
	if f.panics {
		panic("similarity exploded")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.scores, f.err
}

type fakeRecorder struct {
	mu        sync.Mutex
	fallbacks map[string]int
	scorings  int
	failures  int
	lengths   [][2]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{fallbacks: make(map[string]int)}
}

func (r *fakeRecorder) RecordScoring(_ context.Context, _ time.Duration, _ *types.ScoringResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scorings++
	if err != nil {
		r.failures++
	}
}

func (r *fakeRecorder) RecordFallback(_ context.Context, component string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[component]++
}

func (r *fakeRecorder) RecordContentLengths(_ context.Context, resumeLength, jobLength int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lengths = append(r.lengths, [2]int{resumeLength, jobLength})
}

func (r *fakeRecorder) fallbackCount(component string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallbacks[component]
}

type panickingEntitySource struct{}

func (panickingEntitySource) Extract(context.Context, string) types.EntityBundle {
	panic("entity source exploded")
}
