package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"resumatch/internal/catalog"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultRemoteTimeout bounds each remote call made by the engine
const DefaultRemoteTimeout = 10 * time.Second

// Engine scores a resume against a job description
type Engine struct {
	catalog    *catalog.Catalog
	taxonomy   *catalog.Taxonomy
	entities   EntitySource
	similarity SimilaritySource
	concurrent bool
	logger     *errors.Logger
	recorder   Recorder
}

type engineOptions struct {
	catalog           *catalog.Catalog
	taxonomy          *catalog.Taxonomy
	recognizer        EntityRecognizer
	similarity        SentenceSimilarity
	entitiesTimeout   time.Duration
	similarityTimeout time.Duration
	concurrent        bool
	logger            *errors.Logger
	recorder          Recorder
}

// Option configures an Engine
type Option func(*engineOptions)

// WithCatalog replaces the built-in keyword catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *engineOptions) { o.catalog = c }
}

// WithTaxonomy replaces the built-in industry taxonomy
func WithTaxonomy(t *catalog.Taxonomy) Option {
	return func(o *engineOptions) { o.taxonomy = t }
}

// WithEntityRecognizer enables remote entity recognition
func WithEntityRecognizer(r EntityRecognizer) Option {
	return func(o *engineOptions) { o.recognizer = r }
}

// WithSentenceSimilarity enables remote sentence similarity
func WithSentenceSimilarity(s SentenceSimilarity) Option {
	return func(o *engineOptions) { o.similarity = s }
}

// WithRemoteTimeouts sets the per-call timeouts of the two remote operations
func WithRemoteTimeouts(entities, similarity time.Duration) Option {
	return func(o *engineOptions) {
		o.entitiesTimeout = entities
		o.similarityTimeout = similarity
	}
}

// WithConcurrency runs entity extraction and similarity in parallel when enabled
func WithConcurrency(enabled bool) Option {
	return func(o *engineOptions) { o.concurrent = enabled }
}

// WithLogger sets the engine logger
func WithLogger(l *errors.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(o *engineOptions) { o.recorder = r }
}

// NewEngine creates a scoring engine. Without remote providers it scores fully locally.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		entitiesTimeout:   DefaultRemoteTimeout,
		similarityTimeout: DefaultRemoteTimeout,
		concurrent:        true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.catalog == nil {
		o.catalog = catalog.Default()
	}
	if o.taxonomy == nil {
		o.taxonomy = catalog.DefaultTaxonomy()
	}
	if o.logger == nil {
		o.logger = errors.NewDiscardLogger()
	}
	if o.recorder == nil {
		o.recorder = noopRecorder{}
	}

	var entities EntitySource = catalogEntitySource{catalog: o.catalog}
	if o.recognizer != nil {
		entities = remoteEntitySource{
			recognizer: o.recognizer,
			catalog:    o.catalog,
			timeout:    o.entitiesTimeout,
			logger:     o.logger,
			recorder:   o.recorder,
		}
	}

	var similarity SimilaritySource = tokenSetSimilarity{}
	if o.similarity != nil {
		similarity = remoteSimilarity{
			provider: o.similarity,
			timeout:  o.similarityTimeout,
			logger:   o.logger,
			recorder: o.recorder,
		}
	}

	return &Engine{
		catalog:    o.catalog,
		taxonomy:   o.taxonomy,
		entities:   entities,
		similarity: similarity,
		concurrent: o.concurrent,
		logger:     o.logger,
		recorder:   o.recorder,
	}
}

// Score runs the full scoring pipeline. Remote provider failures are absorbed by
// local fallbacks; any other failure is returned as a scoring error and no result.
func (e *Engine) Score(ctx context.Context, resumeText, jobDescription string) (result *types.ScoringResult, err error) {
	scoringID := uuid.NewString()
	logger := e.logger.With("scoring_id", scoringID)

	ctx, span := otel.Tracer("resumatch.scoring").Start(ctx, "scoring.score",
		trace.WithAttributes(
			attribute.String("scoring.id", scoringID),
			attribute.Int("input.resume_length", len(resumeText)),
			attribute.Int("input.job_length", len(jobDescription)),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, scoringFailure("pipeline", fmt.Errorf("panic: %v", r))
		}

		duration := time.Since(start)
		e.recorder.RecordScoring(ctx, duration, result, err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scoring failed")
			logger.LogError(err, "Scoring failed", "duration_ms", duration.Milliseconds())
			return
		}

		span.SetAttributes(
			attribute.Int("scoring.match_score", result.MatchScore),
			attribute.Int("scoring.ats_overall", result.ATSScore.Overall),
			attribute.String("scoring.industry", result.IndustryAnalysis.DetectedIndustry),
		)
		logger.Info("Scoring completed",
			"match_score", result.MatchScore,
			"ats_overall", result.ATSScore.Overall,
			"industry", result.IndustryAnalysis.DetectedIndustry,
			"matched_keywords", len(result.MatchedKeywords),
			"missing_keywords", len(result.MissingKeywords),
			"duration_ms", duration.Milliseconds())
	}()

	e.recorder.RecordContentLengths(ctx, len(resumeText), len(jobDescription))

	if err := e.catalog.Validate(); err != nil {
		return nil, scoringFailure("catalog", err)
	}
	if err := e.taxonomy.Validate(); err != nil {
		return nil, scoringFailure("taxonomy", err)
	}

	resumeEntities, jobEntities, similarity, err := e.collectSignals(ctx, resumeText, jobDescription)
	if err != nil {
		return nil, scoringFailure("signals", err)
	}

	analysis := MatchKeywords(e.catalog, resumeText, jobDescription)

	return &types.ScoringResult{
		MatchScore:      int(math.Round(100 * clamp(similarity, 0, 1))),
		MatchedKeywords: analysis.Matched,
		MissingKeywords: analysis.Missing,
		Recommendations: Recommend(analysis, similarity),
		Entities: types.Entities{
			Resume: resumeEntities,
			Job:    jobEntities,
		},
		ATSScore:         ScoreATS(resumeText, jobDescription),
		IndustryAnalysis: AnalyzeIndustry(e.taxonomy, jobDescription),
	}, nil
}

// collectSignals runs the two entity extractions and the similarity call, in parallel when enabled.
// Each task writes only its own result.
func (e *Engine) collectSignals(ctx context.Context, resumeText, jobDescription string) (resume, job types.EntityBundle, similarity float64, err error) {
	tasks := []func(context.Context){
		func(ctx context.Context) { resume = e.entities.Extract(ctx, resumeText) },
		func(ctx context.Context) { job = e.entities.Extract(ctx, jobDescription) },
		func(ctx context.Context) { similarity = e.similarity.Similarity(ctx, resumeText, jobDescription) },
	}

	if !e.concurrent {
		for _, task := range tasks {
			task(ctx)
		}
		return resume, job, similarity, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("signal task %d panicked: %v", i, r)
				}
			}()
			task(gctx)
			return nil
		})
	}
	err = g.Wait()
	return resume, job, similarity, err
}

func scoringFailure(step string, cause error) *errors.AppError {
	return errors.NewScoringError(errors.ErrCodeScoringFailed, "scoring failed", cause).
		WithContext("step", step)
}
