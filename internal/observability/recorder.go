package observability

import (
	"context"
	"time"

	"resumatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RecordScoring records one scoring run. Failed runs count as requests with success=false.
func (m *Manager) RecordScoring(ctx context.Context, duration time.Duration, result *types.ScoringResult, err error) {
	if !m.businessEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.metrics.ScoringRequests.Add(ctx, 1, attrs)
	m.metrics.ScoringDuration.Record(ctx, duration.Seconds(), attrs)

	if result == nil || !m.settings.Business.TrackScores {
		return
	}

	industry := metric.WithAttributes(attribute.String("industry", result.IndustryAnalysis.DetectedIndustry))
	m.metrics.MatchScore.Record(ctx, int64(result.MatchScore), industry)
	m.metrics.ATSOverall.Record(ctx, int64(result.ATSScore.Overall), industry)
}

// RecordFallback counts a remote result replaced by its local fallback
func (m *Manager) RecordFallback(ctx context.Context, component string) {
	if !m.businessEnabled() || !m.settings.Business.TrackFallbacks {
		return
	}
	m.metrics.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

// RecordContentLengths records the byte lengths of the scored texts
func (m *Manager) RecordContentLengths(ctx context.Context, resumeLength, jobLength int) {
	if !m.businessEnabled() || !m.settings.Business.TrackContentLengths {
		return
	}
	m.metrics.ContentLength.Record(ctx, int64(resumeLength), metric.WithAttributes(attribute.String("content_type", "resume")))
	m.metrics.ContentLength.Record(ctx, int64(jobLength), metric.WithAttributes(attribute.String("content_type", "job_description")))
}

// RecordRemoteCall records one remote NLP call
func (m *Manager) RecordRemoteCall(ctx context.Context, provider, operation, outcome string, duration time.Duration) {
	if m == nil || m.metrics == nil || !m.settings.RemoteCalls.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.metrics.RemoteCalls.Add(ctx, 1, attrs)

	if m.settings.RemoteCalls.TrackDuration {
		m.metrics.RemoteCallDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func (m *Manager) businessEnabled() bool {
	return m != nil && m.metrics != nil && m.settings.Business.Enabled
}
