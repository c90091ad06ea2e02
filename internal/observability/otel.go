package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// Metrics holds the scoring instruments
type Metrics struct {
	ScoringRequests    metric.Int64Counter
	ScoringDuration    metric.Float64Histogram
	MatchScore         metric.Int64Histogram
	ATSOverall         metric.Int64Histogram
	ContentLength      metric.Int64Histogram
	Fallbacks          metric.Int64Counter
	RemoteCalls        metric.Int64Counter
	RemoteCallDuration metric.Float64Histogram
}

// Manager owns the tracer and meter providers of the process. A nil or disabled
// Manager records nothing.
type Manager struct {
	settings         Settings
	resource         *resource.Resource
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.Server
}

// NewManager sets up tracing and metrics according to settings
func NewManager(settings Settings) (*Manager, error) {
	m := &Manager{settings: settings}
	if !settings.Enabled {
		return m, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(settings.ServiceName),
			semconv.ServiceVersion(settings.ServiceVersion),
			attribute.String("service.instance.id", settings.ServiceInstance),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	m.resource = res

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) initTracing() error {
	var (
		exporter trace.SpanExporter
		err      error
	)

	switch {
	case m.settings.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if m.settings.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case m.settings.OTLP.Enabled:
		exporter, err = m.newOTLPTraceExporter()
	default:
		exporter = noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(m.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(m.settings.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	readers, err := m.metricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(m.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(m.settings.ServiceName))
	if err != nil {
		return err
	}
	m.metrics = metrics
	return nil
}

func (m *Manager) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.settings.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.settings.CollectionInterval)))
	}

	if m.settings.OTLP.Enabled {
		reader, err := m.newOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.settings.Prometheus.Enabled {
		reader, handler, err := newPrometheusReader(m.settings.Prometheus)
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
		m.prometheusServer = startPrometheusServer(m.settings.Prometheus, handler)
		m.shutdownFuncs = append(m.shutdownFuncs, m.prometheusServer.Shutdown)
	}

	// keep instruments usable when nothing exports
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// newMetrics creates every scoring instrument on meter
func newMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		metrics Metrics
		err     error
	)

	if metrics.ScoringRequests, err = meter.Int64Counter(
		"resumatch_scoring_requests_total",
		metric.WithDescription("Total number of scoring runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create scoring requests metric: %w", err)
	}

	if metrics.ScoringDuration, err = meter.Float64Histogram(
		"resumatch_scoring_duration_seconds",
		metric.WithDescription("Time spent in one scoring run"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create scoring duration metric: %w", err)
	}

	scoreBuckets := metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	if metrics.MatchScore, err = meter.Int64Histogram(
		"resumatch_match_score",
		metric.WithDescription("Distribution of match scores"),
		scoreBuckets,
	); err != nil {
		return nil, fmt.Errorf("failed to create match score metric: %w", err)
	}

	if metrics.ATSOverall, err = meter.Int64Histogram(
		"resumatch_ats_overall_score",
		metric.WithDescription("Distribution of overall ATS scores"),
		scoreBuckets,
	); err != nil {
		return nil, fmt.Errorf("failed to create ATS score metric: %w", err)
	}

	if metrics.ContentLength, err = meter.Int64Histogram(
		"resumatch_content_length_bytes",
		metric.WithDescription("Length of scored resumes and job descriptions"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create content length metric: %w", err)
	}

	if metrics.Fallbacks, err = meter.Int64Counter(
		"resumatch_fallbacks_total",
		metric.WithDescription("Remote results replaced by a local fallback"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fallbacks metric: %w", err)
	}

	if metrics.RemoteCalls, err = meter.Int64Counter(
		"resumatch_remote_calls_total",
		metric.WithDescription("Remote NLP calls by provider, operation and outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create remote calls metric: %w", err)
	}

	if metrics.RemoteCallDuration, err = meter.Float64Histogram(
		"resumatch_remote_call_duration_seconds",
		metric.WithDescription("Latency of remote NLP calls"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create remote call duration metric: %w", err)
	}

	return &metrics, nil
}

// Shutdown flushes exporters and stops the metrics server
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("observability shutdown: %v", errs)
	}
	return nil
}

type noOpSpanExporter struct{}

func (noOpSpanExporter) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }
func (noOpSpanExporter) Shutdown(context.Context) error                          { return nil }

func (m *Manager) newOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.settings.OTLP.Endpoint),
	}
	if m.settings.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.settings.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.settings.OTLP.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) newOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.settings.OTLP.Endpoint),
	}
	if m.settings.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.settings.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.settings.OTLP.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.settings.CollectionInterval)), nil
}
