package observability

import (
	"time"

	"resumatch/internal/config"
)

const defaultCollectionInterval = 15 * time.Second

// Settings is the resolved observability configuration of one process
type Settings struct {
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Enabled            bool
	ConsoleOutput      bool
	PrettyPrint        bool
	SampleRate         float64
	CollectionInterval time.Duration
	Prometheus         PrometheusConfig
	OTLP               config.OTLPConfig
	RemoteCalls        config.RemoteCallMetricsConfig
	Business           config.BusinessMetricsConfig
}

// SettingsFromConfig resolves observability settings, using the app version when
// no service version is configured.
func SettingsFromConfig(cfg *config.Config, version string) Settings {
	if cfg == nil {
		return Settings{
			ServiceName:        "resumatch",
			ServiceVersion:     version,
			ServiceInstance:    "resumatch-1",
			SampleRate:         1.0,
			CollectionInterval: defaultCollectionInterval,
			Prometheus:         PrometheusConfigFrom(nil),
			RemoteCalls:        config.RemoteCallMetricsConfig{Enabled: true, TrackDuration: true},
			Business: config.BusinessMetricsConfig{
				Enabled:             true,
				TrackScores:         true,
				TrackFallbacks:      true,
				TrackContentLengths: true,
			},
		}
	}

	obs := cfg.Observability

	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	interval := obs.Metrics.CollectionInterval
	if interval <= 0 {
		interval = defaultCollectionInterval
	}

	sampleRate := obs.SampleRate
	if obs.Tracing.SampleRate > 0 && obs.Tracing.SampleRate < sampleRate {
		sampleRate = obs.Tracing.SampleRate
	}

	return Settings{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		ConsoleOutput:      obs.ConsoleOutput,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         sampleRate,
		CollectionInterval: interval,
		Prometheus:         PrometheusConfigFrom(cfg),
		OTLP:               obs.OTLP,
		RemoteCalls:        obs.CustomMetrics.RemoteCalls,
		Business:           obs.CustomMetrics.BusinessMetrics,
	}
}
