package observability

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"resumatch/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// newPrometheusReader creates an OTel reader registered on its own registry and the
// handler serving that registry.
func newPrometheusReader(cfg PrometheusConfig) (metric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// startPrometheusServer serves metrics in the background until Shutdown
func startPrometheusServer(cfg PrometheusConfig, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("[OBSERVABILITY] Prometheus metrics at http://localhost:%s%s", cfg.Port, cfg.Endpoint)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[OBSERVABILITY] Prometheus server error: %v", err)
		}
	}()

	return server
}

// PrometheusConfigFrom reads the Prometheus section of cfg, with defaults when cfg is nil
func PrometheusConfigFrom(cfg *config.Config) PrometheusConfig {
	if cfg != nil {
		return PrometheusConfig{
			Enabled:  cfg.Observability.Prometheus.Enabled,
			Endpoint: cfg.Observability.Prometheus.Endpoint,
			Port:     cfg.Observability.Prometheus.Port,
		}
	}

	return PrometheusConfig{
		Enabled:  false,
		Endpoint: "/metrics",
		Port:     "9090",
	}
}
