package cli

import (
	"context"
	"fmt"

	"resumatch/internal/catalog"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/nlp"
	"resumatch/internal/observability"
	"resumatch/internal/scoring"
)

// runtime bundles what the scoring commands build from configuration
type runtime struct {
	engine   *scoring.Engine
	catalog  *catalog.Catalog
	taxonomy *catalog.Taxonomy
	service  *nlp.Service
	manager  *observability.Manager
}

func (r *runtime) shutdown(ctx context.Context, logger *errors.Logger) {
	if err := r.manager.Shutdown(ctx); err != nil {
		logger.Warn("Failed to shut down observability", "error", err.Error())
	}
}

// loadCatalog returns the configured catalog file, or the built-in catalog and taxonomy
func loadCatalog(cfg *config.Config, logger *errors.Logger) (*catalog.Catalog, *catalog.Taxonomy, error) {
	if cfg.Scoring.CatalogFile == "" {
		return catalog.Default(), catalog.DefaultTaxonomy(), nil
	}

	cat, taxonomy, err := catalog.LoadFile(cfg.Scoring.CatalogFile)
	if err != nil {
		return nil, nil, errors.NewConfigError(errors.ErrCodeInvalidCatalog,
			fmt.Sprintf("Cannot load catalog file %s", cfg.Scoring.CatalogFile), err)
	}

	logger.Info("Loaded keyword catalog",
		"file", cfg.Scoring.CatalogFile,
		"terms", cat.Len(),
		"industries", len(taxonomy.Industries()))
	return cat, taxonomy, nil
}

// newRuntime wires observability, the NLP providers and the scoring engine
func newRuntime(cfg *config.Config, logger *errors.Logger) (*runtime, error) {
	manager, err := observability.NewManager(observability.SettingsFromConfig(cfg, Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	cat, taxonomy, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	service, err := nlp.NewService(cfg, logger, manager)
	if err != nil {
		return nil, err
	}

	entitiesCfg := cfg.GetEntitiesConfig()
	similarityCfg := cfg.GetSimilarityConfig()

	opts := []scoring.Option{
		scoring.WithCatalog(cat),
		scoring.WithTaxonomy(taxonomy),
		scoring.WithConcurrency(cfg.Scoring.Concurrent),
		scoring.WithLogger(logger),
		scoring.WithRecorder(manager),
		scoring.WithRemoteTimeouts(durationOr(entitiesCfg.Timeout), durationOr(similarityCfg.Timeout)),
	}
	if provider := service.RemoteEntities(); provider != nil {
		opts = append(opts, scoring.WithEntityRecognizer(provider))
	}
	if provider := service.RemoteSimilarity(); provider != nil {
		opts = append(opts, scoring.WithSentenceSimilarity(provider))
	}

	return &runtime{
		engine:   scoring.NewEngine(opts...),
		catalog:  cat,
		taxonomy: taxonomy,
		service:  service,
		manager:  manager,
	}, nil
}
