package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/repository"
	"github.com/timmy/astroinsight/internal/service"
	"github.com/timmy/astroinsight/internal/storage"
	"gorm.io/gorm"
)

const startupTimeout = 15 * time.Second

// App holds the services shared by the API server and the CLI.
type App struct {
	Config    *config.Config
	Insights  *service.InsightService
	Archive   *service.ArchiveService // nil unless the archive is enabled
	Publisher *service.PublishService // nil unless object storage is configured

	closers []func() error
}

// Options customizes New.
type Options struct {
	// Clock overrides the current day for the cache and the pipeline.
	Clock func() time.Time
}

// New builds every configured service. Optional integrations (archive,
// object storage) are skipped when not configured; configured ones that
// cannot start are errors.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	a := &App{Config: cfg}
	log := logger.FromContext(ctx)

	var db *gorm.DB
	if cfg.Cache.Enabled && cfg.Cache.Backend == "database" {
		var err error
		db, err = repository.InitDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.closers = append(a.closers, func() error { return repository.CloseDB(db) })
	}

	cache, err := repository.NewInsightCache(&cfg.Cache, db, clock)
	if err != nil {
		a.Close()
		return nil, err
	}

	completer, err := service.NewCompleter(&cfg.LLM)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init language model: %w", err)
	}
	if completer == nil {
		log.Warn("No language model API key configured, using rule-based insights only")
	} else {
		log.WithFields(logger.Fields{
			"provider": completer.Name(),
			"model":    cfg.LLM.ModelOrDefault(),
		}).Info("Language model enabled")
	}

	insightOpts := []service.InsightOption{service.WithClock(clock)}

	if cfg.ArchiveEnabled() {
		archive, err := a.initArchive(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init archive: %w", err)
		}
		a.Archive = archive
		insightOpts = append(insightOpts, service.WithArchive(archive))
	}

	a.Insights = service.NewInsightService(
		service.InsightConfigFrom(&cfg.Insight),
		service.NewGeneratorService(completer),
		service.NewTranslatorService(completer, cfg.Insight.RemoteTranslation),
		cache,
		insightOpts...,
	)

	if cfg.Storage.Endpoint != "" {
		objectStorage, err := storage.NewS3FromConfig(&cfg.Storage)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		bucketCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		if err := objectStorage.EnsureBucket(bucketCtx); err != nil {
			log.WithError(err).Warn("Storage bucket check failed, publishing may fail")
		}
		cancel()

		a.Publisher = service.NewPublishService(a.Insights, objectStorage, &service.PublishConfig{
			Prefix:    cfg.Publish.Prefix,
			Addressee: cfg.Publish.Addressee,
			Workers:   cfg.Publish.Workers,
		})
	}

	return a, nil
}

func (a *App) initArchive(ctx context.Context, cfg *config.Config) (*service.ArchiveService, error) {
	if cfg.Archive.Embedding.APIKey == "" {
		return nil, errors.New("archive.embedding.api_key is required")
	}

	repo, err := repository.NewInsightVectorRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Archive.Embedding.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, repo.Close)

	ensureCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := repo.EnsureCollection(ensureCtx); err != nil {
		return nil, err
	}

	embedder := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:      cfg.Archive.Embedding.Model,
		APIKey:     cfg.Archive.Embedding.APIKey,
		BaseURL:    cfg.Archive.Embedding.BaseURL,
		Dimensions: cfg.Archive.Embedding.Dimensions,
		Timeout:    cfg.LLM.Timeout,
	})

	logger.FromContext(ctx).WithFields(logger.Fields{
		"collection": cfg.Qdrant.Collection,
		"model":      cfg.Archive.Embedding.Model,
	}).Info("Insight archive enabled")

	return service.NewArchiveService(embedder, repo), nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
