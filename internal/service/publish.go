package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/storage"
	"golang.org/x/sync/errgroup"
)

// PublishService renders the day's insight for every sign and uploads one
// almanac document per language to object storage.
type PublishService struct {
	insights  *InsightService
	storage   storage.ObjectStorage
	prefix    string
	addressee string
	workers   int
	now       func() time.Time
}

// PublishConfig holds configuration for the publish service.
type PublishConfig struct {
	Prefix    string
	Addressee string
	Workers   int
}

// NewPublishService creates a new publish service.
func NewPublishService(insights *InsightService, objectStorage storage.ObjectStorage, cfg *PublishConfig) *PublishService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &PublishService{
		insights:  insights,
		storage:   objectStorage,
		prefix:    cfg.Prefix,
		addressee: cfg.Addressee,
		workers:   workers,
		now:       time.Now,
	}
}

// PublishStats summarises one publish run.
type PublishStats struct {
	Day       string    `json:"day"`
	Published []string  `json:"published"` // object URLs
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// PublishOptions holds options for publishing.
type PublishOptions struct {
	Force bool // overwrite documents that already exist
}

// AlmanacKey returns the object key of one day's almanac in lang.
func (s *PublishService) AlmanacKey(day string, lang domain.Language) string {
	return path.Join(s.prefix, day, string(lang)+".json")
}

// Publish uploads today's almanac for each language. The day comes from the
// insight service's clock. Upload failures are counted and returned joined;
// the remaining languages are still published.
func (s *PublishService) Publish(ctx context.Context, languages []domain.Language, opts *PublishOptions) (*PublishStats, error) {
	if opts == nil {
		opts = &PublishOptions{}
	}
	if len(languages) == 0 {
		languages = s.insights.SupportedLanguages()
	}

	day := s.insights.Today()
	stats := &PublishStats{Day: day, StartTime: time.Now()}
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "publish",
		logger.FieldDay:       day,
	})

	logger.FromContext(ctx).WithFields(logger.Fields{
		"languages": languages,
		"force":     opts.Force,
		"workers":   s.workers,
	}).Info("Starting almanac publication")

	var errs []error
	for _, lang := range languages {
		url, skipped, err := s.publishLanguage(ctx, day, lang, opts)
		switch {
		case err != nil:
			stats.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", lang, err))
			logger.FromContext(ctx).WithError(err).WithField(logger.FieldLanguage, string(lang)).
				Error("Failed to publish almanac")
		case skipped:
			stats.Skipped++
		default:
			stats.Published = append(stats.Published, url)
		}
	}

	stats.EndTime = time.Now()
	logger.With(logger.Fields{
		logger.FieldDurationMs: stats.EndTime.Sub(stats.StartTime).Milliseconds(),
		logger.FieldCount:      len(stats.Published),
		"skipped":              stats.Skipped,
		"failed":               stats.Failed,
	}).Info(ctx, "Almanac publication finished")

	return stats, errors.Join(errs...)
}

func (s *PublishService) publishLanguage(ctx context.Context, day string, lang domain.Language, opts *PublishOptions) (string, bool, error) {
	key := s.AlmanacKey(day, lang)

	if !opts.Force {
		exists, err := s.storage.Exists(ctx, key)
		if err != nil {
			return "", false, err
		}
		if exists {
			logger.CtxInfo(ctx, "Almanac %s already published, skipping", key)
			return s.storage.GetURL(key), true, nil
		}
	}

	almanac, err := s.Build(ctx, lang)
	if err != nil {
		return "", false, err
	}

	body, err := json.MarshalIndent(almanac, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("encode almanac: %w", err)
	}
	if err := s.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return "", false, err
	}

	logger.With(logger.Fields{logger.FieldSize: len(body)}).Info(ctx, "Published %s", key)
	return s.storage.GetURL(key), false, nil
}

// Build composes all twelve signs in lang for the addressee, fanning out over
// the worker limit. The per-sign cache is neither read nor written.
func (s *PublishService) Build(ctx context.Context, lang domain.Language) (*domain.Almanac, error) {
	all := domain.AllZodiac()
	entries := make([]domain.InsightResponse, len(all))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)

	for i, info := range all {
		eg.Go(func() error {
			resp, err := s.insights.Compose(egCtx, info.Sign, lang, s.addressee)
			if err != nil {
				return err
			}
			entries[i] = *resp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &domain.Almanac{
		Day:         s.insights.Today(),
		Language:    lang,
		GeneratedAt: s.now().UTC(),
		Entries:     entries,
	}, nil
}

// Fetch downloads a published almanac.
func (s *PublishService) Fetch(ctx context.Context, day string, lang domain.Language) (*domain.Almanac, error) {
	rc, err := s.storage.Download(ctx, s.AlmanacKey(day, lang))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var almanac domain.Almanac
	if err := json.NewDecoder(rc).Decode(&almanac); err != nil {
		return nil, fmt.Errorf("decode almanac: %w", err)
	}
	return &almanac, nil
}
