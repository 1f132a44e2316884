package repository

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBInsightCache persists insights in the insight_cache table so they
// survive restarts and can be shared between API replicas.
// Read and write failures are logged and behave as a miss or a no-op.
type DBInsightCache struct {
	db    *gorm.DB
	clock Clock
}

// NewDBInsightCache creates a cache backed by db.
// Parameters:
//   - db: GORM handle with the InsightRecord table migrated.
//   - clock: source of the current day.
//
// Returns:
//   - *DBInsightCache: cache bound to db.
func NewDBInsightCache(db *gorm.DB, clock Clock) *DBInsightCache {
	if clock == nil {
		clock = time.Now
	}
	return &DBInsightCache{db: db, clock: clock}
}

func (c *DBInsightCache) today() string {
	return domain.DayKey(c.clock())
}

// Get returns today's stored insight for sign and lang.
func (c *DBInsightCache) Get(ctx context.Context, sign domain.Sign, lang domain.Language) (string, bool) {
	var record domain.InsightRecord
	err := c.db.WithContext(ctx).
		Where("sign = ? AND language = ? AND day = ?", sign, lang, c.today()).
		First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContext(ctx).WithError(err).Warn("Insight cache read failed")
		}
		return "", false
	}
	return record.Insight, true
}

// Set upserts today's insight for sign and lang.
func (c *DBInsightCache) Set(ctx context.Context, sign domain.Sign, lang domain.Language, text string) {
	record := &domain.InsightRecord{
		Sign:     sign,
		Language: lang,
		Day:      c.today(),
		Insight:  text,
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sign"}, {Name: "language"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"insight", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Insight cache write failed")
	}
}

// Clear deletes every stored insight.
func (c *DBInsightCache) Clear(ctx context.Context) error {
	return c.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.InsightRecord{}).Error
}

// PruneStale deletes rows from any day other than today.
func (c *DBInsightCache) PruneStale(ctx context.Context) (int, error) {
	result := c.db.WithContext(ctx).
		Where("day <> ?", c.today()).
		Delete(&domain.InsightRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// Stats counts all rows and today's rows.
func (c *DBInsightCache) Stats(ctx context.Context) (CacheStats, error) {
	today := c.today()
	stats := CacheStats{Backend: "database", Day: today}

	var total, todayCount int64
	if err := c.db.WithContext(ctx).Model(&domain.InsightRecord{}).Count(&total).Error; err != nil {
		return stats, err
	}
	if err := c.db.WithContext(ctx).Model(&domain.InsightRecord{}).
		Where("day = ?", today).Count(&todayCount).Error; err != nil {
		return stats, err
	}

	stats.Entries = int(total)
	stats.TodayEntries = int(todayCount)
	return stats, nil
}
