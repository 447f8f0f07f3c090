package repository

import (
	"context"
	"time"

	"market-daily/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository defines the interface for interacting with stored news.
type NewsRepository interface {
	CreateIgnoreConflict(ctx context.Context, news *entity.News) error
	FindRecent(ctx context.Context, limit int) ([]entity.News, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]entity.News, error)
	SearchByTopic(ctx context.Context, topic string, start, end time.Time, limit int) ([]entity.News, error)
	CountRelated(ctx context.Context, symbols []string, start, end time.Time) (int64, error)
	AvgSentimentRelated(ctx context.Context, symbols []string, start, end time.Time) (float64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

// CreateIgnoreConflict inserts a news row, silently skipping items whose
// URL is already stored.
func (r *newsRepository) CreateIgnoreConflict(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(news).Error
}

func (r *newsRepository) FindRecent(ctx context.Context, limit int) ([]entity.News, error) {
	var news []entity.News
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&news).Error
	return news, err
}

func (r *newsRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]entity.News, error) {
	var news []entity.News
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		Find(&news).Error
	return news, err
}

func (r *newsRepository) SearchByTopic(ctx context.Context, topic string, start, end time.Time, limit int) ([]entity.News, error) {
	var news []entity.News
	pattern := "%" + topic + "%"
	err := r.db.WithContext(ctx).
		Where("(title LIKE ? OR content LIKE ? OR summary LIKE ?)", pattern, pattern, pattern).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		Limit(limit).
		Find(&news).Error
	return news, err
}

// relatedScope narrows a query to rows whose serialized symbols list
// contains any of the given tickers. The symbols column holds a JSON
// array, so each ticker is matched as a quoted substring through a bound
// parameter.
func (r *newsRepository) relatedScope(symbols []string) *gorm.DB {
	scope := r.db.Where("symbols LIKE ?", `%"`+symbols[0]+`"%`)
	for _, symbol := range symbols[1:] {
		scope = scope.Or("symbols LIKE ?", `%"`+symbol+`"%`)
	}
	return scope
}

func (r *newsRepository) CountRelated(ctx context.Context, symbols []string, start, end time.Time) (int64, error) {
	if len(symbols) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.News{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Where(r.relatedScope(symbols)).
		Count(&count).Error
	return count, err
}

func (r *newsRepository) AvgSentimentRelated(ctx context.Context, symbols []string, start, end time.Time) (float64, error) {
	if len(symbols) == 0 {
		return 0, nil
	}
	var avg *float64
	err := r.db.WithContext(ctx).Model(&entity.News{}).
		Select("AVG(sentiment)").
		Where("sentiment IS NOT NULL").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Where(r.relatedScope(symbols)).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *newsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.News{})
	return res.RowsAffected, res.Error
}
