package repository

import (
	"context"

	"market-daily/internal/entity"

	"gorm.io/gorm"
)

// EmailLogRepository defines the interface for dispatch logging.
type EmailLogRepository interface {
	Create(ctx context.Context, log *entity.EmailLog) error
	FindByReportID(ctx context.Context, reportID uint) ([]entity.EmailLog, error)
}

// NewEmailLogRepository creates a new instance of EmailLogRepository.
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

type emailLogRepository struct {
	db *gorm.DB
}

func (r *emailLogRepository) Create(ctx context.Context, log *entity.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *emailLogRepository) FindByReportID(ctx context.Context, reportID uint) ([]entity.EmailLog, error) {
	var logs []entity.EmailLog
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("sent_at ASC").
		Find(&logs).Error
	return logs, err
}
