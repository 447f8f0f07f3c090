package repository

import (
	"context"

	"market-daily/internal/entity"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for persisted reports.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindByID(ctx context.Context, id uint) (*entity.Report, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Report, error)
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

type reportRepository struct {
	db *gorm.DB
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*entity.Report, error) {
	var report entity.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindRecent(ctx context.Context, limit int) ([]entity.Report, error) {
	var reports []entity.Report
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
