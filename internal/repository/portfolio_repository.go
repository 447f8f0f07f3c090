package repository

import (
	"context"

	"market-daily/internal/entity"

	"gorm.io/gorm"
)

// PortfolioRepository defines the interface for portfolio lookups used by
// report assembly.
type PortfolioRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Portfolio, error)
	FindPublic(ctx context.Context, limit int) ([]entity.Portfolio, error)
	FindAllStocks(ctx context.Context) ([]entity.PortfolioStock, error)
}

// NewPortfolioRepository creates a new instance of PortfolioRepository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

func (r *portfolioRepository) FindByID(ctx context.Context, id uint) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Stocks").
		First(&portfolio, id).Error
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) FindPublic(ctx context.Context, limit int) ([]entity.Portfolio, error) {
	var portfolios []entity.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Stocks").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&portfolios).Error
	return portfolios, err
}

func (r *portfolioRepository) FindAllStocks(ctx context.Context) ([]entity.PortfolioStock, error) {
	var stocks []entity.PortfolioStock
	err := r.db.WithContext(ctx).Find(&stocks).Error
	return stocks, err
}
