package repository

import (
	"context"

	"market-daily/internal/entity"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for email subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.EmailSubscription) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]entity.EmailSubscription, error)
	FindActive(ctx context.Context) ([]entity.EmailSubscription, error)
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

type subscriptionRepository struct {
	db *gorm.DB
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.EmailSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.EmailSubscription{}, id).Error
}

func (r *subscriptionRepository) FindAll(ctx context.Context) ([]entity.EmailSubscription, error) {
	var subs []entity.EmailSubscription
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) FindActive(ctx context.Context) ([]entity.EmailSubscription, error) {
	var subs []entity.EmailSubscription
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&subs).Error
	return subs, err
}
