package entity

import "time"

// EmailSubscription represents a digest subscription. A nil PortfolioID
// denotes the general market digest rather than a portfolio-specific one.
// At most one active subscription exists per (email, portfolio) pair.
type EmailSubscription struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null;uniqueIndex:idx_email_portfolio" json:"email"`
	PortfolioID *uint     `gorm:"uniqueIndex:idx_email_portfolio" json:"portfolio_id,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the EmailSubscription model.
func (EmailSubscription) TableName() string {
	return "email_subscriptions"
}
