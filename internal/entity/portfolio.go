package entity

import "time"

// Portfolio represents a named, user-owned collection of ticker symbols.
type Portfolio struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Description string           `json:"description,omitempty"`
	UserID      *uint            `json:"user_id,omitempty"`
	IsPublic    bool             `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	Stocks      []PortfolioStock `gorm:"foreignKey:PortfolioID" json:"stocks,omitempty"`
}

// TableName specifies the table name for the Portfolio model.
func (Portfolio) TableName() string {
	return "portfolios"
}

// PortfolioStock represents one holding inside a portfolio. The symbol is
// unique per portfolio.
type PortfolioStock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PortfolioID uint      `gorm:"not null;uniqueIndex:idx_portfolio_symbol" json:"portfolio_id"`
	Symbol      string    `gorm:"not null;uniqueIndex:idx_portfolio_symbol" json:"symbol"`
	Name        string    `gorm:"not null" json:"name"`
	Sector      string    `json:"sector,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PortfolioStock model.
func (PortfolioStock) TableName() string {
	return "portfolio_stocks"
}
