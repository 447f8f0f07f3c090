package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Report kinds.
const (
	ReportTypePortfolio         = "portfolio"
	ReportTypeEnhancedPortfolio = "enhanced-portfolio"
	ReportTypeTopicResearch     = "topic-research"
	ReportTypeGeneral           = "general"
)

// Report statuses. A report transitions generated -> sent|failed after the
// dispatch batch completes.
const (
	ReportStatusGenerated = "generated"
	ReportStatusSent      = "sent"
	ReportStatusFailed    = "failed"
)

// Report is a persisted snapshot of an assembled report. The payload is an
// opaque JSON blob that is never mutated, only superseded by a new row.
type Report struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"not null" json:"type"`
	Title       string         `gorm:"not null" json:"title"`
	PortfolioID *uint          `json:"portfolio_id,omitempty"`
	UserID      *uint          `json:"user_id,omitempty"`
	Payload     datatypes.JSON `gorm:"type:text" json:"payload"`
	Topic       string         `json:"topic,omitempty"`
	Days        int            `json:"days,omitempty"`
	Status      string         `gorm:"default:generated" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Report model.
func (Report) TableName() string {
	return "reports"
}
