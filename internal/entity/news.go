package entity

import (
	"time"

	"gorm.io/datatypes"
)

// News represents a stored news item. Rows are immutable once written and
// are only removed by the retention cleanup.
type News struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Content     string                      `json:"content,omitempty"`
	Summary     string                      `json:"summary,omitempty"`
	URL         string                      `gorm:"unique" json:"url"`
	Source      string                      `json:"source"`
	Category    string                      `json:"category,omitempty"`
	Symbols     datatypes.JSONSlice[string] `gorm:"type:text" json:"symbols"`
	Sentiment   *float64                    `json:"sentiment,omitempty"`
	PublishedAt *time.Time                  `json:"published_at,omitempty"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the News model.
func (News) TableName() string {
	return "news"
}
