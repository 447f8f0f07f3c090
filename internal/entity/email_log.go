package entity

import "time"

// Email log statuses.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailLog records one dispatch attempt. Rows are append-only. ReportID
// links the attempt to the report it delivered, when there is one.
type EmailLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Recipient    string    `gorm:"not null" json:"recipient"`
	Subject      string    `gorm:"not null" json:"subject"`
	Status       string    `gorm:"default:pending" json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ReportID     *uint     `json:"report_id,omitempty"`
	SentAt       time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

// TableName specifies the table name for the EmailLog model.
func (EmailLog) TableName() string {
	return "email_logs"
}
