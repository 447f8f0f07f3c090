package dto

// GenerateTopicReportRequest is the body for the topic report endpoint.
type GenerateTopicReportRequest struct {
	Topic      string   `json:"topic"`
	Days       int      `json:"days"`
	Recipients []string `json:"recipients,omitempty"`
}

// GenerateReportRequest is the optional body for the portfolio and general
// report endpoints. When recipients are present the report is dispatched
// after assembly.
type GenerateReportRequest struct {
	Date       string   `json:"date,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// CreateSubscriptionRequest is the body for creating a subscription.
type CreateSubscriptionRequest struct {
	Email       string `json:"email"`
	PortfolioID *uint  `json:"portfolio_id,omitempty"`
}
