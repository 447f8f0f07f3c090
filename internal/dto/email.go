package dto

// EmailMessage is a rendered email ready for dispatch.
type EmailMessage struct {
	Subject string
	HTML    string
	Text    string
}

// DispatchOutcome records the delivery result for one recipient.
type DispatchOutcome struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DigestSummary aggregates one scheduled digest run.
type DigestSummary struct {
	Total                  int `json:"total"`
	PortfolioSubscriptions int `json:"portfolioSubscriptions"`
	GeneralSubscriptions   int `json:"generalSubscriptions"`
}
