// Package domain holds DTOs for subscriptions http and service contracts
package domain

// ListInput selects the subscription rows to return
// KeywordsID optionally narrows the listing to a comma joined id list
type ListInput struct {
	UserID     int64  `json:"user_id" validate:"required,min=1" example:"6"`
	KeywordsID string `json:"keywords_id,omitempty" validate:"omitempty,comma_ints" example:"2,4"`
}

// SubscriptionRow is one stored subscription window
type SubscriptionRow struct {
	ID        string `json:"id" example:"7b5a2ad5-6c3f-4f21-9d3a-0f6f4f7f7a11"`
	KeywordID int64  `json:"keyword_id" example:"2"`
	Type      string `json:"subscription_type" example:"HOURLY"`
	StartDate string `json:"start_time" example:"2025-01-01"`
	EndDate   string `json:"end_time" example:"2025-01-12"`
}

// CoverageWindow is one merged continuous access window
type CoverageWindow struct {
	Start string `json:"start" example:"2025-01-01"`
	End   string `json:"end" example:"2025-01-20"`
}

// Coverage summarizes merged access per keyword and granularity
type Coverage struct {
	KeywordID   int64            `json:"keyword_id" example:"2"`
	Granularity string           `json:"granularity" example:"DAILY"`
	Windows     []CoverageWindow `json:"windows"`
}

// ListOutput is the subscriptions listing with its coverage preview
type ListOutput struct {
	Subscriptions []SubscriptionRow `json:"subscriptions"`
	Coverage      []Coverage        `json:"coverage"`
}
