package subscription

import "time"

const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

const FreePlanCode = "free"

type Plan struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	DurationDays  int     `json:"durationDays"`
	AccessPercent int     `json:"accessPercent"`
}

type Subscription struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	PlanCode  string    `json:"planCode"`
	Status    string    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedAt time.Time `json:"createdAt"`
}
