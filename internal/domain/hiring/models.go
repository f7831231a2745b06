package hiring

import "time"

type Interview struct {
	ID                 string    `json:"id"`
	ClientID           string    `json:"clientId"`
	StaffID            string    `json:"staffId"`
	StaffName          string    `json:"staffName,omitempty"`
	ScheduledAt        time.Time `json:"scheduledAt"`
	Status             string    `json:"status"`
	Feedback           string    `json:"feedback,omitempty"`
	Rating             *int      `json:"rating,omitempty"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// HiringStatus is the authoritative current-engagement record for a
// (client, staff) pair; at most one row exists per pair.
type HiringStatus struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"clientId"`
	StaffID      string     `json:"staffId"`
	StaffName    string     `json:"staffName,omitempty"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	ActionStatus string     `json:"actionStatus,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FeedbackRecord rows are append-only; they carry the action history the
// mutable hiring status row loses on each upsert.
type FeedbackRecord struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	StaffID   string    `json:"staffId"`
	Rating    *int      `json:"rating,omitempty"`
	Comment   string    `json:"comment"`
	Decision  string    `json:"decision"`
	CreatedAt time.Time `json:"createdAt"`
}
