package hiring

import (
	"context"
	"time"
)

type HireParams struct {
	ClientID string
	StaffID  string
	Rating   int
	Comment  string
	Now      time.Time
}

type ActionParams struct {
	ClientID string
	StaffID  string
	Action   string
	Decision string
	Rating   int
	Comment  string
	Now      time.Time
}

type StoreAPI interface {
	StaffStatus(ctx context.Context, staffID string) (name string, status string, err error)
	HasScheduledInterview(ctx context.Context, clientID, staffID string) (bool, error)
	CreateInterview(ctx context.Context, clientID, staffID string, at time.Time) (string, error)
	InterviewByID(ctx context.Context, interviewID string) (Interview, error)
	ListInterviews(ctx context.Context, clientID string, limit, offset int) ([]Interview, int, error)
	HiringStatusFor(ctx context.Context, clientID, staffID string) (*HiringStatus, error)
	ListEngagements(ctx context.Context, clientID string) ([]HiringStatus, error)
	ListFeedback(ctx context.Context, clientID, staffID string, limit, offset int) ([]FeedbackRecord, error)

	// Multi-write transitions; each runs in a single transaction.
	CompleteHire(ctx context.Context, interviewID string, p HireParams) (created bool, err error)
	DirectHire(ctx context.Context, p HireParams) (created bool, err error)
	RejectInterview(ctx context.Context, interviewID string, p HireParams) error
	CancelInterview(ctx context.Context, interviewID, reason string) error
	RecordAction(ctx context.Context, p ActionParams) error
}
