package hiring

// Interview statuses. An interview is mutable only while scheduled; every
// other status is terminal.
const (
	InterviewScheduled   = "scheduled"
	InterviewCompleted   = "completed"
	InterviewCancelled   = "cancelled"
	InterviewNoShow      = "no_show"
	InterviewRescheduled = "rescheduled"
	InterviewRejected    = "rejected"
)

// Engagement statuses on the per-pair hiring record.
const (
	EngagementPending    = "pending"
	EngagementHired      = "hired"
	EngagementRejected   = "rejected"
	EngagementTerminated = "terminated"
)

// Disciplinary action recorded on a hired pair. The primary status stays
// "hired"; only the action flag and end date move.
const (
	ActionNone      = ""
	ActionDismissed = "dismissed"
	ActionSuspended = "suspended"
)

// Feedback decisions, one row appended per workflow action. Cancellations
// write no feedback row.
const (
	DecisionHire         = "hire"
	DecisionReject       = "reject"
	DecisionUnsuccessful = "unsuccessful"
	DecisionDismiss      = "dismiss"
	DecisionSuspend      = "suspend"
)

const CustomCancellationReason = "Custom"

var CancellationReasons = []string{
	"Change of plans",
	"Found alternative staff",
	"Staff unreachable by phone",
	"Scheduling conflict",
	CustomCancellationReason,
}

// UnsuspendNotice is all that happens on an unsuspend request: lifting a
// suspension requires human review through support, so no record is written.
const UnsuspendNotice = "Suspended staff can only be reinstated by our support team. Please contact support to review this suspension."
