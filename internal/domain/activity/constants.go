package activity

const (
	TypeInterviewScheduled    = "interview_scheduled"
	TypeInterviewCancelled    = "interview_cancelled"
	TypeInterviewUnsuccessful = "interview_unsuccessful"
	TypeStaffHired            = "staff_hired"
	TypeStaffDismissed        = "staff_dismissed"
	TypeStaffSuspended        = "staff_suspended"
	TypeSubscriptionActivated = "subscription_activated"
	TypeSubscriptionExpired   = "subscription_expired"
)
