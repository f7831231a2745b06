package hiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"staffhire/internal/domain/activity"
	"staffhire/internal/domain/auth"
)

var (
	ErrAvailabilityNotConfirmed = errors.New("availability must be confirmed before scheduling")
	ErrAcknowledgementRequired  = errors.New("suspension acknowledgement required")
	ErrStaffUnavailable         = errors.New("staff member is not available for hire")
	ErrAlreadyScheduled         = errors.New("an interview with this staff member is already scheduled")
	ErrNotScheduled             = errors.New("interview is not in a scheduled state")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidRating            = errors.New("rating must be between 1 and 5")
	ErrCommentRequired          = errors.New("feedback comment is required")
	ErrReasonRequired           = errors.New("cancellation reason is required")
	ErrUnknownOutcome           = errors.New("unknown interview outcome")
)

type Outcome string

const (
	OutcomeHire         Outcome = "hire"
	OutcomeUnsuccessful Outcome = "unsuccessful"
	OutcomeCancel       Outcome = "cancel"
)

// Recorder is the activity fan-out consumed by workflow transitions.
type Recorder interface {
	Record(ctx context.Context, clientID, etype, title, body string)
}

type Service struct {
	Store       StoreAPI
	Activity    Recorder
	HorizonDays int

	// now is swappable in tests.
	now func() time.Time
}

func NewService(store StoreAPI, recorder Recorder, horizonDays int) *Service {
	return &Service{Store: store, Activity: recorder, HorizonDays: horizonDays, now: time.Now}
}

type ScheduleRequest struct {
	StaffID               string
	Date                  time.Time
	SlotLabel             string
	AvailabilityConfirmed bool
}

// ScheduleInterview runs the Confirm step of the booking sequence: a single
// insert of a scheduled interview. The earlier steps write nothing, so a
// failure here leaves no partial state and the caller may simply retry.
func (s *Service) ScheduleInterview(ctx context.Context, sess auth.Session, req ScheduleRequest) (Interview, error) {
	if !req.AvailabilityConfirmed {
		return Interview{}, ErrAvailabilityNotConfirmed
	}
	slot, err := ParseSlot(req.SlotLabel)
	if err != nil {
		return Interview{}, err
	}
	if err := ValidateBookingDate(req.Date, s.now(), s.HorizonDays); err != nil {
		return Interview{}, err
	}

	staffName, staffStatus, err := s.Store.StaffStatus(ctx, req.StaffID)
	if err != nil {
		return Interview{}, fmt.Errorf("staff lookup: %w", err)
	}
	if staffStatus != "active" {
		return Interview{}, ErrStaffUnavailable
	}

	scheduled, err := s.Store.HasScheduledInterview(ctx, sess.ClientID, req.StaffID)
	if err != nil {
		return Interview{}, err
	}
	if scheduled {
		return Interview{}, ErrAlreadyScheduled
	}

	at := CombineDateSlot(req.Date, slot)
	id, err := s.Store.CreateInterview(ctx, sess.ClientID, req.StaffID, at)
	if err != nil {
		return Interview{}, err
	}

	s.Activity.Record(ctx, sess.ClientID, activity.TypeInterviewScheduled,
		"Interview scheduled",
		fmt.Sprintf("Interview with %s on %s at %s.", staffName, at.Format("2006-01-02"), slot.Label()))

	return Interview{
		ID:          id,
		ClientID:    sess.ClientID,
		StaffID:     req.StaffID,
		StaffName:   staffName,
		ScheduledAt: at,
		Status:      InterviewScheduled,
	}, nil
}

type DecisionRequest struct {
	InterviewID  string
	Outcome      Outcome
	Rating       int
	Comment      string
	Reason       string
	CustomReason string
}

// Decide applies the outcome step to a scheduled interview. Hire and
// unsuccessful require a rating and comment; cancel requires only a reason.
// The interview must still be scheduled; that is enforced here and again at
// the write, not just by whichever screen offered the button.
func (s *Service) Decide(ctx context.Context, sess auth.Session, req DecisionRequest) error {
	iv, err := s.Store.InterviewByID(ctx, req.InterviewID)
	if err != nil {
		return fmt.Errorf("interview lookup: %w", err)
	}
	if iv.ClientID != sess.ClientID {
		return ErrForbidden
	}
	if iv.Status != InterviewScheduled {
		return ErrNotScheduled
	}

	switch req.Outcome {
	case OutcomeHire:
		return s.hireFromInterview(ctx, sess, iv, req)
	case OutcomeUnsuccessful:
		if err := validateFeedback(req.Rating, req.Comment); err != nil {
			return err
		}
		if err := s.Store.RejectInterview(ctx, req.InterviewID, HireParams{
			ClientID: sess.ClientID,
			StaffID:  iv.StaffID,
			Rating:   req.Rating,
			Comment:  req.Comment,
		}); err != nil {
			return err
		}
		s.Activity.Record(ctx, sess.ClientID, activity.TypeInterviewUnsuccessful,
			"Interview marked unsuccessful",
			fmt.Sprintf("The interview with %s was marked unsuccessful.", iv.StaffName))
		return nil
	case OutcomeCancel:
		reason, err := resolveCancellationReason(req.Reason, req.CustomReason)
		if err != nil {
			return err
		}
		if err := s.Store.CancelInterview(ctx, req.InterviewID, reason); err != nil {
			return err
		}
		s.Activity.Record(ctx, sess.ClientID, activity.TypeInterviewCancelled,
			"Interview cancelled",
			fmt.Sprintf("The interview with %s was cancelled: %s.", iv.StaffName, reason))
		return nil
	}
	return ErrUnknownOutcome
}

func (s *Service) hireFromInterview(ctx context.Context, sess auth.Session, iv Interview, req DecisionRequest) error {
	if err := validateFeedback(req.Rating, req.Comment); err != nil {
		return err
	}
	existing, err := s.Store.HiringStatusFor(ctx, sess.ClientID, iv.StaffID)
	if err != nil {
		return err
	}
	if err := CanHire(existing); err != nil {
		return err
	}

	created, err := s.Store.CompleteHire(ctx, iv.ID, HireParams{
		ClientID: sess.ClientID,
		StaffID:  iv.StaffID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Now:      s.now(),
	})
	if err != nil {
		return err
	}
	if !created {
		// Pair already hired; the upsert was a no-op and that is success.
		slog.Warn("hire already recorded for pair", "clientId", sess.ClientID, "staffId", iv.StaffID)
	}

	s.Activity.Record(ctx, sess.ClientID, activity.TypeStaffHired,
		"Staff hired",
		fmt.Sprintf("You hired %s.", iv.StaffName))
	return nil
}

// DirectHire engages staff without an interview.
func (s *Service) DirectHire(ctx context.Context, sess auth.Session, staffID string, rating int, comment string) error {
	if err := validateFeedback(rating, comment); err != nil {
		return err
	}
	staffName, staffStatus, err := s.Store.StaffStatus(ctx, staffID)
	if err != nil {
		return fmt.Errorf("staff lookup: %w", err)
	}
	if staffStatus != "active" {
		return ErrStaffUnavailable
	}
	existing, err := s.Store.HiringStatusFor(ctx, sess.ClientID, staffID)
	if err != nil {
		return err
	}
	if err := CanHire(existing); err != nil {
		return err
	}
	created, err := s.Store.DirectHire(ctx, HireParams{
		ClientID: sess.ClientID,
		StaffID:  staffID,
		Rating:   rating,
		Comment:  comment,
		Now:      s.now(),
	})
	if err != nil {
		return err
	}
	if !created {
		slog.Warn("hire already recorded for pair", "clientId", sess.ClientID, "staffId", staffID)
	}
	s.Activity.Record(ctx, sess.ClientID, activity.TypeStaffHired,
		"Staff hired", fmt.Sprintf("You hired %s.", staffName))
	return nil
}

// Dismiss closes the engagement permanently. The primary status stays
// "hired"; the action flag and end date record the dismissal.
func (s *Service) Dismiss(ctx context.Context, sess auth.Session, staffID string, rating int, comment string) error {
	return s.recordAction(ctx, sess, staffID, ActionDismissed, DecisionDismiss, rating, comment,
		activity.TypeStaffDismissed, "Staff dismissed")
}

// Suspend requires the client to acknowledge that only support can lift the
// suspension afterwards.
func (s *Service) Suspend(ctx context.Context, sess auth.Session, staffID string, rating int, comment string, acknowledged bool) error {
	if !acknowledged {
		return ErrAcknowledgementRequired
	}
	return s.recordAction(ctx, sess, staffID, ActionSuspended, DecisionSuspend, rating, comment,
		activity.TypeStaffSuspended, "Staff suspended")
}

// Unsuspend deliberately performs no state transition: it only surfaces the
// support-channel notice. Lifting a suspension is a human-review action.
func (s *Service) Unsuspend() string {
	return UnsuspendNotice
}

func (s *Service) recordAction(ctx context.Context, sess auth.Session, staffID, action, decision string, rating int, comment, activityType, activityTitle string) error {
	if err := validateFeedback(rating, comment); err != nil {
		return err
	}
	existing, err := s.Store.HiringStatusFor(ctx, sess.ClientID, staffID)
	if err != nil {
		return err
	}
	guard := CanDismiss
	if action == ActionSuspended {
		guard = CanSuspend
	}
	if err := guard(existing); err != nil {
		return err
	}

	if err := s.Store.RecordAction(ctx, ActionParams{
		ClientID: sess.ClientID,
		StaffID:  staffID,
		Action:   action,
		Decision: decision,
		Rating:   rating,
		Comment:  comment,
		Now:      s.now(),
	}); err != nil {
		return err
	}

	staffName, _, err := s.Store.StaffStatus(ctx, staffID)
	if err != nil {
		staffName = "staff member"
	}
	s.Activity.Record(ctx, sess.ClientID, activityType, activityTitle,
		fmt.Sprintf("%s: %s.", activityTitle, staffName))
	return nil
}

func (s *Service) Interviews(ctx context.Context, sess auth.Session, limit, offset int) ([]Interview, int, error) {
	return s.Store.ListInterviews(ctx, sess.ClientID, limit, offset)
}

func (s *Service) Engagements(ctx context.Context, sess auth.Session) ([]HiringStatus, error) {
	return s.Store.ListEngagements(ctx, sess.ClientID)
}

func (s *Service) Feedback(ctx context.Context, sess auth.Session, staffID string, limit, offset int) ([]FeedbackRecord, error) {
	return s.Store.ListFeedback(ctx, sess.ClientID, staffID, limit, offset)
}

func validateFeedback(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	return nil
}

func resolveCancellationReason(reason, custom string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", ErrReasonRequired
	}
	if reason == CustomCancellationReason {
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", ErrReasonRequired
		}
		return custom, nil
	}
	for _, candidate := range CancellationReasons {
		if reason == candidate {
			return reason, nil
		}
	}
	return "", ErrReasonRequired
}
