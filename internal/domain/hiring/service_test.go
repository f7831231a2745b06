package hiring

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffhire/internal/domain/auth"
)

type fakeStore struct {
	staffName    string
	staffStatus  string
	hasScheduled bool
	interview    Interview
	interviewErr error
	status       *HiringStatus
	hireCreated  bool

	createdAt     time.Time
	completeCalls int
	directCalls   int
	rejectCalls   int
	cancelCalls   int
	cancelReason  string
	actionCalls   []ActionParams
}

func (f *fakeStore) StaffStatus(ctx context.Context, staffID string) (string, string, error) {
	return f.staffName, f.staffStatus, nil
}

func (f *fakeStore) HasScheduledInterview(ctx context.Context, clientID, staffID string) (bool, error) {
	return f.hasScheduled, nil
}

func (f *fakeStore) CreateInterview(ctx context.Context, clientID, staffID string, at time.Time) (string, error) {
	f.createdAt = at
	return "iv-1", nil
}

func (f *fakeStore) InterviewByID(ctx context.Context, interviewID string) (Interview, error) {
	return f.interview, f.interviewErr
}

func (f *fakeStore) ListInterviews(ctx context.Context, clientID string, limit, offset int) ([]Interview, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) HiringStatusFor(ctx context.Context, clientID, staffID string) (*HiringStatus, error) {
	return f.status, nil
}

func (f *fakeStore) ListEngagements(ctx context.Context, clientID string) ([]HiringStatus, error) {
	return nil, nil
}

func (f *fakeStore) ListFeedback(ctx context.Context, clientID, staffID string, limit, offset int) ([]FeedbackRecord, error) {
	return nil, nil
}

func (f *fakeStore) CompleteHire(ctx context.Context, interviewID string, p HireParams) (bool, error) {
	f.completeCalls++
	return f.hireCreated, nil
}

func (f *fakeStore) DirectHire(ctx context.Context, p HireParams) (bool, error) {
	f.directCalls++
	return f.hireCreated, nil
}

func (f *fakeStore) RejectInterview(ctx context.Context, interviewID string, p HireParams) error {
	f.rejectCalls++
	return nil
}

func (f *fakeStore) CancelInterview(ctx context.Context, interviewID, reason string) error {
	f.cancelCalls++
	f.cancelReason = reason
	return nil
}

func (f *fakeStore) RecordAction(ctx context.Context, p ActionParams) error {
	f.actionCalls = append(f.actionCalls, p)
	return nil
}

type fakeRecorder struct {
	types []string
}

func (f *fakeRecorder) Record(ctx context.Context, clientID, etype, title, body string) {
	f.types = append(f.types, etype)
}

func newTestService(store *fakeStore) (*Service, *fakeRecorder) {
	recorder := &fakeRecorder{}
	svc := NewService(store, recorder, 14)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }
	return svc, recorder
}

func testSession() auth.Session {
	return auth.Session{ClientID: "client-1", Region: "lagos", Tier: "standard", AccessPercent: 40}
}

func TestScheduleInterviewRequiresAvailabilityConfirmation(t *testing.T) {
	store := &fakeStore{staffName: "Amina Yusuf", staffStatus: "active"}
	svc, _ := newTestService(store)

	_, err := svc.ScheduleInterview(context.Background(), testSession(), ScheduleRequest{
		StaffID:   "staff-1",
		Date:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		SlotLabel: "10:00 AM",
	})
	if !errors.Is(err, ErrAvailabilityNotConfirmed) {
		t.Fatalf("expected ErrAvailabilityNotConfirmed, got %v", err)
	}
}

func TestScheduleInterviewRejectsDuplicatePair(t *testing.T) {
	store := &fakeStore{staffName: "Amina Yusuf", staffStatus: "active", hasScheduled: true}
	svc, _ := newTestService(store)

	_, err := svc.ScheduleInterview(context.Background(), testSession(), ScheduleRequest{
		StaffID:               "staff-1",
		Date:                  time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		SlotLabel:             "10:00 AM",
		AvailabilityConfirmed: true,
	})
	if !errors.Is(err, ErrAlreadyScheduled) {
		t.Fatalf("expected ErrAlreadyScheduled, got %v", err)
	}
}

func TestScheduleInterviewRejectsInactiveStaff(t *testing.T) {
	store := &fakeStore{staffName: "Amina Yusuf", staffStatus: "inactive"}
	svc, _ := newTestService(store)

	_, err := svc.ScheduleInterview(context.Background(), testSession(), ScheduleRequest{
		StaffID:               "staff-1",
		Date:                  time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		SlotLabel:             "10:00 AM",
		AvailabilityConfirmed: true,
	})
	if !errors.Is(err, ErrStaffUnavailable) {
		t.Fatalf("expected ErrStaffUnavailable, got %v", err)
	}
}

func TestScheduleInterviewCombinesDateAndSlot(t *testing.T) {
	store := &fakeStore{staffName: "Amina Yusuf", staffStatus: "active"}
	svc, recorder := newTestService(store)

	iv, err := svc.ScheduleInterview(context.Background(), testSession(), ScheduleRequest{
		StaffID:               "staff-1",
		Date:                  time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		SlotLabel:             "2:30 PM",
		AvailabilityConfirmed: true,
	})
	if err != nil {
		t.Fatalf("ScheduleInterview failed: %v", err)
	}
	want := time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC)
	if !store.createdAt.Equal(want) {
		t.Fatalf("stored scheduled_at = %v, want %v", store.createdAt, want)
	}
	if iv.Status != InterviewScheduled {
		t.Fatalf("expected scheduled status, got %q", iv.Status)
	}
	if len(recorder.types) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(recorder.types))
	}
}

func TestDecideHireRunsCompleteHire(t *testing.T) {
	store := &fakeStore{
		interview:   Interview{ID: "iv-1", ClientID: "client-1", StaffID: "staff-1", StaffName: "Amina Yusuf", Status: InterviewScheduled},
		hireCreated: true,
	}
	svc, recorder := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1",
		Outcome:     OutcomeHire,
		Rating:      5,
		Comment:     "great interview",
	})
	if err != nil {
		t.Fatalf("Decide hire failed: %v", err)
	}
	if store.completeCalls != 1 {
		t.Fatalf("expected one CompleteHire call, got %d", store.completeCalls)
	}
	if len(recorder.types) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(recorder.types))
	}
}

func TestDecideHireIsIdempotentForOpenEngagement(t *testing.T) {
	store := &fakeStore{
		interview:   Interview{ID: "iv-2", ClientID: "client-1", StaffID: "staff-1", Status: InterviewScheduled},
		status:      &HiringStatus{Status: EngagementHired},
		hireCreated: false,
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-2",
		Outcome:     OutcomeHire,
		Rating:      4,
		Comment:     "hire again",
	})
	if err != nil {
		t.Fatalf("second hire should be a quiet no-op, got %v", err)
	}
	if store.completeCalls != 1 {
		t.Fatalf("expected the idempotent write to still run, got %d calls", store.completeCalls)
	}
}

func TestDecideHireValidatesFeedback(t *testing.T) {
	store := &fakeStore{
		interview: Interview{ID: "iv-1", ClientID: "client-1", StaffID: "staff-1", Status: InterviewScheduled},
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeHire, Rating: 6, Comment: "too good",
	})
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	err = svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeHire, Rating: 3, Comment: "   ",
	})
	if !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}
}

func TestDecideRejectsNonScheduledInterview(t *testing.T) {
	store := &fakeStore{
		interview: Interview{ID: "iv-1", ClientID: "client-1", StaffID: "staff-1", Status: InterviewCancelled},
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeHire, Rating: 5, Comment: "late hire",
	})
	if !errors.Is(err, ErrNotScheduled) {
		t.Fatalf("expected ErrNotScheduled, got %v", err)
	}
}

func TestDecideRejectsForeignInterview(t *testing.T) {
	store := &fakeStore{
		interview: Interview{ID: "iv-1", ClientID: "someone-else", StaffID: "staff-1", Status: InterviewScheduled},
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeCancel, Reason: "Change of plans",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecideCancelRequiresReason(t *testing.T) {
	store := &fakeStore{
		interview: Interview{ID: "iv-1", ClientID: "client-1", StaffID: "staff-1", Status: InterviewScheduled},
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeCancel,
	})
	if !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	err = svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID: "iv-1", Outcome: OutcomeCancel, Reason: CustomCancellationReason,
	})
	if !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired for empty custom reason, got %v", err)
	}
}

func TestDecideCancelUsesCustomReason(t *testing.T) {
	store := &fakeStore{
		interview: Interview{ID: "iv-1", ClientID: "client-1", StaffID: "staff-1", Status: InterviewScheduled},
	}
	svc, _ := newTestService(store)

	err := svc.Decide(context.Background(), testSession(), DecisionRequest{
		InterviewID:  "iv-1",
		Outcome:      OutcomeCancel,
		Reason:       CustomCancellationReason,
		CustomReason: "travel clash",
	})
	if err != nil {
		t.Fatalf("cancel with custom reason failed: %v", err)
	}
	if store.cancelCalls != 1 || store.cancelReason != "travel clash" {
		t.Fatalf("expected one cancel with custom reason, got %d calls reason %q", store.cancelCalls, store.cancelReason)
	}
	if store.rejectCalls != 0 || store.completeCalls != 0 {
		t.Fatalf("cancel must not write hire or rejection records")
	}
}

func TestSuspendRequiresAcknowledgement(t *testing.T) {
	store := &fakeStore{
		staffName:   "Amina Yusuf",
		staffStatus: "active",
		status:      &HiringStatus{Status: EngagementHired},
	}
	svc, _ := newTestService(store)

	err := svc.Suspend(context.Background(), testSession(), "staff-1", 3, "pending investigation", false)
	if !errors.Is(err, ErrAcknowledgementRequired) {
		t.Fatalf("expected ErrAcknowledgementRequired, got %v", err)
	}
	if len(store.actionCalls) != 0 {
		t.Fatalf("no action should be recorded without acknowledgement")
	}
}

func TestSuspendRecordsActionOnOpenEngagement(t *testing.T) {
	store := &fakeStore{
		staffName:   "Amina Yusuf",
		staffStatus: "active",
		status:      &HiringStatus{Status: EngagementHired},
	}
	svc, recorder := newTestService(store)

	if err := svc.Suspend(context.Background(), testSession(), "staff-1", 3, "pending investigation", true); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}
	if len(store.actionCalls) != 1 {
		t.Fatalf("expected one recorded action, got %d", len(store.actionCalls))
	}
	action := store.actionCalls[0]
	if action.Action != ActionSuspended || action.Decision != DecisionSuspend {
		t.Fatalf("unexpected action params: %+v", action)
	}
	if len(recorder.types) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(recorder.types))
	}
}

func TestDismissOnClosedEngagementFails(t *testing.T) {
	store := &fakeStore{
		staffName:   "Amina Yusuf",
		staffStatus: "active",
		status:      &HiringStatus{Status: EngagementHired, ActionStatus: ActionSuspended},
	}
	svc, _ := newTestService(store)

	err := svc.Dismiss(context.Background(), testSession(), "staff-1", 2, "did not work out")
	if !errors.Is(err, ErrEngagementClosed) {
		t.Fatalf("expected ErrEngagementClosed, got %v", err)
	}
	if len(store.actionCalls) != 0 {
		t.Fatalf("closed engagement must not record actions")
	}
}

func TestUnsuspendWritesNothing(t *testing.T) {
	store := &fakeStore{}
	svc, recorder := newTestService(store)

	notice := svc.Unsuspend()
	if notice != UnsuspendNotice {
		t.Fatalf("unexpected notice %q", notice)
	}
	if len(store.actionCalls) != 0 || store.completeCalls != 0 || store.directCalls != 0 {
		t.Fatalf("unsuspend must not touch the store")
	}
	if len(recorder.types) != 0 {
		t.Fatalf("unsuspend must not record activity")
	}
}
