package hiringhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhire/internal/domain/hiring"
	"staffhire/internal/transport/http/api"
	"staffhire/internal/transport/http/middleware"
	"staffhire/internal/transport/http/shared"
)

type Handler struct {
	Service *hiring.Service
}

func NewHandler(service *hiring.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Get("/", h.handleListInterviews)
		r.Get("/slots", h.handleSlots)
		r.Post("/", h.handleSchedule)
		r.Post("/{interviewID}/outcome", h.handleOutcome)
		r.Post("/{interviewID}/cancel", h.handleCancel)
	})
	r.Route("/engagements", func(r chi.Router) {
		r.Get("/", h.handleListEngagements)
		r.Post("/{staffID}/hire", h.handleDirectHire)
		r.Post("/{staffID}/dismiss", h.handleDismiss)
		r.Post("/{staffID}/suspend", h.handleSuspend)
		r.Post("/{staffID}/unsuspend", h.handleUnsuspend)
	})
	r.Get("/feedback", h.handleListFeedback)
}

type scheduleRequest struct {
	StaffID               string `json:"staffId"`
	Date                  string `json:"date"`
	Slot                  string `json:"slot"`
	AvailabilityConfirmed bool   `json:"availabilityConfirmed"`
}

type outcomeRequest struct {
	Outcome string `json:"outcome"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type cancelRequest struct {
	Reason       string `json:"reason"`
	CustomReason string `json:"customReason"`
}

type actionRequest struct {
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Acknowledged bool   `json:"acknowledged"`
}

func (h *Handler) handleSlots(w http.ResponseWriter, r *http.Request) {
	slots := hiring.Slots()
	labels := make([]string, 0, len(slots))
	for _, slot := range slots {
		labels = append(labels, slot.Label())
	}
	api.Success(w, map[string]any{"slots": labels, "reasons": hiring.CancellationReasons}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("staffId", payload.StaffID, "staff id is required")
	v.Required("slot", payload.Slot, "slot is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	interview, err := h.Service.ScheduleInterview(r.Context(), sess, hiring.ScheduleRequest{
		StaffID:               payload.StaffID,
		Date:                  date,
		SlotLabel:             payload.Slot,
		AvailabilityConfirmed: payload.AvailabilityConfirmed,
	})
	if err != nil {
		h.failHiring(w, r, err, "schedule_failed", "failed to schedule interview")
		return
	}
	api.Created(w, interview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOutcome(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.Decide(r.Context(), sess, hiring.DecisionRequest{
		InterviewID: chi.URLParam(r, "interviewID"),
		Outcome:     hiring.Outcome(payload.Outcome),
		Rating:      payload.Rating,
		Comment:     payload.Comment,
	})
	if err != nil {
		h.failHiring(w, r, err, "outcome_failed", "failed to record interview outcome")
		return
	}
	api.Success(w, map[string]string{"status": "recorded"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.Decide(r.Context(), sess, hiring.DecisionRequest{
		InterviewID:  chi.URLParam(r, "interviewID"),
		Outcome:      hiring.OutcomeCancel,
		Reason:       payload.Reason,
		CustomReason: payload.CustomReason,
	})
	if err != nil {
		h.failHiring(w, r, err, "cancel_failed", "failed to cancel interview")
		return
	}
	api.Success(w, map[string]string{"status": "cancelled"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.Interviews(r.Context(), sess, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "interview_list_failed", "failed to list interviews", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEngagements(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	items, err := h.Service.Engagements(r.Context(), sess)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "engagement_list_failed", "failed to list engagements", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDirectHire(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.DirectHire(r.Context(), sess, chi.URLParam(r, "staffID"), payload.Rating, payload.Comment); err != nil {
		h.failHiring(w, r, err, "hire_failed", "failed to hire staff member")
		return
	}
	api.Success(w, map[string]string{"status": "hired"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.Dismiss(r.Context(), sess, chi.URLParam(r, "staffID"), payload.Rating, payload.Comment); err != nil {
		h.failHiring(w, r, err, "dismiss_failed", "failed to dismiss staff member")
		return
	}
	api.Success(w, map[string]string{"status": "dismissed"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.Suspend(r.Context(), sess, chi.URLParam(r, "staffID"), payload.Rating, payload.Comment, payload.Acknowledged); err != nil {
		h.failHiring(w, r, err, "suspend_failed", "failed to suspend staff member")
		return
	}
	api.Success(w, map[string]string{"status": "suspended"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUnsuspend(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSession(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"notice": h.Service.Unsuspend()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.Feedback(r.Context(), sess, r.URL.Query().Get("staffId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "feedback_list_failed", "failed to list feedback", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failHiring(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, hiring.ErrAvailabilityNotConfirmed):
		api.Fail(w, http.StatusBadRequest, "availability_not_confirmed", err.Error(), reqID)
	case errors.Is(err, hiring.ErrInvalidSlot):
		api.Fail(w, http.StatusBadRequest, "invalid_slot", err.Error(), reqID)
	case errors.Is(err, hiring.ErrDateOutOfRange):
		api.Fail(w, http.StatusBadRequest, "date_out_of_range", err.Error(), reqID)
	case errors.Is(err, hiring.ErrInvalidRating):
		api.Fail(w, http.StatusBadRequest, "invalid_rating", err.Error(), reqID)
	case errors.Is(err, hiring.ErrCommentRequired):
		api.Fail(w, http.StatusBadRequest, "comment_required", err.Error(), reqID)
	case errors.Is(err, hiring.ErrReasonRequired):
		api.Fail(w, http.StatusBadRequest, "reason_required", err.Error(), reqID)
	case errors.Is(err, hiring.ErrAcknowledgementRequired):
		api.Fail(w, http.StatusBadRequest, "acknowledgement_required", err.Error(), reqID)
	case errors.Is(err, hiring.ErrUnknownOutcome):
		api.Fail(w, http.StatusBadRequest, "unknown_outcome", err.Error(), reqID)
	case errors.Is(err, hiring.ErrStaffUnavailable):
		api.Fail(w, http.StatusConflict, "staff_unavailable", err.Error(), reqID)
	case errors.Is(err, hiring.ErrAlreadyScheduled):
		api.Fail(w, http.StatusConflict, "already_scheduled", err.Error(), reqID)
	case errors.Is(err, hiring.ErrNotScheduled):
		api.Fail(w, http.StatusConflict, "not_scheduled", err.Error(), reqID)
	case errors.Is(err, hiring.ErrNotHired):
		api.Fail(w, http.StatusConflict, "not_hired", err.Error(), reqID)
	case errors.Is(err, hiring.ErrEngagementClosed):
		api.Fail(w, http.StatusConflict, "engagement_closed", err.Error(), reqID)
	case errors.Is(err, hiring.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "this interview belongs to another client", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, reqID)
	}
}
