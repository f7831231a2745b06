package subscriptionhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhire/internal/domain/auth"
	"staffhire/internal/domain/subscription"
	"staffhire/internal/platform/payment"
	"staffhire/internal/transport/http/api"
	"staffhire/internal/transport/http/middleware"
	"staffhire/internal/transport/http/shared"
)

type Handler struct {
	Service   *subscription.Service
	AuthStore *auth.Store
}

func NewHandler(service *subscription.Service, authStore *auth.Store) *Handler {
	return &Handler{Service: service, AuthStore: authStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/plans", h.handlePlans)
		r.Get("/current", h.handleCurrent)
		r.Get("/history", h.handleHistory)
		r.Post("/checkout", h.handleCheckout)
		r.Post("/activate", h.handleActivate)
	})
}

type checkoutRequest struct {
	PlanCode string `json:"planCode"`
}

type activateRequest struct {
	PlanCode  string `json:"planCode"`
	Reference string `json:"reference"`
}

func (h *Handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.Plans(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "plans_failed", "failed to list plans", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, plans, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	current, err := h.Service.Current(r.Context(), sess)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "subscription_failed", "failed to load subscription", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"subscription": current, "tier": sess.Tier, "accessPercent": sess.AccessPercent}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.History(r.Context(), sess, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "subscription_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PlanCode == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "planCode is required", middleware.GetRequestID(r.Context()))
		return
	}

	email, err := h.AuthStore.ClientEmail(r.Context(), sess.ClientID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkout_failed", "failed to start checkout", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.Checkout(r.Context(), sess, email, payload.PlanCode)
	if err != nil {
		h.failSubscription(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload activateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PlanCode == "" || payload.Reference == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "planCode and reference are required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.Activate(r.Context(), sess, payload.PlanCode, payload.Reference); err != nil {
		h.failSubscription(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "activated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failSubscription(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, subscription.ErrPlanNotFound):
		api.Fail(w, http.StatusNotFound, "plan_not_found", err.Error(), reqID)
	case errors.Is(err, subscription.ErrAlreadyActive):
		api.Fail(w, http.StatusConflict, "already_active", err.Error(), reqID)
	case errors.Is(err, subscription.ErrPaymentRequired):
		api.Fail(w, http.StatusBadRequest, "payment_required", err.Error(), reqID)
	case errors.Is(err, subscription.ErrPaymentFailed):
		api.Fail(w, http.StatusPaymentRequired, "payment_failed", err.Error(), reqID)
	case errors.Is(err, subscription.ErrAmountMismatch):
		api.Fail(w, http.StatusPaymentRequired, "amount_mismatch", err.Error(), reqID)
	case errors.Is(err, payment.ErrNotConfigured):
		api.Fail(w, http.StatusServiceUnavailable, "payment_unavailable", "payment gateway is not configured", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "subscription_failed", "subscription operation failed", reqID)
	}
}
