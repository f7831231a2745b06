package staffhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhire/internal/domain/staff"
	"staffhire/internal/transport/http/api"
	"staffhire/internal/transport/http/middleware"
	"staffhire/internal/transport/http/shared"
)

type Handler struct {
	Service *staff.Service
}

func NewHandler(service *staff.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.handleBrowse)
		r.Get("/{staffID}", h.handleProfile)
	})
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/staff", func(r chi.Router) {
		r.Get("/", h.handleListAll)
		r.Post("/", h.handleCreate)
		r.Put("/{staffID}", h.handleUpdate)
		r.Post("/{staffID}/status", h.handleSetStatus)
	})
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page, err := h.Service.Browse(r.Context(), sess, parseFilter(r), shared.ParsePage(r))
	if err != nil {
		if errors.Is(err, staff.ErrRegionNotServiceable) {
			api.Fail(w, http.StatusForbidden, "region_not_serviceable", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "catalog_failed", "failed to load catalog", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	member, err := h.Service.Profile(r.Context(), sess, chi.URLParam(r, "staffID"))
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrRegionNotServiceable):
			api.Fail(w, http.StatusForbidden, "region_not_serviceable", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, staff.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "profile_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, member, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.ListAll(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_list_failed", "failed to list staff", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload staff.Member
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	member, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		if errors.Is(err, staff.ErrInvalidMember) {
			api.Fail(w, http.StatusBadRequest, "invalid_member", "invalid staff member details", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "staff_create_failed", "failed to create staff member", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, member, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload staff.Member
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.ID = chi.URLParam(r, "staffID")
	if err := h.Service.Update(r.Context(), payload); err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidMember):
			api.Fail(w, http.StatusBadRequest, "invalid_member", "invalid staff member details", middleware.GetRequestID(r.Context()))
		case errors.Is(err, staff.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "staff_update_failed", "failed to update staff member", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "staffID"), payload.Status); err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidMember):
			api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be active, inactive, suspended or blacklist", middleware.GetRequestID(r.Context()))
		case errors.Is(err, staff.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "staff_update_failed", "failed to update staff member", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": payload.Status}, middleware.GetRequestID(r.Context()))
}

func parseFilter(r *http.Request) staff.Filter {
	q := r.URL.Query()
	f := staff.Filter{
		Query:        q.Get("q"),
		Role:         q.Get("role"),
		Location:     q.Get("location"),
		Gender:       q.Get("gender"),
		ContractType: q.Get("contractType"),
		Skill:        q.Get("skill"),
	}
	intParam := func(name string) int {
		if v, err := strconv.Atoi(q.Get(name)); err == nil && v > 0 {
			return v
		}
		return 0
	}
	floatParam := func(name string) float64 {
		if v, err := strconv.ParseFloat(q.Get(name), 64); err == nil && v > 0 {
			return v
		}
		return 0
	}
	f.MinAge = intParam("minAge")
	f.MaxAge = intParam("maxAge")
	f.MinExperience = intParam("minExperience")
	f.MaxExperience = intParam("maxExperience")
	f.MinSalary = floatParam("minSalary")
	f.MaxSalary = floatParam("maxSalary")
	if raw := q.Get("accommodation"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Accommodation = &v
		}
	}
	return f
}
