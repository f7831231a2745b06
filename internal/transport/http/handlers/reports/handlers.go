package reportshandler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhire/internal/domain/auth"
	"staffhire/internal/domain/reports"
	"staffhire/internal/transport/http/api"
	"staffhire/internal/transport/http/middleware"
)

type Handler struct {
	Service   *reports.Service
	AuthStore *auth.Store
}

func NewHandler(service *reports.Service, authStore *auth.Store) *Handler {
	return &Handler{Service: service, AuthStore: authStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/engagements", h.handleEngagements)
		r.Get("/engagements/export", h.handleEngagementsCSV)
		r.Get("/engagements/pdf", h.handleEngagementsPDF)
		r.Get("/transactions", h.handleTransactions)
		r.Get("/transactions/export", h.handleTransactionsCSV)
	})
}

func (h *Handler) handleEngagements(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rows, err := h.Service.EngagementHistory(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEngagementsCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rows, err := h.Service.EngagementHistory(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export engagements", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=engagements.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"staff_name", "role", "status", "action_status", "start_date", "end_date"}); err != nil {
		log.Printf("engagement export header write failed: %v", err)
	}
	for _, row := range rows {
		record := []string{row.StaffName, row.Role, row.Status, row.ActionStatus, formatDate(row.StartDate), formatDate(row.EndDate)}
		if err := writer.Write(record); err != nil {
			log.Printf("engagement export row write failed: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("engagement export flush failed: %v", err)
	}
}

func (h *Handler) handleEngagementsPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	clientName := ""
	if client, err := h.AuthStore.ClientByID(r.Context(), user.UserID); err == nil {
		clientName = client.FullName
	}

	doc, err := h.Service.EngagementPDF(r.Context(), user.UserID, clientName)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export engagements", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=engagements.pdf")
	if _, err := w.Write(doc); err != nil {
		log.Printf("engagement pdf write failed: %v", err)
	}
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rows, err := h.Service.TransactionHistory(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rows, err := h.Service.TransactionHistory(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export transactions", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=transactions.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"reference", "plan_code", "amount", "created_at"}); err != nil {
		log.Printf("transaction export header write failed: %v", err)
	}
	for _, row := range rows {
		record := []string{row.Reference, row.PlanCode, fmt.Sprintf("%.2f", row.Amount), row.CreatedAt.Format("2006-01-02")}
		if err := writer.Write(record); err != nil {
			log.Printf("transaction export row write failed: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("transaction export flush failed: %v", err)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
