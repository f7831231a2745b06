package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type EngagementRow struct {
	StaffName    string     `json:"staffName"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	ActionStatus string     `json:"actionStatus,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type TransactionRow struct {
	Reference string    `json:"reference"`
	PlanCode  string    `json:"planCode"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Service) EngagementHistory(ctx context.Context, clientID string) ([]EngagementRow, error) {
	return s.store.EngagementHistory(ctx, clientID)
}

func (s *Service) TransactionHistory(ctx context.Context, clientID string) ([]TransactionRow, error) {
	return s.store.TransactionHistory(ctx, clientID)
}

// EngagementPDF renders the client's engagement history as a one-page-per-
// overflow PDF and returns the document bytes.
func (s *Service) EngagementPDF(ctx context.Context, clientID, clientName string) ([]byte, error) {
	rows, err := s.store.EngagementHistory(ctx, clientID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Engagement History")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Client: %s", clientName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(55, 8, "Staff", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Role", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Start", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "End", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		status := row.Status
		if row.ActionStatus != "" {
			status = row.ActionStatus
		}
		pdf.CellFormat(55, 8, row.StaffName, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, row.Role, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, status, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, formatDate(row.StartDate), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, formatDate(row.EndDate), "1", 1, "", false, 0, "")
	}
	if len(rows) == 0 {
		pdf.Cell(0, 8, "No engagements recorded.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
