package reports

import (
	"context"

	"staffhire/internal/platform/db"
)

type Store struct {
	DB *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{DB: database}
}

func (s *Store) EngagementHistory(ctx context.Context, clientID string) ([]EngagementRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sm.full_name, sm.role, hs.status, COALESCE(hs.action_status, ''), hs.start_date, hs.end_date
    FROM hiring_statuses hs
    JOIN staff_members sm ON hs.staff_id = sm.id
    WHERE hs.client_id = $1
    ORDER BY hs.updated_at DESC
  `, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EngagementRow
	for rows.Next() {
		var row EngagementRow
		if err := rows.Scan(&row.StaffName, &row.Role, &row.Status, &row.ActionStatus, &row.StartDate, &row.EndDate); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) TransactionHistory(ctx context.Context, clientID string) ([]TransactionRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT reference, plan_code, amount, created_at
    FROM payment_events
    WHERE client_id = $1
    ORDER BY created_at DESC
  `, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var row TransactionRow
		if err := rows.Scan(&row.Reference, &row.PlanCode, &row.Amount, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
