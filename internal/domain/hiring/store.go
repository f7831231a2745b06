package hiring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"staffhire/internal/platform/db"
)

type Store struct {
	DB *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{DB: database}
}

func (s *Store) StaffStatus(ctx context.Context, staffID string) (string, string, error) {
	var name, status string
	err := s.DB.QueryRow(ctx, "SELECT full_name, status FROM staff_members WHERE id = $1", staffID).Scan(&name, &status)
	return name, status, err
}

func (s *Store) HasScheduledInterview(ctx context.Context, clientID, staffID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM interviews
    WHERE client_id = $1 AND staff_id = $2 AND status = $3
  `, clientID, staffID, InterviewScheduled).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateInterview(ctx context.Context, clientID, staffID string, at time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO interviews (client_id, staff_id, scheduled_at, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, clientID, staffID, at, InterviewScheduled).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) InterviewByID(ctx context.Context, interviewID string) (Interview, error) {
	var iv Interview
	err := s.DB.QueryRow(ctx, `
    SELECT i.id, i.client_id, i.staff_id, sm.full_name, i.scheduled_at, i.status,
           COALESCE(i.feedback, ''), i.rating, COALESCE(i.cancellation_reason, ''), i.created_at
    FROM interviews i
    JOIN staff_members sm ON i.staff_id = sm.id
    WHERE i.id = $1
  `, interviewID).Scan(&iv.ID, &iv.ClientID, &iv.StaffID, &iv.StaffName, &iv.ScheduledAt, &iv.Status,
		&iv.Feedback, &iv.Rating, &iv.CancellationReason, &iv.CreatedAt)
	return iv, err
}

func (s *Store) ListInterviews(ctx context.Context, clientID string, limit, offset int) ([]Interview, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM interviews WHERE client_id = $1", clientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT i.id, i.client_id, i.staff_id, sm.full_name, i.scheduled_at, i.status,
           COALESCE(i.feedback, ''), i.rating, COALESCE(i.cancellation_reason, ''), i.created_at
    FROM interviews i
    JOIN staff_members sm ON i.staff_id = sm.id
    WHERE i.client_id = $1
    ORDER BY i.scheduled_at DESC
    LIMIT $2 OFFSET $3
  `, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Interview
	for rows.Next() {
		var iv Interview
		if err := rows.Scan(&iv.ID, &iv.ClientID, &iv.StaffID, &iv.StaffName, &iv.ScheduledAt, &iv.Status,
			&iv.Feedback, &iv.Rating, &iv.CancellationReason, &iv.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, iv)
	}
	return out, total, nil
}

func (s *Store) HiringStatusFor(ctx context.Context, clientID, staffID string) (*HiringStatus, error) {
	var hs HiringStatus
	var actionStatus *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, client_id, staff_id, status, start_date, end_date, action_status, updated_at
    FROM hiring_statuses
    WHERE client_id = $1 AND staff_id = $2
  `, clientID, staffID).Scan(&hs.ID, &hs.ClientID, &hs.StaffID, &hs.Status, &hs.StartDate, &hs.EndDate, &actionStatus, &hs.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if actionStatus != nil {
		hs.ActionStatus = *actionStatus
	}
	return &hs, nil
}

func (s *Store) ListEngagements(ctx context.Context, clientID string) ([]HiringStatus, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT hs.id, hs.client_id, hs.staff_id, sm.full_name, hs.status, hs.start_date, hs.end_date, hs.action_status, hs.updated_at
    FROM hiring_statuses hs
    JOIN staff_members sm ON hs.staff_id = sm.id
    WHERE hs.client_id = $1
    ORDER BY hs.updated_at DESC
  `, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HiringStatus
	for rows.Next() {
		var hs HiringStatus
		var actionStatus *string
		if err := rows.Scan(&hs.ID, &hs.ClientID, &hs.StaffID, &hs.StaffName, &hs.Status, &hs.StartDate, &hs.EndDate, &actionStatus, &hs.UpdatedAt); err != nil {
			return nil, err
		}
		if actionStatus != nil {
			hs.ActionStatus = *actionStatus
		}
		out = append(out, hs)
	}
	return out, nil
}

func (s *Store) ListFeedback(ctx context.Context, clientID, staffID string, limit, offset int) ([]FeedbackRecord, error) {
	query := `
    SELECT id, client_id, staff_id, rating, comment, decision, created_at
    FROM feedback_records
    WHERE client_id = $1
  `
	args := []any{clientID}
	if staffID != "" {
		query += " AND staff_id = $2"
		args = append(args, staffID)
	}
	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", limitPos, offsetPos)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FeedbackRecord
	for rows.Next() {
		var rec FeedbackRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.StaffID, &rec.Rating, &rec.Comment, &rec.Decision, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// CompleteHire applies the hire outcome in one transaction: the interview
// closes, a feedback row is appended, and the pair's hiring status is
// upserted. The ON CONFLICT DO NOTHING makes a repeated hire a no-op rather
// than an error.
func (s *Store) CompleteHire(ctx context.Context, interviewID string, p HireParams) (bool, error) {
	var created bool
	err := s.DB.InTx(ctx, func(tx pgx.Tx) error {
		created = false

		tag, err := tx.Exec(ctx, `
      UPDATE interviews SET status = $1, feedback = $2, rating = $3
      WHERE id = $4 AND status = $5
    `, InterviewCompleted, p.Comment, p.Rating, interviewID, InterviewScheduled)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotScheduled
		}

		if _, err := tx.Exec(ctx, `
      INSERT INTO feedback_records (client_id, staff_id, rating, comment, decision)
      VALUES ($1,$2,$3,$4,$5)
    `, p.ClientID, p.StaffID, p.Rating, p.Comment, DecisionHire); err != nil {
			return err
		}

		statusTag, err := tx.Exec(ctx, `
      INSERT INTO hiring_statuses (client_id, staff_id, status, start_date)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT (client_id, staff_id) DO NOTHING
    `, p.ClientID, p.StaffID, EngagementHired, p.Now)
		if err != nil {
			return err
		}
		created = statusTag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *Store) DirectHire(ctx context.Context, p HireParams) (bool, error) {
	var created bool
	err := s.DB.InTx(ctx, func(tx pgx.Tx) error {
		created = false

		if _, err := tx.Exec(ctx, `
      INSERT INTO feedback_records (client_id, staff_id, rating, comment, decision)
      VALUES ($1,$2,$3,$4,$5)
    `, p.ClientID, p.StaffID, p.Rating, p.Comment, DecisionHire); err != nil {
			return err
		}

		statusTag, err := tx.Exec(ctx, `
      INSERT INTO hiring_statuses (client_id, staff_id, status, start_date)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT (client_id, staff_id) DO NOTHING
    `, p.ClientID, p.StaffID, EngagementHired, p.Now)
		if err != nil {
			return err
		}
		created = statusTag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *Store) RejectInterview(ctx context.Context, interviewID string, p HireParams) error {
	return s.DB.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE interviews SET status = $1, feedback = $2, rating = $3
      WHERE id = $4 AND status = $5
    `, InterviewRejected, p.Comment, p.Rating, interviewID, InterviewScheduled)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotScheduled
		}

		_, err = tx.Exec(ctx, `
      INSERT INTO feedback_records (client_id, staff_id, rating, comment, decision)
      VALUES ($1,$2,$3,$4,$5)
    `, p.ClientID, p.StaffID, p.Rating, p.Comment, DecisionUnsuccessful)
		return err
	})
}

// CancelInterview writes no feedback row; a cancellation carries only its
// reason.
func (s *Store) CancelInterview(ctx context.Context, interviewID, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE interviews SET status = $1, cancellation_reason = $2
    WHERE id = $3 AND status = $4
  `, InterviewCancelled, reason, interviewID, InterviewScheduled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotScheduled
	}
	return nil
}

// RecordAction applies dismiss/suspend in one transaction: append the
// feedback row, then stamp the action and end date on the open engagement.
// The primary status stays "hired".
func (s *Store) RecordAction(ctx context.Context, p ActionParams) error {
	return s.DB.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
      INSERT INTO feedback_records (client_id, staff_id, rating, comment, decision)
      VALUES ($1,$2,$3,$4,$5)
    `, p.ClientID, p.StaffID, p.Rating, p.Comment, p.Decision); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
      UPDATE hiring_statuses
      SET action_status = $1, end_date = $2, updated_at = now()
      WHERE client_id = $3 AND staff_id = $4 AND status = $5 AND action_status IS NULL
    `, p.Action, p.Now, p.ClientID, p.StaffID, EngagementHired)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrEngagementClosed
		}
		return nil
	})
}
