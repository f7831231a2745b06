package subscription

import (
	"context"
	"errors"
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

func (s *Store) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT code, name, price, duration_days, access_percent FROM plans ORDER BY price")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.Code, &p.Name, &p.Price, &p.DurationDays, &p.AccessPercent); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) PlanByCode(ctx context.Context, code string) (Plan, error) {
	var p Plan
	err := s.DB.QueryRow(ctx,
		"SELECT code, name, price, duration_days, access_percent FROM plans WHERE code = $1", code).
		Scan(&p.Code, &p.Name, &p.Price, &p.DurationDays, &p.AccessPercent)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrPlanNotFound
	}
	return p, err
}

// ActiveSubscription returns the client's current active subscription, or
// (nil, nil) when the client is on the implicit free tier.
func (s *Store) ActiveSubscription(ctx context.Context, clientID string) (*Subscription, error) {
	var sub Subscription
	err := s.DB.QueryRow(ctx, `
    SELECT id, client_id, plan_code, status, COALESCE(reference, ''), starts_at, ends_at, created_at
    FROM subscriptions
    WHERE client_id = $1 AND status = $2
    ORDER BY created_at DESC
    LIMIT 1
  `, clientID, StatusActive).Scan(&sub.ID, &sub.ClientID, &sub.PlanCode, &sub.Status,
		&sub.Reference, &sub.StartsAt, &sub.EndsAt, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) History(ctx context.Context, clientID string, limit, offset int) ([]Subscription, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, client_id, plan_code, status, COALESCE(reference, ''), starts_at, ends_at, created_at
    FROM subscriptions
    WHERE client_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.ClientID, &sub.PlanCode, &sub.Status,
			&sub.Reference, &sub.StartsAt, &sub.EndsAt, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Activate switches the client onto a plan in one transaction: record the
// payment event, retire any active subscriptions, insert the new one, and
// stamp the tier onto the client row. The payment_events unique reference
// makes replays a no-op; created reports whether this call did the work.
func (s *Store) Activate(ctx context.Context, clientID string, plan Plan, reference string, amount float64, now time.Time) (bool, error) {
	var created bool
	err := s.DB.InTx(ctx, func(tx pgx.Tx) error {
		created = false

		if reference != "" {
			tag, err := tx.Exec(ctx, `
        INSERT INTO payment_events (reference, client_id, plan_code, amount)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (reference) DO NOTHING
      `, reference, clientID, plan.Code, amount)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return nil
			}
		}

		if _, err := tx.Exec(ctx, `
      UPDATE subscriptions SET status = $1 WHERE client_id = $2 AND status = $3
    `, StatusExpired, clientID, StatusActive); err != nil {
			return err
		}

		endsAt := now.AddDate(0, 0, plan.DurationDays)
		if _, err := tx.Exec(ctx, `
      INSERT INTO subscriptions (client_id, plan_code, status, reference, starts_at, ends_at)
      VALUES ($1,$2,$3,NULLIF($4, ''),$5,$6)
    `, clientID, plan.Code, StatusActive, reference, now, endsAt); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			"UPDATE clients SET subscription_tier = $1 WHERE id = $2", plan.Code, clientID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ExpireDue retires subscriptions past their end date and drops the affected
// clients back to the free tier. It returns the client IDs it downgraded.
func (s *Store) ExpireDue(ctx context.Context, now time.Time) ([]string, error) {
	var clientIDs []string
	err := s.DB.InTx(ctx, func(tx pgx.Tx) error {
		clientIDs = nil

		rows, err := tx.Query(ctx, `
      UPDATE subscriptions SET status = $1
      WHERE status = $2 AND ends_at < $3
      RETURNING client_id
    `, StatusExpired, StatusActive, now)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			clientIDs = append(clientIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range clientIDs {
			if _, err := tx.Exec(ctx,
				"UPDATE clients SET subscription_tier = $1 WHERE id = $2", FreePlanCode, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clientIDs, nil
}
