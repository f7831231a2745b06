package activity

import (
	"context"
	"time"

	"staffhire/internal/platform/db"
)

type Entry struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Store struct {
	DB *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{DB: database}
}

func (s *Store) CreateEntry(ctx context.Context, clientID, etype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO activity_log (client_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, clientID, etype, title, body)
	return err
}

func (s *Store) ListEntries(ctx context.Context, clientID string, limit, offset int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, title, body, read_at, created_at
    FROM activity_log
    WHERE client_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.Title, &entry.Body, &entry.ReadAt, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Store) CountUnread(ctx context.Context, clientID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM activity_log WHERE client_id = $1 AND read_at IS NULL", clientID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, clientID, entryID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE activity_log SET read_at = now()
    WHERE client_id = $1 AND id = $2
  `, clientID, entryID)
	return err
}

func (s *Store) MarkAllRead(ctx context.Context, clientID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE activity_log SET read_at = now() WHERE client_id = $1 AND read_at IS NULL", clientID)
	return err
}

func (s *Store) ClientEmail(ctx context.Context, clientID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM clients WHERE id = $1", clientID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}
