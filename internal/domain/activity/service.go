package activity

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type StoreAPI interface {
	CreateEntry(ctx context.Context, clientID, etype, title, body string) error
	ListEntries(ctx context.Context, clientID string, limit, offset int) ([]Entry, error)
	CountUnread(ctx context.Context, clientID string) (int, error)
	MarkRead(ctx context.Context, clientID, entryID string) error
	MarkAllRead(ctx context.Context, clientID string) error
	ClientEmail(ctx context.Context, clientID string) (string, error)
}

// Service appends activity entries as workflow side effects. Writes are
// best-effort by contract: a failed entry or email is logged and never
// blocks or rolls back the transition that produced it.
type Service struct {
	store        StoreAPI
	Mailer       Mailer
	EmailEnabled bool
	DefaultFrom  string
}

func New(store StoreAPI, mailer Mailer, emailEnabled bool, from string) *Service {
	return &Service{store: store, Mailer: mailer, EmailEnabled: emailEnabled, DefaultFrom: from}
}

func (s *Service) Record(ctx context.Context, clientID, etype, title, body string) {
	if err := s.store.CreateEntry(ctx, clientID, etype, title, body); err != nil {
		slog.Warn("activity entry insert failed", "clientId", clientID, "type", etype, "err", err)
		return
	}

	if s.Mailer == nil || !s.EmailEnabled {
		return
	}
	email, err := s.store.ClientEmail(ctx, clientID)
	if err != nil {
		slog.Warn("activity email lookup failed", "clientId", clientID, "err", err)
		return
	}
	if email == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		slog.Warn("activity email send failed", "clientId", clientID, "err", err)
	}
}

func (s *Service) List(ctx context.Context, clientID string, limit, offset int) ([]Entry, error) {
	return s.store.ListEntries(ctx, clientID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, clientID string) (int, error) {
	return s.store.CountUnread(ctx, clientID)
}

func (s *Service) MarkRead(ctx context.Context, clientID, entryID string) error {
	return s.store.MarkRead(ctx, clientID, entryID)
}

func (s *Service) MarkAllRead(ctx context.Context, clientID string) error {
	return s.store.MarkAllRead(ctx, clientID)
}
