package staff

import (
	"context"
	"errors"
	"strings"

	"staffhire/internal/domain/auth"
)

var (
	ErrRegionNotServiceable = errors.New("service is not yet available in this region")
	ErrInvalidMember        = errors.New("invalid staff member details")
)

// StoreAPI is the catalog surface the discovery service depends on.
type StoreAPI interface {
	CountCatalog(ctx context.Context, f Filter, clientID string) (int, error)
	ListCatalog(ctx context.Context, f Filter, clientID string, limit, offset int) ([]Member, error)
	MemberByID(ctx context.Context, id string) (Member, error)
	Create(ctx context.Context, m Member) (string, error)
	Update(ctx context.Context, m Member) error
	SetStatus(ctx context.Context, id, status string) error
	ListAll(ctx context.Context, limit, offset int) ([]Member, int, error)
}

// RegionGate reports whether a client's region is serviceable.
type RegionGate interface {
	RegionServiceable(region string) bool
}

type Service struct {
	Store    StoreAPI
	Regions  RegionGate
	PageSize int
}

func NewService(store StoreAPI, regions RegionGate, pageSize int) *Service {
	return &Service{Store: store, Regions: regions, PageSize: pageSize}
}

// Browse returns one catalog page for the client, gated by region and by the
// tier quota. The quota is a hard cap on how deep the client may page: with
// access_percent of the matching catalog accessible, any page starting at or
// past that boundary is empty, and the final partial page is truncated to it.
// Pages are zero-indexed.
func (s *Service) Browse(ctx context.Context, sess auth.Session, f Filter, page int) (Page, error) {
	if !s.Regions.RegionServiceable(sess.Region) {
		return Page{}, ErrRegionNotServiceable
	}
	if page < 0 {
		page = 0
	}

	total, err := s.Store.CountCatalog(ctx, f, sess.ClientID)
	if err != nil {
		return Page{}, err
	}

	accessible := total * sess.AccessPercent / 100
	out := Page{Page: page, PageSize: s.PageSize, Total: total, Accessible: accessible}

	from := page * s.PageSize
	if from >= accessible {
		return out, nil
	}

	limit := s.PageSize
	if from+limit > accessible {
		limit = accessible - from
	}
	items, err := s.Store.ListCatalog(ctx, f, sess.ClientID, limit, from)
	if err != nil {
		return Page{}, err
	}
	out.Items = items
	out.HasMore = from+len(items) < accessible
	return out, nil
}

// Profile returns a single member, subject to the same region gate as the
// catalog. Quota depth does not apply to a direct lookup.
func (s *Service) Profile(ctx context.Context, sess auth.Session, staffID string) (Member, error) {
	if !s.Regions.RegionServiceable(sess.Region) {
		return Member{}, ErrRegionNotServiceable
	}
	return s.Store.MemberByID(ctx, staffID)
}

// Admin operations below bypass the region gate; access control is the
// transport layer's job.

func (s *Service) Create(ctx context.Context, m Member) (Member, error) {
	if err := validateMember(m); err != nil {
		return Member{}, err
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	id, err := s.Store.Create(ctx, m)
	if err != nil {
		return Member{}, err
	}
	m.ID = id
	return m, nil
}

func (s *Service) Update(ctx context.Context, m Member) error {
	if err := validateMember(m); err != nil {
		return err
	}
	return s.Store.Update(ctx, m)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended, StatusBlacklist:
		return s.Store.SetStatus(ctx, id, status)
	}
	return ErrInvalidMember
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Member, int, error) {
	return s.Store.ListAll(ctx, limit, offset)
}

func validateMember(m Member) error {
	if strings.TrimSpace(m.FullName) == "" || strings.TrimSpace(m.Role) == "" {
		return ErrInvalidMember
	}
	if m.Age < 18 || m.ExperienceYears < 0 || m.Salary < 0 {
		return ErrInvalidMember
	}
	return nil
}
