package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"staffhire/internal/platform/db"
)

var ErrNotFound = errors.New("staff member not found")

type Store struct {
	DB *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{DB: database}
}

const memberColumns = `id, full_name, role, location, gender, age, experience_years, salary,
  contract_type, accommodation, skills, verified, status, created_at`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.FullName, &m.Role, &m.Location, &m.Gender, &m.Age, &m.ExperienceYears,
		&m.Salary, &m.ContractType, &m.Accommodation, &m.Skills, &m.Verified, &m.Status, &m.CreatedAt)
	return m, err
}

// catalogWhere builds the WHERE clause for the active catalog: the filter
// constraints plus exclusion of staff the client already has a scheduled
// interview with. The same clause backs both the count and the page query so
// quota math and page contents never disagree.
func catalogWhere(f Filter, clientID string) (string, []any) {
	clauses := []string{"status = 'active'"}
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Query != "" {
		args = append(args, f.Query)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(full_name ILIKE '%%' || $%d || '%%' OR role ILIKE '%%' || $%d || '%%')", n, n))
	}
	if f.Role != "" {
		add("role = $%d", f.Role)
	}
	if f.Location != "" {
		add("LOWER(location) = LOWER($%d)", f.Location)
	}
	if f.Gender != "" {
		add("gender = $%d", f.Gender)
	}
	if f.ContractType != "" {
		add("contract_type = $%d", f.ContractType)
	}
	if f.Skill != "" {
		add("$%d = ANY(skills)", f.Skill)
	}
	if f.MinAge > 0 {
		add("age >= $%d", f.MinAge)
	}
	if f.MaxAge > 0 {
		add("age <= $%d", f.MaxAge)
	}
	if f.MinExperience > 0 {
		add("experience_years >= $%d", f.MinExperience)
	}
	if f.MaxExperience > 0 {
		add("experience_years <= $%d", f.MaxExperience)
	}
	if f.MinSalary > 0 {
		add("salary >= $%d", f.MinSalary)
	}
	if f.MaxSalary > 0 {
		add("salary <= $%d", f.MaxSalary)
	}
	if f.Accommodation != nil {
		add("accommodation = $%d", *f.Accommodation)
	}
	if clientID != "" {
		add(`NOT EXISTS (
      SELECT 1 FROM interviews i
      WHERE i.staff_id = staff_members.id AND i.client_id = $%d AND i.status = 'scheduled'
    )`, clientID)
	}

	return strings.Join(clauses, " AND "), args
}

func (s *Store) CountCatalog(ctx context.Context, f Filter, clientID string) (int, error) {
	where, args := catalogWhere(f, clientID)
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM staff_members WHERE "+where, args...).Scan(&total)
	return total, err
}

func (s *Store) ListCatalog(ctx context.Context, f Filter, clientID string, limit, offset int) ([]Member, error) {
	where, args := catalogWhere(f, clientID)
	query := fmt.Sprintf(`
    SELECT %s FROM staff_members
    WHERE %s
    ORDER BY created_at DESC, id
    LIMIT $%d OFFSET $%d
  `, memberColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) MemberByID(ctx context.Context, id string) (Member, error) {
	m, err := scanMember(s.DB.QueryRow(ctx,
		"SELECT "+memberColumns+" FROM staff_members WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

// Admin catalog management.

func (s *Store) Create(ctx context.Context, m Member) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO staff_members (full_name, role, location, gender, age, experience_years, salary,
      contract_type, accommodation, skills, verified, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, m.FullName, m.Role, m.Location, m.Gender, m.Age, m.ExperienceYears, m.Salary,
		m.ContractType, m.Accommodation, m.Skills, m.Verified, m.Status).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, m Member) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE staff_members
    SET full_name = $1, role = $2, location = $3, gender = $4, age = $5, experience_years = $6,
        salary = $7, contract_type = $8, accommodation = $9, skills = $10, verified = $11
    WHERE id = $12
  `, m.FullName, m.Role, m.Location, m.Gender, m.Age, m.ExperienceYears, m.Salary,
		m.ContractType, m.Accommodation, m.Skills, m.Verified, m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE staff_members SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Member, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM staff_members").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT %s FROM staff_members
    ORDER BY created_at DESC, id
    LIMIT $1 OFFSET $2
  `, memberColumns), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}
