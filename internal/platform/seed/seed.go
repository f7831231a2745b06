package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffhire/internal/domain/auth"
	"staffhire/internal/platform/config"
)

type seedPlan struct {
	Code          string
	Name          string
	Price         float64
	DurationDays  int
	AccessPercent int
}

var defaultPlans = []seedPlan{
	{Code: "free", Name: "Free", Price: 0, DurationDays: 30, AccessPercent: 20},
	{Code: "standard", Name: "Standard", Price: 15000, DurationDays: 30, AccessPercent: 40},
	{Code: "premium", Name: "Premium", Price: 35000, DurationDays: 30, AccessPercent: 100},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePlans(ctx, pool); err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdmin(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	if cfg.SeedDemoStaff {
		if err := ensureDemoStaff(ctx, pool); err != nil {
			return err
		}
	}
	return nil
}

func ensurePlans(ctx context.Context, pool *pgxpool.Pool) error {
	for _, plan := range defaultPlans {
		if _, err := pool.Exec(ctx, `
      INSERT INTO plans (code, name, price, duration_days, access_percent)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (code) DO UPDATE
        SET name = EXCLUDED.name,
            price = EXCLUDED.price,
            duration_days = EXCLUDED.duration_days,
            access_percent = EXCLUDED.access_percent
    `, plan.Code, plan.Name, plan.Price, plan.DurationDays, plan.AccessPercent); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO clients (email, password_hash, full_name, location, role, subscription_tier, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, email, hash, "Administrator", "lagos", auth.RoleAdmin, "free", auth.ClientStatusActive)
	return err
}

func ensureDemoStaff(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM staff_members").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []struct {
		Name       string
		Role       string
		Location   string
		Gender     string
		Age        int
		Experience int
		Salary     float64
		Contract   string
		LiveIn     bool
		Skills     []string
	}{
		{"Amina Yusuf", "housekeeper", "lagos", "female", 29, 6, 45000, "full_time", true, []string{"cleaning", "laundry", "cooking"}},
		{"Chinedu Okeke", "driver", "lagos", "male", 35, 10, 70000, "full_time", false, []string{"defensive driving", "logistics"}},
		{"Blessing Adebayo", "nanny", "abuja", "female", 26, 4, 50000, "live_in", true, []string{"childcare", "first aid"}},
		{"Ibrahim Musa", "security guard", "abuja", "male", 41, 15, 60000, "full_time", false, []string{"surveillance", "access control"}},
		{"Ngozi Eze", "cook", "port harcourt", "female", 33, 8, 55000, "part_time", false, []string{"local cuisine", "meal planning"}},
	}
	for _, s := range demo {
		if _, err := pool.Exec(ctx, `
      INSERT INTO staff_members (full_name, role, location, gender, age, experience_years, salary, contract_type, accommodation, skills, verified, status)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,true,'active')
    `, s.Name, s.Role, s.Location, s.Gender, s.Age, s.Experience, s.Salary, s.Contract, s.LiveIn, s.Skills); err != nil {
			return err
		}
	}
	return nil
}
