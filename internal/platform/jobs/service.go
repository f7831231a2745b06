package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"staffhire/internal/platform/db"
)

const JobSubscriptionSweep = "subscription_sweep"

// SweepFunc retires due subscriptions and reports how many clients it
// downgraded.
type SweepFunc func(ctx context.Context) (int, error)

type Service struct {
	DB    *db.DB
	Sweep SweepFunc
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(database *db.DB, sweep SweepFunc) *Service {
	return &Service{
		DB:    database,
		Sweep: sweep,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context, sweepInterval time.Duration) {
	go s.worker(ctx)
	if sweepInterval > 0 && s.Sweep != nil {
		go s.scheduleSweep(ctx, sweepInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSubscriptionSweep, func(ctx context.Context) (any, error) {
				expired, err := s.Sweep(ctx)
				return map[string]int{"expired": expired}, err
			})
		}
	}
}
