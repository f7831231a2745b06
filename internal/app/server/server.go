package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffhire/internal/domain/activity"
	"staffhire/internal/domain/auth"
	"staffhire/internal/domain/hiring"
	"staffhire/internal/domain/reports"
	"staffhire/internal/domain/staff"
	"staffhire/internal/domain/subscription"
	"staffhire/internal/platform/config"
	cryptoutil "staffhire/internal/platform/crypto"
	"staffhire/internal/platform/db"
	"staffhire/internal/platform/email"
	"staffhire/internal/platform/jobs"
	"staffhire/internal/platform/metrics"
	"staffhire/internal/platform/payment"
	"staffhire/internal/platform/seed"
	activityhandler "staffhire/internal/transport/http/handlers/activity"
	authhandler "staffhire/internal/transport/http/handlers/auth"
	hiringhandler "staffhire/internal/transport/http/handlers/hiring"
	reportshandler "staffhire/internal/transport/http/handlers/reports"
	staffhandler "staffhire/internal/transport/http/handlers/staff"
	subscriptionhandler "staffhire/internal/transport/http/handlers/subscription"
	"staffhire/internal/transport/http/api"
	"staffhire/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// sessionSource resolves the per-request session from stored state. Region,
// tier, and quota always come from the database, never from the request.
type sessionSource struct {
	store *auth.Store
	subs  *subscription.Service
}

func (s sessionSource) Session(ctx context.Context, clientID string) (auth.Session, error) {
	client, err := s.store.ClientByID(ctx, clientID)
	if err != nil {
		return auth.Session{}, err
	}
	pct, err := s.subs.AccessPercent(ctx, client.SubscriptionTier)
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{
		ClientID:      client.ID,
		Region:        client.Location,
		Tier:          client.SubscriptionTier,
		AccessPercent: pct,
	}, nil
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := seed.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	mailer := email.New(cfg)

	// Stores go through the retrying wrapper, never the raw pool.
	database := db.Wrap(pool)

	authStore := auth.NewStore(database, crypto)
	activityService := activity.New(activity.NewStore(database), mailer, cfg.EmailEnabled, cfg.EmailFrom)
	staffService := staff.NewService(staff.NewStore(database), cfg, cfg.CatalogPageSize)
	hiringService := hiring.NewService(hiring.NewStore(database), activityService, cfg.BookingHorizonDays)
	gateway := payment.New(cfg.PaymentBaseURL, cfg.PaymentSecretKey)
	subscriptionService := subscription.NewService(subscription.NewStore(database), gateway, activityService, cfg.PaymentCallbackURL)
	reportsService := reports.NewService(reports.NewStore(database))

	jobsService := jobs.New(database, subscriptionService.ExpireDue)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	sessions := sessionSource{store: authStore, subs: subscriptionService}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret, crypto, mailer, cfg.EmailFrom, cfg.EmailEnabled, cfg.AllowSelfSignup)
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
			r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
			r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)

			activityHandler := activityhandler.NewHandler(activityService)
			activityHandler.RegisterRoutes(r)

			reportsHandler := reportshandler.NewHandler(reportsService, authStore)
			reportsHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Use(middleware.LoadSession(sessions))

			staffHandler := staffhandler.NewHandler(staffService)
			staffHandler.RegisterRoutes(r)

			hiringHandler := hiringhandler.NewHandler(hiringService)
			hiringHandler.RegisterRoutes(r)

			subscriptionHandler := subscriptionhandler.NewHandler(subscriptionService, authStore)
			subscriptionHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			staffHandler := staffhandler.NewHandler(staffService)
			staffHandler.RegisterAdminRoutes(r)

			r.Get("/admin/metrics", func(w http.ResponseWriter, r *http.Request) {
				if collector == nil {
					api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics collection is disabled", middleware.GetRequestID(r.Context()))
					return
				}
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})

			r.Post("/admin/jobs/subscription-sweep", func(w http.ResponseWriter, r *http.Request) {
				result, err := jobsService.RunNow(r.Context(), jobs.JobSubscriptionSweep, func(ctx context.Context) (any, error) {
					expired, err := subscriptionService.ExpireDue(ctx)
					return map[string]int{"expired": expired}, err
				})
				if err != nil {
					api.Fail(w, http.StatusInternalServerError, "job_failed", "subscription sweep failed", middleware.GetRequestID(r.Context()))
					return
				}
				api.Success(w, result, middleware.GetRequestID(r.Context()))
			})
		})
	})

	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobsService}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	ctx := context.Background()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	defer app.Close()

	app.Jobs.Start(ctx, cfg.SubscriptionSweep)

	log.Printf("staffhire server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
