package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/onboarding"
	"hrms/internal/domain/performance"
	"hrms/internal/domain/recruitment"
	"hrms/internal/domain/staffing"
	"hrms/internal/platform/ai"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	aihandler "hrms/internal/transport/http/handlers/ai"
	allocationshandler "hrms/internal/transport/http/handlers/allocations"
	analysishandler "hrms/internal/transport/http/handlers/analysis"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeeshandler "hrms/internal/transport/http/handlers/employees"
	onboardinghandler "hrms/internal/transport/http/handlers/onboarding"
	performancehandler "hrms/internal/transport/http/handlers/performance"
	projectshandler "hrms/internal/transport/http/handlers/projects"
	recruitmenthandler "hrms/internal/transport/http/handlers/recruitment"
	"hrms/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// New builds a fully wired application but does not start listening.
// Tests construct an App around a prepared database and drive the
// router directly.
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
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	coreStore := core.NewStore(pool)
	staffingStore := staffing.NewStore(pool)
	performanceStore := performance.NewStore(pool)
	onboardingStore := onboarding.NewStore(pool)
	recruitmentStore := recruitment.NewStore(pool)
	auditSvc := audit.New(pool)
	aiClient := ai.New(cfg.AIServiceURL, cfg.AIServiceTimeout)
	mailer := email.New(cfg)
	jobSvc := jobs.New(pool, cfg, auditSvc)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recover)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		database := "connected"
		if err := pool.Ping(ctx); err != nil {
			database = "disconnected"
		}
		api.Success(w, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"database":  database,
		}, middleware.GetRequestID(r.Context()))
	})

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

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.AuditTrail(auditSvc))

		authHandler := authhandler.NewHandler(coreStore, cfg.JWTSecret)
		r.With(middleware.LoginRateLimit(max(cfg.RateLimitPerMinute/4, 1), time.Minute)).
			Post("/auth/login", authHandler.HandleLogin)
		r.With(middleware.RequireAuth).Get("/auth/me", authHandler.HandleMe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			employeeshandler.NewHandler(coreStore).RegisterRoutes(r)
			projectshandler.NewHandler(staffingStore).RegisterRoutes(r)
			allocationshandler.NewHandler(staffingStore).RegisterRoutes(r)
			performancehandler.NewHandler(performanceStore).RegisterRoutes(r)
			onboardinghandler.NewHandler(onboardingStore).RegisterRoutes(r)
			aihandler.NewHandler(aiClient, auditSvc, collector, coreStore, staffingStore, performanceStore).RegisterRoutes(r)
			analysishandler.NewHandler(coreStore, performanceStore, onboardingStore).RegisterRoutes(r)
			recruitmenthandler.NewHandler(recruitmentStore, coreStore, aiClient, auditSvc, mailer, cfg).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc).RegisterRoutes(r)

			if collector != nil {
				r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
					api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
				})
			}
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Jobs:    jobSvc,
		Metrics: collector,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	ctx := context.Background()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	log.Printf("HRMS server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
