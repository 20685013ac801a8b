package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"workvouch/internal/overlap"
	"workvouch/internal/services/health"
	"workvouch/internal/shared/auth"
	"workvouch/internal/shared/cache"
	"workvouch/internal/shared/config"
	"workvouch/internal/shared/server"
	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/shared/storage/db"
	"workvouch/internal/shared/telemetry"
	"workvouch/internal/shared/validation"
	"workvouch/internal/simulation"
	"workvouch/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Cache             *cache.Cache
	UsageService      *usage.Service
	SimulationService *simulation.Service
	OverlapService    *overlap.Service
}

// Build connects storage, wires services and handlers, and builds the router.
// In dev-like environments a missing or unreachable database or cache falls
// back to in-memory repositories and no cache.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := validation.RegisterValidators(cfg.StrictPlanTiers); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisCache, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Env == "production")
	if err != nil {
		return nil, fmt.Errorf("jwt verifier: %w", err)
	}

	app := &App{Config: cfg, DB: sqlDB, Cache: redisCache}

	var (
		simRepo     simulation.Repo
		overlapRepo overlap.Repo
	)
	if sqlDB != nil {
		app.UsageService = usage.NewPostgresService(usage.NewPGStore(sqlDB))
		simRepo = &simulation.PGRepo{DB: sqlDB}
		overlapRepo = &overlap.PGRepo{DB: sqlDB}
	} else {
		app.UsageService = usage.NewService()
		simRepo = simulation.NewMemoryRepo()
		overlapRepo = overlap.NewMemoryRepo()
	}
	app.UsageService.WithCache(redisCache)
	app.SimulationService = simulation.NewService(simRepo, app.UsageService)
	app.OverlapService = overlap.NewService(overlapRepo)

	checks := map[string]health.Pinger{}
	if sqlDB != nil {
		checks["database"] = health.PingFunc(sqlDB.PingContext)
	}
	if redisCache != nil {
		checks["cache"] = redisCache
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Verifier:          verifier,
		Health:            health.NewService(checks),
		UsageHandler:      usage.NewHandler(app.UsageService),
		SimulationHandler: simulation.NewHandler(app.SimulationService),
		OverlapHandler:    overlap.NewHandler(app.OverlapService, cfg.MaxResumeBytes),
		RateLimiter:       middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases storage connections.
func (a *App) Close() error {
	var firstErr error
	if err := a.Cache.Close(); err != nil {
		firstErr = err
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildCache(ctx context.Context, cfg config.Config) (*cache.Cache, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, nil
	}
	c := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.cache_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
