package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/engine"
	"fit-backend/internal/engine/remote"
	"fit-backend/internal/fit"
	"fit-backend/internal/fitresults"
	"fit-backend/internal/resumes"
	"fit-backend/internal/services/health"
	"fit-backend/internal/shared/auth"
	"fit-backend/internal/shared/config"
	"fit-backend/internal/shared/server"
	"fit-backend/internal/shared/server/middleware"
	"fit-backend/internal/shared/storage/db"
	"fit-backend/internal/shared/storage/object"
	localstore "fit-backend/internal/shared/storage/object/local"
	s3store "fit-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	Engine         engine.Client
	Issuer         *auth.Issuer
	ResumesRepo    resumes.Repo
	FitResultsRepo fitresults.Repo
	ResumesService *resumes.Service
	FitService     *fitresults.Service
}

// Option overrides a dependency before services are built.
type Option func(*App)

// WithEngine replaces the engine client built from config.
func WithEngine(client engine.Client) Option {
	return func(a *App) { a.Engine = client }
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = object.ProviderLocal
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}
	engineClient, err := buildEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Engine: engineClient,
		Issuer: issuer,
	}
	for _, opt := range opts {
		opt(app)
	}
	buildServices(app)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		Health:        health.NewService(pinger, app.Engine != nil),
		Issuer:        app.Issuer,
		Limiter:       middleware.NewRateLimiter(nil),
		FitHandler:    fitresults.NewHandler(app.FitService),
		ResumeHandler: resumes.NewHandler(app.ResumesService),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.RuntimeOptions())
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.RuntimeOptions())
	}
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case object.ProviderS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildEngine returns nil when no base URL is configured; demo runs and reads
// keep working without an engine.
func buildEngine(cfg config.EngineConfig) (engine.Client, error) {
	client, err := remote.NewClient(cfg.BaseURL, cfg.APIKey)
	if errors.Is(err, engine.ErrNotConfigured) {
		log.Printf("bootstrap: ENGINE_BASE_URL empty; analyze accepts demo runs only")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = engine.DefaultRetryAttempts
	}
	return engine.WithRetry(client, engine.RetryPolicy{
		Attempts:  attempts,
		BaseDelay: cfg.RetryBaseDelay,
	}), nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.FitResultsRepo = &fitresults.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.FitResultsRepo = fitresults.NewMemoryRepo()
	}

	app.ResumesService = resumes.NewService(app.Store, app.ResumesRepo, app.Config.MaxResumeUploadBytes)
	app.FitService = fitresults.NewService(app.FitResultsRepo, app.ResumesService, app.Engine, fitresults.Options{
		Mode:       engine.ParseMode(app.Config.Engine.Mode),
		Timeouts:   timeouts(app.Config.Engine),
		Normalizer: fit.Normalizer{Dedup: fit.ParseDedupPolicy(app.Config.DimensionDedup)},
	})
}

func timeouts(cfg config.EngineConfig) engine.Timeouts {
	t := engine.DefaultTimeouts()
	if cfg.TimeoutResume > 0 {
		t.Resume = cfg.TimeoutResume
	}
	if cfg.TimeoutJD > 0 {
		t.JD = cfg.TimeoutJD
	}
	if cfg.TimeoutFit > 0 {
		t.Fit = cfg.TimeoutFit
	}
	if cfg.TimeoutOneClick > 0 {
		t.Combined = cfg.TimeoutOneClick
	}
	return t
}
