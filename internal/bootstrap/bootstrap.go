package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/pages"
	appRoutes "github.com/yigit/schoolportal/internal/app/routes"
	appServices "github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/config"
	"github.com/yigit/schoolportal/internal/db"
	appMiddleware "github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/helpers"
	"github.com/yigit/schoolportal/internal/pkg/logger"
	"github.com/yigit/schoolportal/internal/querycache"
	"github.com/yigit/schoolportal/internal/session"
)

// sweepInterval is how often expired cache entries and sessions are purged
const sweepInterval = time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	Client           *apiclient.Client
	Store            session.Store
	Sessions         *session.Manager
	Cache            *querycache.Cache
	Renderer         *pages.Renderer
	DashboardService *appServices.DashboardService
	ImportService    *appServices.ImportService
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger reads .env when present, loads the configuration
// and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Strs("envOverrides", cfg.EnvOverrides).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupSessionStore opens the configured session store
func SetupSessionStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis session store...")
		store, err := session.NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis")
			return nil, err
		}
		return store, nil

	case config.SessionStorePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, db.PoolOptions{
			DSN:         cfg.GetPostgresConnectionString(),
			MaxConns:    cfg.Database.MaxOpenConns,
			MinConns:    cfg.Database.MaxIdleConns,
			MaxLifetime: helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour),
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		store, err := session.NewPostgresStore(ctx, database)
		if err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, err
		}
		lgr.Info().Msg("Postgres session store ready.")
		return store, nil

	default:
		lgr.Info().Msg("Using in-memory session store")
		return session.NewMemoryStore(), nil
	}
}

// BuildDependencies wires the API client, sessions, cache and screens.
func BuildDependencies(cfg *config.Config, store session.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.Client = apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: helpers.ParseDuration(cfg.API.Timeout, 15*time.Second),
	}, lgr)

	deps.Cache = querycache.New(helpers.ParseDuration(cfg.Cache.TTL, 30*time.Second))

	deps.Sessions = session.NewManager(store, deps.Client, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        helpers.ParseDuration(cfg.Session.TTL, 7*24*time.Hour),
		Secure:     cfg.Session.Secure,
	}, lgr)
	deps.Sessions.OnClear(deps.Cache.Drop)

	deps.Renderer = pages.NewRenderer(deps.Sessions, deps.Cache, lgr)
	deps.DashboardService = appServices.NewDashboardService(lgr)
	deps.ImportService = appServices.NewImportService(lgr)
	return deps
}

// RunJanitor purges expired cache entries and, for the postgres store,
// expired session rows until ctx is done.
func RunJanitor(ctx context.Context, deps *Dependencies) {
	go deps.Cache.Run(ctx, sweepInterval)

	pg, ok := deps.Store.(*session.PostgresStore)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := pg.DeleteExpired(ctx)
				if err != nil {
					deps.Logger.Warn().Err(err).Msg("Failed to purge expired sessions")
					continue
				}
				if n > 0 {
					deps.Logger.Debug().Int64("count", n).Msg("Purged expired sessions")
				}
			}
		}
	}()
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case strings.EqualFold(cfg.Server.Mode, "test"):
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Logger(lgr),
		appMiddleware.Recovery(lgr),
	)

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	setupStaticFileServing(router, cfg, lgr)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pageRoutes := router.Group("")
	pageRoutes.Use(deps.Sessions.Middleware())

	screens := pages.Screens(deps.Renderer, deps.DashboardService, deps.ImportService)
	if err := appRoutes.SetupRouter(pageRoutes, screens, deps.Renderer.Public()); err != nil {
		return nil, err
	}

	router.NoRoute(deps.Sessions.Middleware(), appMiddleware.NotFound())
	return router, nil
}

// setupStaticFileServing serves the stylesheet from the configured
// directory when it exists, else from the embedded copy
func setupStaticFileServing(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	if dir := cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			router.Static("/static", dir)
			lgr.Info().Str("path", dir).Msg("Serving static files from disk")
			return
		}
	}
	router.StaticFS("/static", views.Static())
}
