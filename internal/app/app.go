package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/data/db"
	httpserver "github.com/yungbote/kanoon-backend/internal/http"
	"github.com/yungbote/kanoon-backend/internal/observability"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *httpserver.Server
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
	closeFuncs   []func() error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics()

	dbService, err := db.New(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	a := &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}

	a.Repos = wireRepos(theDB, log)

	clients, closers, err := wireClients(ctx, log, cfg)
	a.closeFuncs = append(a.closeFuncs, closers...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Clients = clients

	serviceset, err := wireServices(theDB, log, cfg, a.Repos, clients, metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = serviceset

	handlerset := wireHandlers(log, serviceset)
	a.Server = httpserver.NewServer(
		httpserver.ServerConfig{Addr: ":" + cfg.Port, WriteTimeout: cfg.ServerTimeout},
		wireRouter(log, cfg, clients, metrics, serviceset, handlerset),
	)
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		return a.Server.Run(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closeFuncs) - 1; i >= 0; i-- {
		if err := a.closeFuncs[i](); err != nil {
			a.Log.Warn("Closing client failed", "error", err)
		}
	}
	a.closeFuncs = nil
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Closing database failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
		cancel()
	}
	a.Log.Sync()
}
