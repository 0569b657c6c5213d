package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hierarchy-api/internal/auth"
	"hierarchy-api/internal/cache"
	"hierarchy-api/internal/config"
	"hierarchy-api/internal/database"
	"hierarchy-api/internal/handler"
	"hierarchy-api/internal/middleware"
	"hierarchy-api/internal/model"
	"hierarchy-api/internal/repository"
	"hierarchy-api/internal/router"
	"hierarchy-api/internal/schema"
	"hierarchy-api/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	catalog, err := schema.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	registry, err := schema.NewRegistry(context.Background(), schema.NewPgColumnSource(db.Pool), catalog)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build field registry: %w", err)
	}
	slog.Info("field registry ready", "types", len(registry.TypeNames()))

	recordRepo := repository.NewRecordRepository(db.Pool)
	templateRepo := repository.NewTemplateRepository(db.Pool)

	resultCache, err := cache.New[model.HierarchyResult](cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize result cache: %w", err)
	}
	templateCache, err := cache.New[model.Record](cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize template cache: %w", err)
	}

	hierarchyService := service.NewHierarchyService(registry, recordRepo, resultCache, cfg.BaseURL)
	templateService := service.NewTemplateService(registry, templateRepo, templateCache)

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Hierarchy: handler.NewHierarchyHandler(hierarchyService),
		Template:  handler.NewTemplateHandler(templateService),
		Schema:    handler.NewSchemaHandler(registry),
		Cache:     handler.NewCacheHandler(hierarchyService, templateService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
