package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wesribeiro/painel-ti/internal/config"
	"github.com/wesribeiro/painel-ti/internal/modules/audit"
	"github.com/wesribeiro/painel-ti/internal/modules/auth"
	"github.com/wesribeiro/painel-ti/internal/modules/checklist"
	"github.com/wesribeiro/painel-ti/internal/modules/status"
	"github.com/wesribeiro/painel-ti/internal/modules/store"
	"github.com/wesribeiro/painel-ti/internal/modules/tracker"
	"github.com/wesribeiro/painel-ti/internal/modules/user"
	"github.com/wesribeiro/painel-ti/internal/platform/database"
	"github.com/wesribeiro/painel-ti/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		zlog.Fatal("database seed failed", zap.Error(err))
	}
	zlog.Info("database ready", zap.String("path", cfg.DatabasePath))

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	ctx := context.Background()

	// ── Reference data & sentinels ──────────────────────────
	statusRepo := status.NewSQLiteRepository(db)
	statusService := status.NewService(statusRepo)
	status.NewHandler(statusService).RegisterRoutes(router)

	// Both reserved statuses must exist before any core operation runs.
	sentinels, err := statusService.ResolveSentinels(ctx)
	if err != nil {
		zlog.Fatal("sentinel statuses missing", zap.Error(err))
	}

	storeRepo := store.NewStoreSQLiteRepository(db)
	pdvRepo := store.NewPDVSQLiteRepository(db)
	itemRepo := store.NewItemSQLiteRepository(db)
	storeService := store.NewService(storeRepo, pdvRepo, itemRepo)
	store.NewHandler(storeService).RegisterRoutes(router)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewSQLiteRepository(db)
	authService := auth.NewService(userRepo, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)
	authMW := auth.Middleware(authService)

	// ── Status tracking core ────────────────────────────────
	trackerRepo := tracker.NewSQLiteRepository(db)
	trackerService := tracker.NewService(trackerRepo, pdvRepo, sentinels, zlog)
	tracker.NewHandler(trackerService, authMW).RegisterRoutes(router)

	// ── Daily checklists ────────────────────────────────────
	checklistRepo := checklist.NewSQLiteRepository(db)
	checklistService := checklist.NewService(checklistRepo, sentinels, zlog)
	checklist.NewHandler(checklistService, authMW).RegisterRoutes(router)

	// ── Audit logs ──────────────────────────────────────────
	auditRepo := audit.NewSQLiteRepository(db)
	auditService := audit.NewService(auditRepo)
	audit.NewHandler(auditService, authMW).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	zlog.Info("painel-ti API server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
