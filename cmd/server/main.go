package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mdstash/internal/auth"
	"mdstash/internal/config"
	"mdstash/internal/handler"
	"mdstash/internal/metadata"
	"mdstash/internal/middleware"
	"mdstash/internal/service"
	"mdstash/internal/storage/blob"
	"mdstash/internal/storage/kv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"kv_driver", cfg.KVDriver,
		"blob_driver", cfg.BlobDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metadata store
	var kvStore kv.Store
	switch cfg.KVDriver {
	case "sqlite":
		sqlite, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer sqlite.Close()
		kvStore = sqlite
	case "postgres":
		pg, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open postgres store: %v", err)
		}
		defer pg.Close()
		kvStore = pg
	default:
		log.Fatalf("Unknown KV_DRIVER %q (want sqlite or postgres)", cfg.KVDriver)
	}

	// Blob store
	var blobStore blob.Store
	switch cfg.BlobDriver {
	case "fs":
		fs, err := blob.NewFS(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open blob directory: %v", err)
		}
		blobStore = fs
	case "s3":
		s3Store, err := blob.NewS3(ctx, blob.S3Options{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3Endpoint,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		blobStore = s3Store
	default:
		log.Fatalf("Unknown BLOB_DRIVER %q (want fs or s3)", cfg.BlobDriver)
	}

	// Services
	meta := metadata.NewStore(kvStore, logger)
	historyService := service.NewHistoryService(meta, logger)
	fileService := service.NewFileService(meta, blobStore, historyService, logger)
	folderService := service.NewFolderService(meta, blobStore, logger)
	retention := service.NewRetentionEngine(meta, blobStore, service.RetentionConfig{
		ArchiveAge: time.Duration(cfg.ArchiveDays) * 24 * time.Hour,
		DeleteAge:  time.Duration(cfg.DeleteDays) * 24 * time.Hour,
	}, logger)
	authService := auth.NewService(cfg.Password, cfg.SessionSecret, cfg.SessionTTL)

	// Handlers
	secureCookie := cfg.Environment != "dev"
	authHandler := handler.NewAuthHandler(authService, secureCookie, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)
	retentionHandler := handler.NewRetentionHandler(retention, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", fileHandler.HealthCheck)
	mux.HandleFunc("POST /api/login", authHandler.Login)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("POST /api/pastes", fileHandler.Paste)
	mux.HandleFunc("GET /api/files", fileHandler.List)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.View)
	mux.HandleFunc("GET /api/files/{id}/raw", fileHandler.Raw)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.Rename)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders", folderHandler.List)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.Rename)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)
	mux.HandleFunc("POST /api/folders/{id}/files", folderHandler.AddFile)
	mux.HandleFunc("DELETE /api/folders/{id}/files/{fileId}", folderHandler.RemoveFile)
	mux.HandleFunc("POST /api/folders/{id}/files/{fileId}/move", folderHandler.MoveFile)

	// History routes
	mux.HandleFunc("GET /api/history", historyHandler.List)
	mux.HandleFunc("DELETE /api/history/{id}", historyHandler.Remove)
	mux.HandleFunc("DELETE /api/history", historyHandler.Clear)

	// Manual retention trigger
	mux.HandleFunc("POST /api/retention/sweep", retentionHandler.Sweep)

	// Build middleware chain (applied in reverse order - they wrap each other)
	var root http.Handler = mux
	root = middleware.Session(authService)(root)
	root = middleware.Logger(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Background retention sweeps
	retention.Start(ctx, cfg.SweepInterval)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
