package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"artefact-registry/internal/adapters/primary/http/handlers"
	"artefact-registry/internal/adapters/primary/http/middleware"
	"artefact-registry/internal/adapters/secondary/filestore"
	"artefact-registry/internal/adapters/secondary/postgres"
	"artefact-registry/internal/config"
	"artefact-registry/internal/core/ports/output"
	"artefact-registry/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	// Create database pool
	pool, err := postgres.NewPool(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate db: %v", err)
		}
		log.Info("database schema up to date")
	}

	files, err := newFileStore(cfg.Storage)
	if err != nil {
		log.Fatalf("init file store: %v", err)
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	artifactRepo := postgres.NewArtifactRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Core Services (Application Layer)
	artifactSvc := services.NewArtifactService(artifactRepo, files, cfg.Storage.MaxUploadBytes)
	catalogSvc := services.NewCatalogService(catalogRepo)
	exportSvc := services.NewExportService(catalogSvc)
	authSvc := services.NewAuthService(userRepo, cfg.Auth)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(artifactSvc, catalogSvc, exportSvc, authSvc)

	// Setup router
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), middleware.Gzip())

	api := router.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterRoutes(api.Group("", middleware.JWTAuth(authSvc)))

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newFileStore(cfg config.StorageConfig) (ports.FileStore, error) {
	switch cfg.Backend {
	case config.StorageBackendMinIO:
		store, err := filestore.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		log.WithField("bucket", cfg.MinIO.Bucket).Info("using MinIO file store")
		return store, nil
	default:
		store, err := filestore.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		log.WithField("dir", cfg.UploadDir).Info("using local file store")
		return store, nil
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
