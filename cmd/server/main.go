package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audiometry/internal/api"
	"github.com/RMahshie/audiometry/internal/api/handlers"
	"github.com/RMahshie/audiometry/internal/assessment"
	"github.com/RMahshie/audiometry/internal/autosave"
	"github.com/RMahshie/audiometry/internal/config"
	"github.com/RMahshie/audiometry/internal/i18n"
	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/internal/repository/jsonfile"
	"github.com/RMahshie/audiometry/internal/repository/postgres"
	"github.com/RMahshie/audiometry/internal/repository/sqlite"
	"github.com/RMahshie/audiometry/internal/storage"
	"github.com/RMahshie/audiometry/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.Server.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !i18n.Supported(cfg.Report.Language) {
		log.Warn().Str("language", cfg.Report.Language).Msg("No catalogue for configured language, reports fall back to English")
	}

	repo, err := openRepository(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage_mode", cfg.Storage.Mode).Msg("Failed to open patient store")
	}

	var s3Service storage.S3Service
	if cfg.ArchiveEnabled() {
		s3Service, err = storage.NewS3Service(storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 service")
		}
		log.Info().Str("bucket", cfg.AWS.S3Bucket).Msg("Report archive enabled")
	}

	saver := autosave.New(repo, cfg.Autosave.Delay)
	patientHandler := handlers.NewPatientHandler(repo, saver, assessment.NewService(repo), s3Service, cfg.Report.Language)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Audiometry API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Storage = cfg.Storage.Mode
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, patientHandler)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("storage_mode", cfg.Storage.Mode).Msg("Starting Audiometry API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// pending drafts are written before the store closes, on their own deadline
	saveCtx, cancelSave := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSave()
	if err := saver.Close(saveCtx); err != nil {
		log.Error().Err(err).Msg("Failed to save pending changes")
	}
	if err := repo.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close patient store")
	}

	log.Info().Msg("Server exited")
}

// openRepository opens the patient store selected by STORAGE_MODE
func openRepository(ctx context.Context, cfg *config.Config) (repository.PatientRepository, error) {
	switch cfg.Storage.Mode {
	case config.StorageSQLite:
		repo, err := sqlite.NewSQLitePatientRepository(cfg.Storage.SQLitePath, cfg.Server.LogLevel == "debug")
		if err != nil {
			return nil, err
		}
		return repo, nil

	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("Connected to PostgreSQL patient store")
		return postgres.NewPostgresPatientRepository(db), nil

	default:
		repo, err := jsonfile.NewJSONPatientRepository(jsonfile.Options{
			Path:     cfg.Storage.JSONStorePath,
			SeedPath: cfg.Storage.SeedFile,
		})
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
