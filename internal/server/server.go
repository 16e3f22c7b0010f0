// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the document store connection (MongoDB or PostgreSQL)
//   - redis client
//   - background job worker server (asynq)
//   - upload storage (local disk + optional MinIO mirror)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/database"
	"github.com/deppfellow/locallibrary/internal/lib/email"
	"github.com/deppfellow/locallibrary/internal/lib/job"
	"github.com/deppfellow/locallibrary/internal/lib/storage"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/locallibrary/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Optional dependencies are nil when not
// configured: DB unless the driver is postgres, Mongo unless it is mongo,
// Redis without an address, Job unless jobs are enabled, Mirror without
// MinIO settings.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	DB    *database.Database
	Mongo *database.Mongo
	Redis *redis.Client

	Uploads *storage.LocalStore
	Mirror  *storage.MinioMirror

	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly. That is done in SetupHTTPServer + Start.
//
// Notes:
//   - Database connection failure blocks startup.
//   - Redis and MinIO failures are logged and the server continues without them.
//   - JobService Start failure blocks startup.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch cfg.Database.Driver {
	case config.DriverMongo:
		mongo, err := database.NewMongo(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.Mongo = mongo

	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := database.Migrate(ctx, logger, cfg); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db

	default:
		logger.Warn().Msg("using in-memory document store, data is lost on restart")
	}

	if cfg.Redis.Address != "" {
		server.Redis = newRedis(cfg, logger, loggerService)
	}

	uploads, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	server.Uploads = uploads

	if cfg.Storage.MirrorEnabled() {
		mirror, err := storage.NewMinioMirror(cfg.Storage)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to connect to MinIO, uploads will not be mirrored")
		} else {
			server.Mirror = mirror
		}
	}

	if cfg.Jobs.Enabled {
		if cfg.Redis.Address == "" {
			return nil, errors.New("jobs enabled but redis.address is empty")
		}

		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(server.notifier(), server.mirror())

		// asynq.Server.Start runs workers in the background and returns.
		if err := jobService.Start(); err != nil {
			return nil, err
		}
		server.Job = jobService
	}

	return server, nil
}

func newRedis(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	// Redis connections are lazy; NewClient does not dial.
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}
	return client
}

// notifier returns nil (not a typed nil) when email is not configured.
func (s *Server) notifier() job.Notifier {
	if s.Config.Integration.ResendAPIKey == "" || s.Config.Integration.NotifyTo == "" {
		return nil
	}
	return email.NewClient(s.Config, s.Logger)
}

func (s *Server) mirror() job.Mirror {
	if s.Mirror == nil {
		return nil
	}
	return s.Mirror
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("driver", s.Config.Database.Driver).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// In-flight requests finish first (until ctx deadline), then the
// job server, database, and redis connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			return fmt.Errorf("failed to close mongo connection: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis connection: %w", err)
		}
	}

	return nil
}
