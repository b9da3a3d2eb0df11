// API server entry point for ADSForge.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adsforge/adsforge/internal/application/accounts"
	"github.com/adsforge/adsforge/internal/application/adsgen"
	"github.com/adsforge/adsforge/internal/application/applications"
	"github.com/adsforge/adsforge/internal/application/documents"
	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/auth/jwt"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres/repositories"
	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/messaging/kafka"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
	httpserver "github.com/adsforge/adsforge/internal/interfaces/http"
	"github.com/adsforge/adsforge/internal/interfaces/http/handlers"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrate := flag.Bool("migrate", true, "run database migrations on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, *migrate, log); err != nil {
		log.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, migrate bool, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := postgres.Migrate(cfg.Database, log); err != nil {
			return err
		}
	}

	// Infrastructure.  Metrics first so the other components can record.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "adsforge",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	db, err := postgres.NewConnection(ctx, cfg.Database, metrics, log)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer cache.Close()

	blobs, err := minio.NewClient(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	producer := kafka.NewProducer(cfg.Kafka, "apiserver", metrics, log)
	defer producer.Close()

	// Repositories.
	users := repositories.NewPostgresUserRepo(db, log)
	docs := repositories.NewPostgresDocumentRepo(db, log)
	apps := repositories.NewPostgresApplicationRepo(db, log)
	jobs := repositories.NewPostgresJobRepo(db, log)

	// Auth.
	tokens := jwt.NewManager(cfg.Auth)
	hasher := jwt.NewHasher(cfg.Auth.BcryptCost)

	// ADS template is required for generation; refuse to start without it.
	template, err := os.ReadFile(cfg.Extraction.ADSTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read ADS template %s: %w", cfg.Extraction.ADSTemplatePath, err)
	}

	// Application services.
	queue := cache.NewQueue(cfg.Worker.QueueName)
	accountSvc := accounts.NewService(users, tokens, hasher, metrics, log)
	documentSvc := documents.NewService(docs, jobs, blobs, queue, producer, cfg.Worker.MaxRetries, log)
	applicationSvc := applications.NewService(apps, blobs, log)
	adsSvc := adsgen.NewService(apps, blobs, template, producer, metrics, log)

	// HTTP interface.
	limiter := cache.NewRateLimiter(cfg.Server.RateLimitRPS, time.Second)
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Auth:      middleware.NewAuthMiddleware(tokens, log),
		Logging:   middleware.NewLoggingMiddleware(log, metrics),
		RateLimit: middleware.NewRateLimitMiddleware(limiter, log),
		CORS:      middleware.DefaultCORSConfig(),

		AuthHandler:        handlers.NewAuthHandler(accountSvc, log),
		DocumentHandler:    handlers.NewDocumentHandler(documentSvc, cfg.Server.MaxBodySize, log),
		ApplicationHandler: handlers.NewApplicationHandler(applicationSvc, log),
		ADSHandler:         handlers.NewADSHandler(adsSvc, log),
		JobHandler:         handlers.NewJobHandler(jobs, log),
		DeadlineHandler:    handlers.NewDeadlineHandler(log),
		HealthHandler:      handlers.NewHealthHandler(db, cache, blobs, metrics, log),

		MetricsHandler: collector.Handler(),
	})

	srv := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Info("apiserver started", logging.Int("port", cfg.Server.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	return srv.Stop(context.Background())
}
