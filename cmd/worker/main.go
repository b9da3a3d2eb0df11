// Background worker entry point for ADSForge.  It consumes extraction jobs
// from the Redis queue and runs the document pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adsforge/adsforge/internal/application/extraction"
	"github.com/adsforge/adsforge/internal/application/reporting"
	"github.com/adsforge/adsforge/internal/application/worker"
	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres/repositories"
	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/llm"
	"github.com/adsforge/adsforge/internal/infrastructure/messaging/kafka"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	concurrency := flag.Int("concurrency", 0, "worker goroutines (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *concurrency > 0 {
		cfg.Worker.Concurrency = *concurrency
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log.Named("worker")); err != nil {
		log.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	producer := kafka.NewProducer(cfg.Kafka, "worker", metrics, log)
	defer producer.Close()

	llmClient, err := llm.NewClient(cfg.LLM, metrics, log)
	if err != nil {
		return err
	}

	extractor := extraction.NewService(
		llmClient,
		nil, // heuristic entity classifier
		extraction.Options{AutoFix: cfg.Extraction.AutoFixEntities},
		metrics,
		log,
	)
	reporter := reporting.NewGenerator(log)

	docs := repositories.NewPostgresDocumentRepo(db, log)
	apps := repositories.NewPostgresApplicationRepo(db, log)
	jobs := repositories.NewPostgresJobRepo(db, log)
	queue := cache.NewQueue(cfg.Worker.QueueName)

	w := worker.New(
		cfg.Worker,
		jobs,
		docs,
		apps,
		blobs,
		extractor,
		reporter,
		queue,
		cache,
		producer,
		metrics,
		log,
	)
	return w.Run(ctx)
}
