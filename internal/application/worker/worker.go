// Package worker runs background extraction jobs from the Redis queue.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/application/extraction"
	"github.com/adsforge/adsforge/internal/application/reporting"
	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/domain/application"
	"github.com/adsforge/adsforge/internal/domain/document"
	"github.com/adsforge/adsforge/internal/domain/job"
	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/messaging/kafka"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
	"github.com/adsforge/adsforge/pkg/errors"
)

// JobQueue is the queue contract the worker consumes.  *redis.Queue satisfies
// it.
type JobQueue interface {
	Enqueue(ctx context.Context, payload string) error
	Dequeue(ctx context.Context, timeout time.Duration) (string, error)
	Length(ctx context.Context) (int64, error)
}

// Worker consumes jobs from the queue and drives the extraction pipeline.
type Worker struct {
	cfg config.WorkerConfig

	jobs      job.Repository
	docs      document.Repository
	apps      application.Repository
	storage   *minio.Client
	extractor *extraction.Service
	reporter  *reporting.Generator
	queue     JobQueue
	locks     *redis.Client
	producer  *kafka.Producer
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// New wires a worker.  producer and metrics may be nil.
func New(
	cfg config.WorkerConfig,
	jobs job.Repository,
	docs document.Repository,
	apps application.Repository,
	storage *minio.Client,
	extractor *extraction.Service,
	reporter *reporting.Generator,
	queue JobQueue,
	locks *redis.Client,
	producer *kafka.Producer,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *Worker {
	return &Worker{
		cfg:       cfg,
		jobs:      jobs,
		docs:      docs,
		apps:      apps,
		storage:   storage,
		extractor: extractor,
		reporter:  reporter,
		queue:     queue,
		locks:     locks,
		producer:  producer,
		metrics:   metrics,
		log:       log,
	}
}

// Run blocks until ctx is cancelled, processing jobs on cfg.Concurrency
// goroutines.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker starting",
		logging.Int("concurrency", w.cfg.Concurrency),
		logging.String("queue", w.cfg.QueueName),
	)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()

	w.log.Info("worker stopped")
	return nil
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := w.queue.Dequeue(ctx, w.cfg.PollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("dequeue failed", logging.Err(err))
			time.Sleep(w.cfg.PollInterval)
			continue
		}
		w.observeQueueDepth(ctx)
		if payload == "" {
			continue
		}
		w.handle(ctx, payload)
	}
}

// observeQueueDepth refreshes the backlog gauge.  Best-effort: a failed LLEN
// never disturbs the consume loop.
func (w *Worker) observeQueueDepth(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	depth, err := w.queue.Length(ctx)
	if err != nil {
		return
	}
	w.metrics.QueueDepth.WithLabelValues(w.cfg.QueueName).Set(float64(depth))
}

func (w *Worker) handle(ctx context.Context, payload string) {
	jobID, err := uuid.Parse(payload)
	if err != nil {
		w.log.Warn("dropping malformed queue payload", logging.String("payload", payload))
		return
	}

	j, err := w.jobs.GetByID(ctx, jobID)
	if err != nil {
		w.log.Error("failed to load job", logging.String("job_id", payload), logging.Err(err))
		return
	}

	// One worker per job, even if the ID was enqueued twice.
	lock := w.locks.NewMutex("job:"+j.ID.String(), w.cfg.LockTTL)
	acquired, err := lock.TryLock(ctx)
	if err != nil || !acquired {
		if err != nil {
			w.log.Error("lock acquisition failed", logging.Err(err))
		}
		return
	}
	defer func() {
		if err := lock.Unlock(ctx); err != nil {
			w.log.Warn("failed to release job lock", logging.Err(err))
		}
	}()

	// Jobs may outlive the lock TTL; keep extending it until the job is done
	// so a second worker never picks up the same job mid-run.
	keepaliveStop := make(chan struct{})
	defer close(keepaliveStop)
	go w.keepLockAlive(ctx, lock, keepaliveStop)

	if err := j.Start(); err != nil {
		w.log.Warn("skipping job", logging.String("job_id", j.ID.String()), logging.Err(err))
		return
	}
	if err := w.jobs.Update(ctx, j); err != nil {
		w.log.Error("failed to mark job running", logging.Err(err))
		return
	}

	w.setActiveWorkers(1)
	defer w.setActiveWorkers(-1)

	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	resultRef, runErr := w.run(jobCtx, j)
	cancel()

	if runErr == nil {
		j.Succeed(resultRef)
		w.recordJob(j, "succeeded", time.Since(start))
	} else {
		w.failJob(ctx, j, runErr, time.Since(start))
	}
	if err := w.jobs.Update(ctx, j); err != nil {
		w.log.Error("failed to persist job outcome", logging.Err(err))
	}
}

// lockExtender is the slice of *redis.Mutex the keepalive needs.
type lockExtender interface {
	Extend(ctx context.Context) (bool, error)
}

// keepLockAlive extends the job lock at half-TTL intervals until stop closes.
func (w *Worker) keepLockAlive(ctx context.Context, lock lockExtender, stop <-chan struct{}) {
	interval := w.cfg.LockTTL / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := lock.Extend(ctx)
			if err != nil || !ok {
				w.log.Warn("failed to extend job lock", logging.Err(err))
				return
			}
		}
	}
}

// failJob records the failure and either re-enqueues with backoff or goes
// terminal.
func (w *Worker) failJob(ctx context.Context, j *job.Job, runErr error, elapsed time.Duration) {
	j.Fail(runErr.Error())
	w.log.Error("job attempt failed",
		logging.String("job_id", j.ID.String()),
		logging.Int("attempt", j.Attempts),
		logging.Err(runErr),
	)

	if j.Retryable() {
		w.recordJob(j, "retried", elapsed)
		if w.metrics != nil {
			w.metrics.JobRetries.WithLabelValues(string(j.Type)).Inc()
		}
		// Exponential backoff: base * 2^(attempt-1).
		backoff := w.cfg.RetryBackoff << (j.Attempts - 1)
		time.AfterFunc(backoff, func() {
			if err := w.queue.Enqueue(context.Background(), j.ID.String()); err != nil {
				w.log.Error("failed to re-enqueue job", logging.String("job_id", j.ID.String()), logging.Err(err))
			}
		})
		return
	}

	w.recordJob(j, "failed", elapsed)
	w.markDocumentFailed(ctx, j, runErr)
	w.publishFailed(ctx, j, runErr)
}

func (w *Worker) run(ctx context.Context, j *job.Job) (string, error) {
	switch j.Type {
	case job.TypeExtraction:
		return w.runExtraction(ctx, j)
	default:
		return "", errors.New(errors.ErrCodeInternal, "unknown job type").WithDetail(string(j.Type))
	}
}

// runExtraction drives the full pipeline for one document and persists the
// result as a draft application.
func (w *Worker) runExtraction(ctx context.Context, j *job.Job) (string, error) {
	doc, err := w.docs.GetByID(ctx, j.DocumentID)
	if err != nil {
		return "", err
	}
	doc.MarkProcessing()
	if err := w.docs.UpdateStatus(ctx, doc); err != nil {
		return "", err
	}

	data, err := w.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return "", err
	}

	result, err := w.extractor.Extract(ctx, doc.Filename, data)
	if err != nil {
		return "", err
	}

	app, err := w.persistApplication(ctx, doc, result)
	if err != nil {
		return "", err
	}

	doc.MarkExtracted()
	if err := w.docs.UpdateStatus(ctx, doc); err != nil {
		return "", err
	}

	w.storeReport(ctx, doc, app, result)
	w.publishCompleted(ctx, doc, app, result)

	return app.ID.String(), nil
}

// persistApplication creates the draft application, or refreshes it when the
// document is re-extracted.
func (w *Worker) persistApplication(ctx context.Context, doc *document.Document, result *extraction.Result) (*application.PatentApplication, error) {
	app, err := w.apps.GetByDocumentID(ctx, doc.ID)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		app = &application.PatentApplication{
			ID:         uuid.New(),
			OwnerID:    doc.OwnerID,
			DocumentID: doc.ID,
		}
		w.fillApplication(app, result)
		if err := w.apps.Create(ctx, app); err != nil {
			return nil, err
		}
		return app, nil
	}

	w.fillApplication(app, result)
	if err := w.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (w *Worker) fillApplication(app *application.PatentApplication, result *extraction.Result) {
	app.Title = result.Metadata.Title
	app.Status = application.StatusDraft
	app.Metadata = result.Metadata
	app.Completeness = string(result.Structured.Quality.Completeness)
	app.OverallConfidence = result.Structured.Quality.OverallConfidence
}

// storeReport is best-effort: a missing report never fails the job.
func (w *Worker) storeReport(ctx context.Context, doc *document.Document, app *application.PatentApplication, result *extraction.Result) {
	report, err := w.reporter.ExtractionReport(doc.Filename, result)
	if err != nil {
		w.log.Warn("report generation failed", logging.String("document_id", doc.ID.String()), logging.Err(err))
		return
	}
	key := minio.ReportKey(doc.OwnerID, app.ID)
	contentType := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if err := w.storage.Put(ctx, key, contentType, report); err != nil {
		w.log.Warn("report upload failed", logging.String("key", key), logging.Err(err))
		return
	}
	w.publishReport(ctx, app, key)
}

func (w *Worker) markDocumentFailed(ctx context.Context, j *job.Job, runErr error) {
	doc, err := w.docs.GetByID(ctx, j.DocumentID)
	if err != nil {
		return
	}
	doc.MarkFailed(runErr.Error())
	if err := w.docs.UpdateStatus(ctx, doc); err != nil {
		w.log.Error("failed to mark document failed", logging.Err(err))
	}
}

func (w *Worker) publishCompleted(ctx context.Context, doc *document.Document, app *application.PatentApplication, result *extraction.Result) {
	if w.producer == nil {
		return
	}
	err := w.producer.Publish(ctx, kafka.TopicExtractionCompleted, doc.ID.String(), kafka.ExtractionCompletedPayload{
		DocumentID:        doc.ID.String(),
		ApplicationID:     app.ID.String(),
		Method:            string(result.Structured.Method),
		Completeness:      string(result.Structured.Quality.Completeness),
		OverallConfidence: result.Structured.Quality.OverallConfidence,
		CompletedAt:       time.Now().UTC(),
	})
	if err != nil {
		w.log.Warn("failed to publish extraction.completed", logging.Err(err))
	}
}

func (w *Worker) publishFailed(ctx context.Context, j *job.Job, runErr error) {
	if w.producer == nil {
		return
	}
	err := w.producer.Publish(ctx, kafka.TopicExtractionFailed, j.DocumentID.String(), kafka.ExtractionFailedPayload{
		DocumentID: j.DocumentID.String(),
		JobID:      j.ID.String(),
		ErrorCode:  errors.GetCode(runErr).String(),
		Reason:     runErr.Error(),
		FailedAt:   time.Now().UTC(),
	})
	if err != nil {
		w.log.Warn("failed to publish extraction.failed", logging.Err(err))
	}
}

func (w *Worker) publishReport(ctx context.Context, app *application.PatentApplication, key string) {
	if w.producer == nil {
		return
	}
	err := w.producer.Publish(ctx, kafka.TopicReportGenerated, app.ID.String(), kafka.ReportGeneratedPayload{
		ApplicationID: app.ID.String(),
		StorageKey:    key,
		GeneratedAt:   time.Now().UTC(),
	})
	if err != nil {
		w.log.Warn("failed to publish report.generated", logging.Err(err))
	}
}

func (w *Worker) recordJob(j *job.Job, status string, d time.Duration) {
	if w.metrics != nil {
		w.metrics.RecordJob(string(j.Type), status, d)
	}
}

func (w *Worker) setActiveWorkers(delta int) {
	if w.metrics == nil {
		return
	}
	g := w.metrics.ActiveWorkers.WithLabelValues(w.cfg.QueueName)
	if delta > 0 {
		g.Inc()
	} else {
		g.Dec()
	}
}
