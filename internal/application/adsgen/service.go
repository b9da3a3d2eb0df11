// Package adsgen produces the filled USPTO ADS (form AIA/14) PDF for a
// reviewed application.
package adsgen

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/application"
	"github.com/adsforge/adsforge/internal/infrastructure/messaging/kafka"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
	"github.com/adsforge/adsforge/internal/pdfform"
	"github.com/adsforge/adsforge/internal/xfa"
	"github.com/adsforge/adsforge/pkg/errors"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// InventorCountMismatch reports that the caller's view of the inventor list
// is stale.  Handlers turn this into a 400 telling the client what changed.
type InventorCountMismatch struct {
	Action     string `json:"action"` // "added" | "removed"
	Difference int    `json:"difference"`
}

func (e *InventorCountMismatch) Error() string {
	return "inventor count mismatch: " + e.Action
}

// GenerateInput identifies the application and, optionally, the inventor
// count the client last saw.
type GenerateInput struct {
	OwnerID       uuid.UUID
	ApplicationID uuid.UUID

	// ExpectedInventors guards against generating from a stale review.
	// Zero skips the check.
	ExpectedInventors int

	// Metadata overrides the stored metadata when the client submits edited
	// values with the generation request.
	Metadata *ads.PatentApplicationMetadata
}

// GenerateResult points at the produced PDF.
type GenerateResult struct {
	Application *application.PatentApplication `json:"application"`
	StorageKey  string                         `json:"storage_key"`
	DownloadURL string                         `json:"download_url,omitempty"`
}

// Service generates ADS PDFs.
type Service struct {
	apps     application.Repository
	storage  *minio.Client
	builder  *xfa.Builder
	injector *pdfform.Injector
	template []byte
	producer *kafka.Producer
	metrics  *prometheus.AppMetrics
	log      logging.Logger
}

// NewService wires the generation dependencies.  template is the blank
// AIA/14 PDF; producer and metrics may be nil.
func NewService(
	apps application.Repository,
	storage *minio.Client,
	template []byte,
	producer *kafka.Producer,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *Service {
	return &Service{
		apps:     apps,
		storage:  storage,
		builder:  xfa.NewBuilder(log),
		injector: pdfform.NewInjector(log),
		template: template,
		producer: producer,
		metrics:  metrics,
		log:      log,
	}
}

// Generate builds the XFA datasets, injects them into the template, stores
// the PDF, and marks the application generated.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	app, err := s.apps.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != in.OwnerID {
		return nil, errors.New(errors.ErrCodeApplicationNotFound, "application not found")
	}

	meta := app.Metadata
	if in.Metadata != nil {
		meta = *in.Metadata
	}

	if in.ExpectedInventors > 0 {
		if err := s.checkInventorCount(in.ExpectedInventors, meta.InventorCount()); err != nil {
			return nil, err
		}
	}

	buildStart := time.Now()
	datasets, err := s.builder.Build(meta)
	if err != nil {
		s.recordGeneration("failed")
		return nil, err
	}
	s.observeStage("xfa_build", time.Since(buildStart))

	injectStart := time.Now()
	pdf, err := s.injector.Inject(s.template, datasets)
	if err != nil {
		s.recordGeneration("failed")
		return nil, err
	}
	s.observeStage("pdf_inject", time.Since(injectStart))

	key := minio.ADSKey(app.OwnerID, app.ID)
	if err := s.storage.Put(ctx, key, "application/pdf", pdf); err != nil {
		s.recordGeneration("failed")
		return nil, err
	}

	if in.Metadata != nil {
		app.Metadata = meta
		if meta.Title != "" {
			app.Title = meta.Title
		}
	}
	app.Status = application.StatusGenerated
	app.ADSStorageKey = key
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	s.recordGeneration("success")
	s.publishGenerated(ctx, app)

	url, err := s.storage.PresignedGetURL(ctx, key)
	if err != nil {
		// The PDF exists; the caller can fetch a link later.
		s.log.Warn("failed to presign ads url", logging.Err(err))
		url = ""
	}

	s.log.Info("ads generated",
		logging.String("application_id", app.ID.String()),
		logging.String("storage_key", key),
		logging.Int("pdf_bytes", len(pdf)),
	)
	return &GenerateResult{Application: app, StorageKey: key, DownloadURL: url}, nil
}

// checkInventorCount compares the client's count against the stored state.
func (s *Service) checkInventorCount(expected, actual int) error {
	if expected == actual {
		return nil
	}
	mismatch := &InventorCountMismatch{}
	if actual > expected {
		mismatch.Action = "added"
		mismatch.Difference = actual - expected
	} else {
		mismatch.Action = "removed"
		mismatch.Difference = expected - actual
	}
	if s.metrics != nil {
		s.metrics.InventorCountDeltas.WithLabelValues(mismatch.Action).Inc()
	}
	return mismatch
}

func (s *Service) recordGeneration(status string) {
	if s.metrics != nil {
		s.metrics.ADSGeneratedTotal.WithLabelValues(status).Inc()
	}
}

func (s *Service) observeStage(stage string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ADSBuildDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

func (s *Service) publishGenerated(ctx context.Context, app *application.PatentApplication) {
	if s.producer == nil {
		return
	}
	err := s.producer.Publish(ctx, kafka.TopicADSGenerated, app.ID.String(), kafka.ADSGeneratedPayload{
		ApplicationID: app.ID.String(),
		StorageKey:    app.ADSStorageKey,
		GeneratedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish ads.generated", logging.Err(err))
	}
}
