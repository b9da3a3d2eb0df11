// Package documents handles document intake: validation, blob storage,
// persistence, and extraction-job dispatch.
package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/document"
	"github.com/adsforge/adsforge/internal/domain/job"
	"github.com/adsforge/adsforge/internal/extraction/preprocess"
	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/messaging/kafka"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
	"github.com/adsforge/adsforge/pkg/errors"
)

// UploadInput carries one uploaded file.
type UploadInput struct {
	OwnerID  uuid.UUID
	Filename string
	Data     []byte
}

// UploadResult is returned to the API caller so it can poll the job.
type UploadResult struct {
	Document *document.Document `json:"document"`
	Job      *job.Job           `json:"job"`
}

// Service implements document intake and lookup.
type Service struct {
	docs     document.Repository
	jobs     job.Repository
	storage  *minio.Client
	queue    *redis.Queue
	producer *kafka.Producer
	maxRetry int
	log      logging.Logger
}

// NewService wires the intake dependencies.  producer may be nil when event
// publishing is disabled.
func NewService(
	docs document.Repository,
	jobs job.Repository,
	storage *minio.Client,
	queue *redis.Queue,
	producer *kafka.Producer,
	maxRetry int,
	log logging.Logger,
) *Service {
	return &Service{
		docs:     docs,
		jobs:     jobs,
		storage:  storage,
		queue:    queue,
		producer: producer,
		maxRetry: maxRetry,
		log:      log,
	}
}

// Upload validates the file, stores it, records the document, and enqueues
// an extraction job.  Validation failures are returned to the caller before
// anything is persisted.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	fileType, err := preprocess.ValidateFile(in.Filename, in.Data)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{
		ID:          uuid.New(),
		OwnerID:     in.OwnerID,
		Filename:    in.Filename,
		ContentType: contentTypeFor(fileType),
		SizeBytes:   int64(len(in.Data)),
		Status:      document.StatusUploaded,
	}
	doc.StorageKey = minio.DocumentKey(doc.OwnerID, doc.ID, doc.Filename)

	if err := s.storage.Put(ctx, doc.StorageKey, doc.ContentType, in.Data); err != nil {
		return nil, err
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// Blob is orphaned if this fails; remove it best-effort.
		if rmErr := s.storage.Remove(ctx, doc.StorageKey); rmErr != nil {
			s.log.Warn("failed to remove orphaned blob",
				logging.String("key", doc.StorageKey), logging.Err(rmErr))
		}
		return nil, err
	}

	j := job.New(job.TypeExtraction, in.OwnerID, doc.ID, s.maxRetry)
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, j.ID.String()); err != nil {
		j.Fail("enqueue failed: " + err.Error())
		if updErr := s.jobs.Update(ctx, j); updErr != nil {
			s.log.Error("failed to record enqueue failure", logging.Err(updErr))
		}
		return nil, errors.Wrap(err, errors.ErrCodeJobEnqueueFailed, "failed to dispatch extraction job")
	}

	s.publishUploaded(ctx, doc)

	s.log.Info("document uploaded",
		logging.String("document_id", doc.ID.String()),
		logging.String("filename", doc.Filename),
		logging.Int64("size_bytes", doc.SizeBytes),
		logging.String("job_id", j.ID.String()),
	)
	return &UploadResult{Document: doc, Job: j}, nil
}

// Get returns a document owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*document.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found")
	}
	return doc, nil
}

// List returns the owner's documents.
func (s *Service) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, int, error) {
	return s.docs.List(ctx, filter)
}

// Delete soft-deletes the document record and removes the blob.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.docs.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, doc.StorageKey); err != nil {
		s.log.Warn("failed to remove document blob",
			logging.String("key", doc.StorageKey), logging.Err(err))
	}
	return nil
}

// DownloadURL returns a presigned link to the original file.
func (s *Service) DownloadURL(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedGetURL(ctx, doc.StorageKey)
}

func (s *Service) publishUploaded(ctx context.Context, doc *document.Document) {
	if s.producer == nil {
		return
	}
	err := s.producer.Publish(ctx, kafka.TopicDocumentUploaded, doc.ID.String(), kafka.DocumentUploadedPayload{
		DocumentID: doc.ID.String(),
		OwnerID:    doc.OwnerID.String(),
		Filename:   doc.Filename,
		SizeBytes:  doc.SizeBytes,
		UploadedAt: doc.CreatedAt,
	})
	if err != nil {
		s.log.Warn("failed to publish document.uploaded", logging.Err(err))
	}
}

func contentTypeFor(ft preprocess.FileType) string {
	switch ft {
	case preprocess.FileTypePDF:
		return "application/pdf"
	case preprocess.FileTypeDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
