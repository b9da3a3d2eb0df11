// Package applications manages the review lifecycle of extracted patent
// applications between extraction and ADS generation.
package applications

import (
	"context"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/application"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
	"github.com/adsforge/adsforge/pkg/errors"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// UpdateInput carries reviewer edits.
type UpdateInput struct {
	OwnerID       uuid.UUID
	ApplicationID uuid.UUID
	Metadata      ads.PatentApplicationMetadata
	MarkReviewed  bool
}

// Service exposes review operations over stored applications.
type Service struct {
	apps    application.Repository
	storage *minio.Client
	log     logging.Logger
}

// NewService wires the repository and the blob store backing the generated
// artifacts.
func NewService(apps application.Repository, storage *minio.Client, log logging.Logger) *Service {
	return &Service{apps: apps, storage: storage, log: log}
}

// Get returns an application owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*application.PatentApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != ownerID {
		return nil, errors.New(errors.ErrCodeApplicationNotFound, "application not found")
	}
	return app, nil
}

// GetByDocument returns the extraction result for a document.
func (s *Service) GetByDocument(ctx context.Context, ownerID, documentID uuid.UUID) (*application.PatentApplication, error) {
	app, err := s.apps.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != ownerID {
		return nil, errors.New(errors.ErrCodeApplicationNotFound, "application not found")
	}
	return app, nil
}

// List returns the owner's applications.
func (s *Service) List(ctx context.Context, filter application.ListFilter) ([]*application.PatentApplication, int, error) {
	return s.apps.List(ctx, filter)
}

// Update applies reviewer edits to the stored metadata.  Generated
// applications may still be edited; a later generation run overwrites the PDF.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*application.PatentApplication, error) {
	app, err := s.Get(ctx, in.OwnerID, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	app.Metadata = in.Metadata
	if in.Metadata.Title != "" {
		app.Title = in.Metadata.Title
	}
	if in.MarkReviewed && app.Status == application.StatusDraft {
		app.Status = application.StatusReviewed
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info("application updated",
		logging.String("application_id", app.ID.String()),
		logging.String("status", string(app.Status)),
		logging.Int("inventors", app.Metadata.InventorCount()),
	)
	return app, nil
}

// Delete soft-deletes an application.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.apps.SoftDelete(ctx, id)
}

// ADSDownloadURL returns a presigned link to the generated ADS PDF.
func (s *Service) ADSDownloadURL(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	app, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if app.ADSStorageKey == "" {
		return "", errors.NotFound("ADS has not been generated yet")
	}
	return s.storage.PresignedGetURL(ctx, app.ADSStorageKey)
}

// ReportURL returns a presigned link to the extraction review report the
// worker stored alongside the application.
func (s *Service) ReportURL(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	app, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	key := minio.ReportKey(app.OwnerID, app.ID)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.NotFound("extraction report is not available")
	}
	return s.storage.PresignedGetURL(ctx, key)
}
