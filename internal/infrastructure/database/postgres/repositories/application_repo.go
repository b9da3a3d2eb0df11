package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/application"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

type postgresApplicationRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewPostgresApplicationRepo returns the PostgreSQL application.Repository.
// Extracted metadata is stored as a JSONB document; only list/lookup columns
// are relational.
func NewPostgresApplicationRepo(conn *postgres.Connection, log logging.Logger) application.Repository {
	return &postgresApplicationRepo{executor: conn.Pool(), log: log}
}

const applicationColumns = `id, owner_id, document_id, title, status, metadata, completeness, overall_confidence, ads_storage_key, created_at, updated_at, deleted_at`

func (r *postgresApplicationRepo) Create(ctx context.Context, a *application.PatentApplication) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	metaJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode application metadata")
	}
	query := `
		INSERT INTO patent_applications (
			id, owner_id, document_id, title, status, metadata, completeness, overall_confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = r.executor.QueryRow(ctx, query,
		a.ID, a.OwnerID, a.DocumentID, a.Title, a.Status, metaJSON, a.Completeness, a.OverallConfidence,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("application already exists for document")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create application")
	}
	return nil
}

func (r *postgresApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*application.PatentApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM patent_applications WHERE id = $1 AND deleted_at IS NULL`
	a, err := scanApplicationRow(r.executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapScanError(err,
			errors.New(errors.ErrCodeApplicationNotFound, "application not found").WithDetail(id.String()),
			"failed to load application")
	}
	return a, nil
}

func (r *postgresApplicationRepo) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*application.PatentApplication, error) {
	query := `
		SELECT ` + applicationColumns + ` FROM patent_applications
		WHERE document_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1
	`
	a, err := scanApplicationRow(r.executor.QueryRow(ctx, query, documentID))
	if err != nil {
		return nil, mapScanError(err,
			errors.New(errors.ErrCodeApplicationNotFound, "no application for document").WithDetail(documentID.String()),
			"failed to load application")
	}
	return a, nil
}

func (r *postgresApplicationRepo) List(ctx context.Context, filter application.ListFilter) ([]*application.PatentApplication, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []any{}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		where += ` AND owner_id = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + itoa(len(args))
	}

	var total int
	if err := r.executor.QueryRow(ctx, `SELECT COUNT(*) FROM patent_applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count applications")
	}

	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := `SELECT ` + applicationColumns + ` FROM patent_applications` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list applications")
	}
	defer rows.Close()

	var apps []*application.PatentApplication
	for rows.Next() {
		a, err := scanApplicationRow(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan application")
		}
		apps = append(apps, a)
	}
	return apps, total, rows.Err()
}

func (r *postgresApplicationRepo) Update(ctx context.Context, a *application.PatentApplication) error {
	metaJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode application metadata")
	}
	query := `
		UPDATE patent_applications SET
			title = $2, status = $3, metadata = $4, completeness = $5,
			overall_confidence = $6, ads_storage_key = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.executor.Exec(ctx, query,
		a.ID, a.Title, a.Status, metaJSON, a.Completeness, a.OverallConfidence, a.ADSStorageKey,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update application")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeApplicationNotFound, "application not found").WithDetail(a.ID.String())
	}
	return nil
}

func (r *postgresApplicationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patent_applications SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.executor.Exec(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete application")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeApplicationNotFound, "application not found").WithDetail(id.String())
	}
	return nil
}

func scanApplicationRow(s scanner) (*application.PatentApplication, error) {
	var (
		a        application.PatentApplication
		metaJSON []byte
	)
	err := s.Scan(&a.ID, &a.OwnerID, &a.DocumentID, &a.Title, &a.Status, &metaJSON,
		&a.Completeness, &a.OverallConfidence, &a.ADSStorageKey,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	if len(metaJSON) > 0 {
		var meta ads.PatentApplicationMetadata
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return nil, err
		}
		a.Metadata = meta
	}
	return &a, nil
}
