package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/document"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

type postgresDocumentRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewPostgresDocumentRepo returns the PostgreSQL document.Repository.
func NewPostgresDocumentRepo(conn *postgres.Connection, log logging.Logger) document.Repository {
	return &postgresDocumentRepo{executor: conn.Pool(), log: log}
}

const documentColumns = `id, owner_id, filename, content_type, size_bytes, storage_key, status, fail_reason, created_at, updated_at, deleted_at`

func (r *postgresDocumentRepo) Create(ctx context.Context, d *document.Document) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	query := `
		INSERT INTO documents (id, owner_id, filename, content_type, size_bytes, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRow(ctx, query,
		d.ID, d.OwnerID, d.Filename, d.ContentType, d.SizeBytes, d.StorageKey, d.Status,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("document already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create document")
	}
	return nil
}

func (r *postgresDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`
	d, err := scanDocumentRow(r.executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapScanError(err,
			errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(id.String()),
			"failed to load document")
	}
	return d, nil
}

func (r *postgresDocumentRepo) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, int, error) {
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
	if err := r.executor.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count documents")
	}

	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := `SELECT ` + documentColumns + ` FROM documents` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list documents")
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		d, err := scanDocumentRow(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document")
		}
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}

func (r *postgresDocumentRepo) UpdateStatus(ctx context.Context, d *document.Document) error {
	query := `
		UPDATE documents SET status = $2, fail_reason = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.executor.Exec(ctx, query, d.ID, d.Status, d.FailReason)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update document status")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(d.ID.String())
	}
	return nil
}

func (r *postgresDocumentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE documents SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.executor.Exec(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete document")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(id.String())
	}
	return nil
}

func scanDocumentRow(s scanner) (*document.Document, error) {
	var d document.Document
	err := s.Scan(&d.ID, &d.OwnerID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.StorageKey,
		&d.Status, &d.FailReason, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
