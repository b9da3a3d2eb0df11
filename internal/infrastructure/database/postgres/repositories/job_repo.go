package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/job"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

type postgresJobRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewPostgresJobRepo returns the PostgreSQL job.Repository.
func NewPostgresJobRepo(conn *postgres.Connection, log logging.Logger) job.Repository {
	return &postgresJobRepo{executor: conn.Pool(), log: log}
}

const jobColumns = `id, type, owner_id, document_id, status, attempts, max_retry, last_error, result_ref, created_at, started_at, finished_at`

func (r *postgresJobRepo) Create(ctx context.Context, j *job.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	query := `
		INSERT INTO processing_jobs (id, type, owner_id, document_id, status, attempts, max_retry)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.executor.QueryRow(ctx, query,
		j.ID, j.Type, j.OwnerID, j.DocumentID, j.Status, j.Attempts, j.MaxRetry,
	).Scan(&j.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create job")
	}
	return nil
}

func (r *postgresJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE id = $1`
	j, err := scanJobRow(r.executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapScanError(err,
			errors.New(errors.ErrCodeJobNotFound, "job not found").WithDetail(id.String()),
			"failed to load job")
	}
	return j, nil
}

func (r *postgresJobRepo) List(ctx context.Context, filter job.ListFilter) ([]*job.Job, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		where += ` AND owner_id = $` + itoa(len(args))
	}
	if filter.DocumentID != uuid.Nil {
		args = append(args, filter.DocumentID)
		where += ` AND document_id = $` + itoa(len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += ` AND type = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + itoa(len(args))
	}

	var total int
	if err := r.executor.QueryRow(ctx, `SELECT COUNT(*) FROM processing_jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count jobs")
	}

	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := `SELECT ` + jobColumns + ` FROM processing_jobs` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list jobs")
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJobRow(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan job")
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (r *postgresJobRepo) Update(ctx context.Context, j *job.Job) error {
	query := `
		UPDATE processing_jobs SET
			status = $2, attempts = $3, last_error = $4, result_ref = $5,
			started_at = $6, finished_at = $7
		WHERE id = $1
	`
	tag, err := r.executor.Exec(ctx, query,
		j.ID, j.Status, j.Attempts, j.LastError, j.ResultRef, j.StartedAt, j.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update job")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeJobNotFound, "job not found").WithDetail(j.ID.String())
	}
	return nil
}

func scanJobRow(s scanner) (*job.Job, error) {
	var j job.Job
	err := s.Scan(&j.ID, &j.Type, &j.OwnerID, &j.DocumentID, &j.Status, &j.Attempts,
		&j.MaxRetry, &j.LastError, &j.ResultRef, &j.CreatedAt, &j.StartedAt, &j.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
