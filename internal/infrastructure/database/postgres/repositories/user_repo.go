package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/user"
	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

type postgresUserRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewPostgresUserRepo returns the PostgreSQL user.Repository.
func NewPostgresUserRepo(conn *postgres.Connection, log logging.Logger) user.Repository {
	return &postgresUserRepo{executor: conn.Pool(), log: log}
}

const userColumns = `id, email, display_name, password_hash, role, status, last_login_at, created_at, updated_at, deleted_at`

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, display_name, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRow(ctx, query,
		u.ID, u.Email, u.DisplayName, u.PasswordHash, u.Role, u.Status,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("email already registered")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create user")
	}
	return nil
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.executor.QueryRow(ctx, query, id))
}

func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanOne(r.executor.QueryRow(ctx, query, email))
}

func (r *postgresUserRepo) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET email = $2, display_name = $3, role = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.executor.Exec(ctx, query, u.ID, u.Email, u.DisplayName, u.Role, u.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("email already registered")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("user not found").WithDetail(u.ID.String())
	}
	return nil
}

func (r *postgresUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.executor.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update password")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("user not found").WithDetail(id.String())
	}
	return nil
}

func (r *postgresUserRepo) RecordLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.executor.Exec(ctx, query, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record login")
	}
	return nil
}

func (r *postgresUserRepo) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $1`
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		where += ` AND email ILIKE $` + itoa(len(args))
	}

	var total int
	if err := r.executor.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count users")
	}

	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := `SELECT ` + userColumns + ` FROM users` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list users")
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan user")
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), status = 'disabled' WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.executor.Exec(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("user not found").WithDetail(id.String())
	}
	return nil
}

func (r *postgresUserRepo) scanOne(row scanner) (*user.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		return nil, mapScanError(err, errors.NotFound("user not found"), "failed to load user")
	}
	return u, nil
}

func scanUserRow(s scanner) (*user.User, error) {
	var u user.User
	err := s.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
