package document

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for documents.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, filter ListFilter) ([]*Document, int, error)
	UpdateStatus(ctx context.Context, d *Document) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
