package job

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter defines filtering options for listing jobs.
type ListFilter struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
	Type       Type
	Status     Status
	Offset     int
	Limit      int
}

// Repository is the persistence contract for processing jobs.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context, filter ListFilter) ([]*Job, int, error)
	Update(ctx context.Context, j *Job) error
}
