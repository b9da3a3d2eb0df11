package application

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for patent applications.
type Repository interface {
	Create(ctx context.Context, a *PatentApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*PatentApplication, error)
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*PatentApplication, error)
	List(ctx context.Context, filter ListFilter) ([]*PatentApplication, int, error)
	Update(ctx context.Context, a *PatentApplication) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
