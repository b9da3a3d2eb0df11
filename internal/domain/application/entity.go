// Package application defines the patent-application aggregate: the
// extracted, validated metadata for one filing, ready for ADS generation.
package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/pkg/types/ads"
)

// Status tracks the application's review lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"     // extraction complete, awaiting review
	StatusReviewed  Status = "reviewed"  // human-confirmed metadata
	StatusGenerated Status = "generated" // ADS PDF produced
)

// PatentApplication is the persisted aggregate.  Metadata is stored as a
// JSONB column; the relational columns exist only for listing and lookup.
type PatentApplication struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	DocumentID uuid.UUID `json:"document_id"`

	Title    string                        `json:"title"`
	Status   Status                        `json:"status"`
	Metadata ads.PatentApplicationMetadata `json:"metadata"`

	// Extraction quality, denormalized for list views.
	Completeness      string  `json:"completeness,omitempty"`
	OverallConfidence float64 `json:"overall_confidence,omitempty"`

	// ADSStorageKey points at the generated ADS PDF in object storage, set
	// once generation has run.
	ADSStorageKey string `json:"ads_storage_key,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ListFilter defines filtering options for listing applications.
type ListFilter struct {
	OwnerID uuid.UUID
	Status  Status
	Offset  int
	Limit   int
}
