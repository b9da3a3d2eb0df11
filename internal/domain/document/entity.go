// Package document defines the uploaded-document aggregate: the source file
// a user submits for extraction, tracked from upload through processing.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks the document's progress through the pipeline.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusExtracted  Status = "extracted"
	StatusFailed     Status = "failed"
)

// Document is one uploaded source file.  The bytes live in object storage
// under StorageKey; only metadata is kept in the database.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	StorageKey  string     `json:"storage_key"`
	Status      Status     `json:"status"`
	FailReason  string     `json:"fail_reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// MarkProcessing transitions the document into the processing state.
func (d *Document) MarkProcessing() {
	d.Status = StatusProcessing
	d.FailReason = ""
}

// MarkExtracted records successful extraction.
func (d *Document) MarkExtracted() {
	d.Status = StatusExtracted
	d.FailReason = ""
}

// MarkFailed records a terminal processing failure.
func (d *Document) MarkFailed(reason string) {
	d.Status = StatusFailed
	d.FailReason = reason
}

// ListFilter defines filtering options for listing documents.
type ListFilter struct {
	OwnerID uuid.UUID
	Status  Status
	Offset  int
	Limit   int
}
