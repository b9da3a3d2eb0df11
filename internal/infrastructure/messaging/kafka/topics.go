// Package kafka publishes domain events for downstream consumers (docketing
// systems, notification services, analytics).
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/pkg/errors"
)

// Topic constants.  The configured topic prefix is prepended at publish time.
const (
	TopicDocumentUploaded    = "document.uploaded"
	TopicExtractionCompleted = "extraction.completed"
	TopicExtractionFailed    = "extraction.failed"
	TopicADSGenerated        = "ads.generated"
	TopicReportGenerated     = "report.generated"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// DocumentUploadedPayload announces a new source document.
type DocumentUploadedPayload struct {
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ExtractionCompletedPayload announces a finished extraction.
type ExtractionCompletedPayload struct {
	DocumentID        string    `json:"document_id"`
	ApplicationID     string    `json:"application_id"`
	Method            string    `json:"method"`
	Completeness      string    `json:"completeness"`
	OverallConfidence float64   `json:"overall_confidence"`
	CompletedAt       time.Time `json:"completed_at"`
}

// ExtractionFailedPayload announces a terminal extraction failure.
type ExtractionFailedPayload struct {
	DocumentID string    `json:"document_id"`
	JobID      string    `json:"job_id"`
	ErrorCode  string    `json:"error_code"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failed_at"`
}

// ADSGeneratedPayload announces a generated ADS PDF.
type ADSGeneratedPayload struct {
	ApplicationID string    `json:"application_id"`
	StorageKey    string    `json:"storage_key"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ReportGeneratedPayload announces a generated extraction report.
type ReportGeneratedPayload struct {
	ApplicationID string    `json:"application_id"`
	StorageKey    string    `json:"storage_key"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// NewEventEnvelope wraps a payload in the standard envelope.
func NewEventEnvelope(eventType, source string, payload any) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target any) error {
	if len(e.Payload) == 0 {
		return errors.New(errors.ErrCodeInternal, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to decode event payload")
	}
	return nil
}
