// Package evidence implements the first LLM stage of the extraction pipeline:
// asking the model to enumerate raw textual evidence for every target field,
// with source locations and confidence labels, before anything is structured.
// Responses from the model are loosely shaped and parsed defensively.
package evidence

import (
	"strconv"
	"strings"
)

// ConfidenceLevel is the canonical confidence label attached to a piece of
// evidence.  Models return these in wildly inconsistent casing and
// abbreviation; ParseConfidence normalizes all observed variants.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// ParseConfidence maps any reasonable spelling of a confidence label to the
// canonical enum: "High", "HIGH", "h", "med", "M", "LOW" all resolve.
// Unrecognized input resolves to ConfidenceUnknown rather than failing;
// a missing label must not abort an otherwise useful extraction.
func ParseConfidence(raw string) ConfidenceLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "h", "confident", "certain":
		return ConfidenceHigh
	case "medium", "med", "m", "moderate":
		return ConfidenceMedium
	case "low", "l", "uncertain", "guess":
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// Score converts the label to the numeric weight used when aggregating
// quality metrics.
func (c ConfidenceLevel) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.7
	case ConfidenceLow:
		return 0.4
	default:
		return 0.2
	}
}

// SourceLocation records where in the document a piece of evidence was found.
type SourceLocation struct {
	Page    int    `json:"page,omitempty"`
	Section string `json:"section,omitempty"`
}

// FieldEvidence is the raw text the model quoted for a single target field.
type FieldEvidence struct {
	Field      string          `json:"field"`
	RawText    string          `json:"raw_text"`
	Source     SourceLocation  `json:"source"`
	Confidence ConfidenceLevel `json:"confidence"`
}

// IsEmpty reports whether no usable text was captured.
func (f FieldEvidence) IsEmpty() bool {
	return strings.TrimSpace(f.RawText) == ""
}

// InventorEvidence groups the per-field evidence for one inventor candidate.
type InventorEvidence struct {
	Name        FieldEvidence `json:"name"`
	Address     FieldEvidence `json:"address"`
	Residence   FieldEvidence `json:"residence"`
	Citizenship FieldEvidence `json:"citizenship"`
}

// ApplicantEvidence groups the per-field evidence for one applicant candidate.
type ApplicantEvidence struct {
	OrgName FieldEvidence `json:"org_name"`
	Address FieldEvidence `json:"address"`
	Type    FieldEvidence `json:"type"`
}

// Method identifies which extraction strategy produced the evidence.
type Method string

const (
	MethodText          Method = "text"
	MethodFormFields    Method = "form_fields"
	MethodVision        Method = "vision"
	MethodChunkedVision Method = "chunked_vision"
)

// DocumentEvidence is the complete evidence set gathered for one document.
// It exists only for the duration of an extraction request and is discarded
// once the structured result has been built.
type DocumentEvidence struct {
	Method Method `json:"method"`

	Title             FieldEvidence `json:"title"`
	ApplicationNumber FieldEvidence `json:"application_number"`
	DocketNumber      FieldEvidence `json:"docket_number"`
	ApplicationType   FieldEvidence `json:"application_type"`

	Inventors  []InventorEvidence  `json:"inventors"`
	Applicants []ApplicantEvidence `json:"applicants"`

	Correspondence []FieldEvidence `json:"correspondence"`
	PriorityClaims []FieldEvidence `json:"priority_claims"`
}

// Summary flattens the evidence into the prompt text consumed by the
// structured result builder.  Empty fields are omitted to keep the prompt
// focused.
func (d DocumentEvidence) Summary() string {
	var sb strings.Builder
	writeField := func(label string, f FieldEvidence) {
		if f.IsEmpty() {
			return
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(f.RawText))
		if f.Source.Page > 0 {
			sb.WriteString(" [page ")
			sb.WriteString(strconv.Itoa(f.Source.Page))
			sb.WriteString("]")
		}
		sb.WriteString(" (confidence: ")
		sb.WriteString(string(f.Confidence))
		sb.WriteString(")\n")
	}

	writeField("TITLE", d.Title)
	writeField("APPLICATION NUMBER", d.ApplicationNumber)
	writeField("ATTORNEY DOCKET", d.DocketNumber)
	writeField("APPLICATION TYPE", d.ApplicationType)

	for i, inv := range d.Inventors {
		prefix := "INVENTOR " + strconv.Itoa(i+1) + " "
		writeField(prefix+"NAME", inv.Name)
		writeField(prefix+"ADDRESS", inv.Address)
		writeField(prefix+"RESIDENCE", inv.Residence)
		writeField(prefix+"CITIZENSHIP", inv.Citizenship)
	}
	for i, app := range d.Applicants {
		prefix := "APPLICANT " + strconv.Itoa(i+1) + " "
		writeField(prefix+"ORGANIZATION", app.OrgName)
		writeField(prefix+"ADDRESS", app.Address)
		writeField(prefix+"TYPE", app.Type)
	}
	for _, f := range d.Correspondence {
		writeField("CORRESPONDENCE "+strings.ToUpper(f.Field), f)
	}
	for i, f := range d.PriorityClaims {
		writeField("PRIORITY CLAIM "+strconv.Itoa(i+1), f)
	}
	return sb.String()
}
