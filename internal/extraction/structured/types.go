// Package structured implements the second LLM stage: turning gathered
// evidence into a typed, field-complete extraction result with per-field
// confidence and quality metrics.
package structured

import (
	"strconv"
	"time"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
)

// Completeness grades how much of the expected bibliographic data was
// recovered.
type Completeness string

const (
	CompletenessComplete Completeness = "complete"
	CompletenessPartial  Completeness = "partial"
	CompletenessMinimal  Completeness = "minimal"
)

// ConfidentValue pairs an extracted value with the confidence the model
// assigned to it.
type ConfidentValue struct {
	Value      string                   `json:"value"`
	Confidence evidence.ConfidenceLevel `json:"confidence"`
}

// IsSet reports whether a value was extracted at all.
func (c ConfidentValue) IsSet() bool { return c.Value != "" }

// EnhancedInventor is the extraction-time inventor shape: name already split
// into parts, addresses decomposed, everything confidence-tagged.
type EnhancedInventor struct {
	GivenName  ConfidentValue `json:"given_name"`
	MiddleName ConfidentValue `json:"middle_name"`
	FamilyName ConfidentValue `json:"family_name"`
	Suffix     ConfidentValue `json:"suffix"`

	Street  ConfidentValue `json:"street"`
	City    ConfidentValue `json:"city"`
	State   ConfidentValue `json:"state"`
	Zip     ConfidentValue `json:"zip"`
	Country ConfidentValue `json:"country"`

	ResidenceCity    ConfidentValue `json:"residence_city"`
	ResidenceState   ConfidentValue `json:"residence_state"`
	ResidenceCountry ConfidentValue `json:"residence_country"`

	Citizenship ConfidentValue `json:"citizenship"`
}

// FullName renders the display name from the split parts.
func (i EnhancedInventor) FullName() string {
	name := i.GivenName.Value
	for _, part := range []string{i.MiddleName.Value, i.FamilyName.Value, i.Suffix.Value} {
		if part != "" {
			if name != "" {
				name += " "
			}
			name += part
		}
	}
	return name
}

// EnhancedApplicant is the extraction-time applicant organization shape.
type EnhancedApplicant struct {
	OrgName       ConfidentValue `json:"org_name"`
	ApplicantType ConfidentValue `json:"applicant_type"`

	Street  ConfidentValue `json:"street"`
	City    ConfidentValue `json:"city"`
	State   ConfidentValue `json:"state"`
	Zip     ConfidentValue `json:"zip"`
	Country ConfidentValue `json:"country"`
}

// EnhancedCorrespondence is the extraction-time correspondence address.
type EnhancedCorrespondence struct {
	Name           ConfidentValue `json:"name"`
	CustomerNumber ConfidentValue `json:"customer_number"`
	Street         ConfidentValue `json:"street"`
	City           ConfidentValue `json:"city"`
	State          ConfidentValue `json:"state"`
	Zip            ConfidentValue `json:"zip"`
	Country        ConfidentValue `json:"country"`
	Email          ConfidentValue `json:"email"`
	Phone          ConfidentValue `json:"phone"`
}

// EnhancedPriorityClaim is one decomposed priority or benefit claim.
type EnhancedPriorityClaim struct {
	ApplicationNumber ConfidentValue `json:"application_number"`
	Country           ConfidentValue `json:"country"`
	FilingDate        ConfidentValue `json:"filing_date"`
	ClaimType         ConfidentValue `json:"claim_type"`
}

// QualityMetrics summarizes extraction quality for reporting and for the
// decision whether human review is required.
type QualityMetrics struct {
	Completeness      Completeness `json:"completeness"`
	OverallConfidence float64      `json:"overall_confidence"` // 0..1
	FieldsExtracted   int          `json:"fields_extracted"`
	FieldsExpected    int          `json:"fields_expected"`
	LowConfidence     []string     `json:"low_confidence_fields,omitempty"`
}

// EnhancedExtractionResult is the full output of the structured build stage,
// before validation runs.
type EnhancedExtractionResult struct {
	Title                ConfidentValue `json:"title"`
	ApplicationType      ConfidentValue `json:"application_type"`
	ApplicationNumber    ConfidentValue `json:"application_number"`
	AttorneyDocketNumber ConfidentValue `json:"attorney_docket_number"`

	Inventors  []EnhancedInventor  `json:"inventors"`
	Applicants []EnhancedApplicant `json:"applicants"`

	Correspondence EnhancedCorrespondence  `json:"correspondence"`
	PriorityClaims []EnhancedPriorityClaim `json:"priority_claims"`

	Method  evidence.Method `json:"extraction_method"`
	Quality QualityMetrics  `json:"quality"`

	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	ExtractedAt time.Time `json:"extracted_at"`
}

// ComputeQuality fills the Quality block from the extracted fields.  Expected
// fields are the scalar header fields plus name, address, residence, and
// citizenship for each inventor found.
func (r *EnhancedExtractionResult) ComputeQuality() {
	type scored struct {
		name string
		cv   ConfidentValue
	}
	fields := []scored{
		{"title", r.Title},
		{"application_type", r.ApplicationType},
		{"attorney_docket_number", r.AttorneyDocketNumber},
	}
	for i, inv := range r.Inventors {
		prefix := "inventor_" + strconv.Itoa(i+1) + "_"
		fields = append(fields,
			scored{prefix + "name", ConfidentValue{inv.FullName(), inv.FamilyName.Confidence}},
			scored{prefix + "address", inv.Street},
			scored{prefix + "residence", inv.ResidenceCountry},
			scored{prefix + "citizenship", inv.Citizenship},
		)
	}
	for i, app := range r.Applicants {
		prefix := "applicant_" + strconv.Itoa(i+1) + "_"
		fields = append(fields,
			scored{prefix + "org_name", app.OrgName},
			scored{prefix + "address", app.Street},
		)
	}

	var extracted int
	var confSum float64
	var low []string
	for _, f := range fields {
		if !f.cv.IsSet() {
			continue
		}
		extracted++
		score := f.cv.Confidence.Score()
		confSum += score
		if score < evidence.ConfidenceMedium.Score() {
			low = append(low, f.name)
		}
	}

	r.Quality.FieldsExpected = len(fields)
	r.Quality.FieldsExtracted = extracted
	if extracted > 0 {
		r.Quality.OverallConfidence = confSum / float64(extracted)
	}
	r.Quality.LowConfidence = low

	ratio := 0.0
	if len(fields) > 0 {
		ratio = float64(extracted) / float64(len(fields))
	}
	switch {
	case ratio >= 0.85 && len(r.Inventors) > 0 && r.Title.IsSet():
		r.Quality.Completeness = CompletenessComplete
	case ratio >= 0.4:
		r.Quality.Completeness = CompletenessPartial
	default:
		r.Quality.Completeness = CompletenessMinimal
	}
}
