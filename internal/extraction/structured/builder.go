package structured

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/infrastructure/llm"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

const builderSystemPrompt = `You are a patent paralegal converting gathered document evidence into a structured Application Data Sheet record. You work only from the evidence provided; you never invent values. Names must be split into given, middle, and family parts; addresses into street, city, state, zip, and country. Respond with JSON only, no prose.`

const builderShape = `Respond with a single JSON object of this exact shape. Every leaf is {"value": "...", "confidence": "high|medium|low"}; use an empty value when the evidence does not support one.
{
  "title": {"value": "...", "confidence": "..."},
  "application_type": {"value": "utility|provisional|design|plant|reissue", "confidence": "..."},
  "application_number": {"value": "...", "confidence": "..."},
  "attorney_docket_number": {"value": "...", "confidence": "..."},
  "inventors": [
    {"given_name": {...}, "middle_name": {...}, "family_name": {...}, "suffix": {...},
     "street": {...}, "city": {...}, "state": {...}, "zip": {...}, "country": {...},
     "residence_city": {...}, "residence_state": {...}, "residence_country": {...},
     "citizenship": {...}}
  ],
  "applicants": [
    {"org_name": {...}, "applicant_type": {"value": "assignee|legal-representative|obligated-assignee|applicant-under-37cfr1.46", "confidence": "..."},
     "street": {...}, "city": {...}, "state": {...}, "zip": {...}, "country": {...}}
  ],
  "correspondence": {"name": {...}, "customer_number": {...}, "street": {...}, "city": {...},
    "state": {...}, "zip": {...}, "country": {...}, "email": {...}, "phone": {...}},
  "priority_claims": [
    {"application_number": {...}, "country": {...}, "filing_date": {...},
     "claim_type": {"value": "continuation|continuation-in-part|divisional|provisional|foreign", "confidence": "..."}}
  ]
}

Rules:
- Split names carefully; the last token of a personal name is the family name
  unless the evidence says otherwise. Recognized suffixes (Jr., Sr., III) go
  in suffix.
- When residence is not separately stated, derive residence city, state, and
  country from the mailing address at medium confidence.
- Dates must be formatted as YYYY-MM-DD.
- Confidence of a derived or reformatted value is never higher than the
  confidence of the evidence it came from.`

// Builder runs the structured synthesis stage.
type Builder struct {
	client llm.Client
	logger logging.Logger
}

// NewBuilder constructs the structured result builder.
func NewBuilder(client llm.Client, logger logging.Logger) *Builder {
	return &Builder{client: client, logger: logger.Named("structured")}
}

// Build converts gathered evidence into an EnhancedExtractionResult.
func (b *Builder) Build(ctx context.Context, ev evidence.DocumentEvidence) (*EnhancedExtractionResult, error) {
	summary := ev.Summary()
	if strings.TrimSpace(summary) == "" {
		return nil, errors.New(errors.ErrCodeStructuredBuildFailed, "no evidence to structure")
	}

	var sb strings.Builder
	sb.WriteString("Convert the following gathered evidence into the structured record.\n\n")
	sb.WriteString(builderShape)
	sb.WriteString("\n\n--- GATHERED EVIDENCE ---\n")
	sb.WriteString(summary)

	raw, err := b.client.GenerateJSON(ctx, builderSystemPrompt, sb.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStructuredBuildFailed, "structured synthesis call failed")
	}

	var result EnhancedExtractionResult
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLLMResponseMalformed, "structured response is not valid JSON")
	}

	result.Method = ev.Method
	result.ExtractedAt = time.Now().UTC()
	normalizeConfidences(&result)
	result.ComputeQuality()

	b.logger.Info("structured result built",
		logging.String("completeness", string(result.Quality.Completeness)),
		logging.Float64("confidence", result.Quality.OverallConfidence),
		logging.Int("inventors", len(result.Inventors)),
	)
	return &result, nil
}

// normalizeConfidences re-parses every confidence label, since the model may
// answer with any casing regardless of instructions.
func normalizeConfidences(r *EnhancedExtractionResult) {
	fix := func(cv *ConfidentValue) {
		cv.Confidence = evidence.ParseConfidence(string(cv.Confidence))
	}
	fix(&r.Title)
	fix(&r.ApplicationType)
	fix(&r.ApplicationNumber)
	fix(&r.AttorneyDocketNumber)
	for i := range r.Inventors {
		inv := &r.Inventors[i]
		for _, cv := range []*ConfidentValue{
			&inv.GivenName, &inv.MiddleName, &inv.FamilyName, &inv.Suffix,
			&inv.Street, &inv.City, &inv.State, &inv.Zip, &inv.Country,
			&inv.ResidenceCity, &inv.ResidenceState, &inv.ResidenceCountry,
			&inv.Citizenship,
		} {
			fix(cv)
		}
	}
	for i := range r.Applicants {
		app := &r.Applicants[i]
		for _, cv := range []*ConfidentValue{
			&app.OrgName, &app.ApplicantType,
			&app.Street, &app.City, &app.State, &app.Zip, &app.Country,
		} {
			fix(cv)
		}
	}
	co := &r.Correspondence
	for _, cv := range []*ConfidentValue{
		&co.Name, &co.CustomerNumber, &co.Street, &co.City, &co.State,
		&co.Zip, &co.Country, &co.Email, &co.Phone,
	} {
		fix(cv)
	}
	for i := range r.PriorityClaims {
		pc := &r.PriorityClaims[i]
		for _, cv := range []*ConfidentValue{
			&pc.ApplicationNumber, &pc.Country, &pc.FilingDate, &pc.ClaimType,
		} {
			fix(cv)
		}
	}
}
