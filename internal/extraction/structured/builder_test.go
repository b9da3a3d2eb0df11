package structured

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

type fakeLLM struct {
	prompt   string
	response string
	err      error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GenerateVisionJSON(ctx context.Context, system, prompt string, images [][]byte) (string, error) {
	return f.response, f.err
}

func sampleEvidence() evidence.DocumentEvidence {
	return evidence.DocumentEvidence{
		Method: evidence.MethodText,
		Title: evidence.FieldEvidence{
			Field: "title", RawText: "Quantum Widget", Confidence: evidence.ConfidenceHigh,
		},
		Inventors: []evidence.InventorEvidence{
			{Name: evidence.FieldEvidence{Field: "name", RawText: "Jane Q. Doe", Confidence: evidence.ConfidenceHigh}},
		},
	}
}

const builderResponse = `{
  "title": {"value": "Quantum Widget", "confidence": "High"},
  "application_type": {"value": "utility", "confidence": "medium"},
  "inventors": [
    {"given_name": {"value": "Jane", "confidence": "high"},
     "middle_name": {"value": "Q.", "confidence": "high"},
     "family_name": {"value": "Doe", "confidence": "high"},
     "street": {"value": "1 Main St", "confidence": "medium"},
     "city": {"value": "Springfield", "confidence": "medium"},
     "state": {"value": "IL", "confidence": "medium"},
     "country": {"value": "US", "confidence": "medium"},
     "residence_country": {"value": "US", "confidence": "medium"},
     "citizenship": {"value": "US", "confidence": "L"}}
  ],
  "applicants": [
    {"org_name": {"value": "TechCorp Inc.", "confidence": "high"},
     "applicant_type": {"value": "assignee", "confidence": "high"},
     "street": {"value": "200 Industry Way", "confidence": "medium"}}
  ]
}`

func TestBuildProducesStructuredResult(t *testing.T) {
	fake := &fakeLLM{response: builderResponse}
	b := NewBuilder(fake, logging.NewNop())

	res, err := b.Build(context.Background(), sampleEvidence())
	require.NoError(t, err)

	assert.Equal(t, "Quantum Widget", res.Title.Value)
	assert.Equal(t, evidence.ConfidenceHigh, res.Title.Confidence, "mixed-case labels normalize")
	require.Len(t, res.Inventors, 1)
	assert.Equal(t, "Jane Q. Doe", res.Inventors[0].FullName())
	assert.Equal(t, evidence.ConfidenceLow, res.Inventors[0].Citizenship.Confidence, "abbreviated labels normalize")
	assert.Equal(t, evidence.MethodText, res.Method)
	assert.False(t, res.ExtractedAt.IsZero())
	assert.Contains(t, fake.prompt, "Quantum Widget", "evidence summary is in the prompt")
}

func TestBuildComputesQuality(t *testing.T) {
	fake := &fakeLLM{response: builderResponse}
	b := NewBuilder(fake, logging.NewNop())

	res, err := b.Build(context.Background(), sampleEvidence())
	require.NoError(t, err)

	q := res.Quality
	assert.Greater(t, q.FieldsExpected, 0)
	assert.Greater(t, q.FieldsExtracted, 0)
	assert.Greater(t, q.OverallConfidence, 0.0)
	assert.LessOrEqual(t, q.OverallConfidence, 1.0)
	assert.Contains(t, q.LowConfidence, "inventor_1_citizenship")
	assert.NotEqual(t, Completeness(""), q.Completeness)
}

func TestBuildMalformedResponse(t *testing.T) {
	fake := &fakeLLM{response: "sorry, I cannot help with that"}
	b := NewBuilder(fake, logging.NewNop())

	_, err := b.Build(context.Background(), sampleEvidence())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMResponseMalformed))
}

func TestBuildEmptyEvidence(t *testing.T) {
	b := NewBuilder(&fakeLLM{}, logging.NewNop())

	_, err := b.Build(context.Background(), evidence.DocumentEvidence{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructuredBuildFailed))
}

func TestCompletenessGrades(t *testing.T) {
	full := &EnhancedExtractionResult{
		Title:                ConfidentValue{"Quantum Widget", evidence.ConfidenceHigh},
		ApplicationType:      ConfidentValue{"utility", evidence.ConfidenceHigh},
		AttorneyDocketNumber: ConfidentValue{"ACME-001", evidence.ConfidenceHigh},
		Inventors: []EnhancedInventor{{
			GivenName:        ConfidentValue{"Jane", evidence.ConfidenceHigh},
			FamilyName:       ConfidentValue{"Doe", evidence.ConfidenceHigh},
			Street:           ConfidentValue{"1 Main St", evidence.ConfidenceHigh},
			ResidenceCountry: ConfidentValue{"US", evidence.ConfidenceHigh},
			Citizenship:      ConfidentValue{"US", evidence.ConfidenceHigh},
		}},
	}
	full.ComputeQuality()
	assert.Equal(t, CompletenessComplete, full.Quality.Completeness)

	minimal := &EnhancedExtractionResult{
		Title: ConfidentValue{"Quantum Widget", evidence.ConfidenceLow},
	}
	minimal.ComputeQuality()
	assert.Equal(t, CompletenessMinimal, minimal.Quality.Completeness)
}
