package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/extraction/structured"
)

func cv(v string) structured.ConfidentValue {
	return structured.ConfidentValue{Value: v, Confidence: evidence.ConfidenceHigh}
}

func TestApplyNormalizesNames(t *testing.T) {
	result := &structured.EnhancedExtractionResult{
		Inventors: []structured.EnhancedInventor{{
			GivenName:  cv("  jane "),
			FamilyName: cv("DOE"),
			Country:    cv("US"),
		}},
	}

	sum := Apply(result)
	assert.False(t, sum.HasErrors())
	assert.Equal(t, "Jane", result.Inventors[0].GivenName.Value)
	assert.Equal(t, "Doe", result.Inventors[0].FamilyName.Value)
}

func TestApplyCollectsIssuesWithFieldPaths(t *testing.T) {
	result := &structured.EnhancedExtractionResult{
		Inventors: []structured.EnhancedInventor{{
			GivenName:  cv("Jane"),
			FamilyName: cv("Doe"),
			Country:    cv("US"),
			Zip:        cv("not-a-zip"),
		}},
		Correspondence: structured.EnhancedCorrespondence{
			Email: cv("not-an-email"),
		},
	}

	sum := Apply(result)
	assert.True(t, sum.HasErrors())

	var paths []string
	for _, issue := range sum.Issues {
		paths = append(paths, issue.Field)
	}
	assert.Contains(t, paths, "inventors[0].zip")
	assert.Contains(t, paths, "correspondence.email")
}

func TestApplySkipsEmptyFields(t *testing.T) {
	result := &structured.EnhancedExtractionResult{
		Inventors: []structured.EnhancedInventor{{
			GivenName:  cv("Jane"),
			FamilyName: cv("Doe"),
		}},
	}
	sum := Apply(result)
	assert.Empty(t, sum.Issues)
}

func TestApplyLeavesInvalidValuesAsExtracted(t *testing.T) {
	result := &structured.EnhancedExtractionResult{
		Correspondence: structured.EnhancedCorrespondence{
			Email: cv("broken@"),
		},
	}
	Apply(result)
	assert.Equal(t, "broken@", result.Correspondence.Email.Value)
}
