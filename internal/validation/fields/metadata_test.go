package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/pkg/types/ads"
)

func TestApplyMetadataNormalizesInPlace(t *testing.T) {
	meta := &ads.PatentApplicationMetadata{
		Title: "Widget Frobnicator",
		Inventors: []ads.Inventor{{
			GivenName:  "  jane ",
			FamilyName: "DOE",
			Country:    "United States",
			Zip:        "02139",
		}},
	}

	sum := ApplyMetadata(meta)
	assert.False(t, sum.HasErrors())
	assert.Equal(t, "Jane", meta.Inventors[0].GivenName)
	assert.Equal(t, "Doe", meta.Inventors[0].FamilyName)
	assert.Equal(t, "US", meta.Inventors[0].Country)
}

func TestApplyMetadataRequiresTitle(t *testing.T) {
	meta := &ads.PatentApplicationMetadata{
		Inventors: []ads.Inventor{{GivenName: "Jane", FamilyName: "Doe"}},
	}

	sum := ApplyMetadata(meta)
	require.True(t, sum.HasErrors())
	assert.Equal(t, "title", sum.Issues[0].Field)
}

func TestApplyMetadataCollectsIssuesWithPaths(t *testing.T) {
	meta := &ads.PatentApplicationMetadata{
		Title: "Widget Frobnicator",
		Inventors: []ads.Inventor{{
			GivenName:  "Jane",
			FamilyName: "Doe",
			Country:    "US",
			Zip:        "not-a-zip",
		}},
		Applicants: []ads.Applicant{{
			Country: "US",
		}},
		Correspondence: ads.Correspondence{
			Email: "broken@",
		},
		PriorityClaims: []ads.PriorityClaim{{
			FilingDate: "2025-03-01",
			Country:    "US",
		}},
	}

	sum := ApplyMetadata(meta)
	require.True(t, sum.HasErrors())

	var paths []string
	for _, issue := range sum.Issues {
		paths = append(paths, issue.Field)
	}
	assert.Contains(t, paths, "inventors[0].zip")
	assert.Contains(t, paths, "applicants[0].org_name")
	assert.Contains(t, paths, "correspondence.email")
	assert.Contains(t, paths, "priority_claims[0].application_number")
}

func TestApplyMetadataSkipsEmptyOptionalFields(t *testing.T) {
	meta := &ads.PatentApplicationMetadata{
		Title:     "Widget Frobnicator",
		Inventors: []ads.Inventor{{GivenName: "Jane", FamilyName: "Doe"}},
	}
	sum := ApplyMetadata(meta)
	assert.Empty(t, sum.Issues)
}
