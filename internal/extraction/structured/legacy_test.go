package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

func enhancedFixture() *EnhancedExtractionResult {
	return &EnhancedExtractionResult{
		Title:                ConfidentValue{"Quantum Widget", evidence.ConfidenceHigh},
		ApplicationType:      ConfidentValue{"utility", evidence.ConfidenceHigh},
		AttorneyDocketNumber: ConfidentValue{"ACME-001.US", evidence.ConfidenceHigh},
		Inventors: []EnhancedInventor{
			{
				GivenName:        ConfidentValue{"Jane", evidence.ConfidenceHigh},
				FamilyName:       ConfidentValue{"Doe", evidence.ConfidenceHigh},
				City:             ConfidentValue{"Springfield", evidence.ConfidenceMedium},
				State:            ConfidentValue{"IL", evidence.ConfidenceMedium},
				Country:          ConfidentValue{"US", evidence.ConfidenceMedium},
				ResidenceCountry: ConfidentValue{"US", evidence.ConfidenceMedium},
				Citizenship:      ConfidentValue{"US", evidence.ConfidenceLow},
			},
			{
				GivenName:  ConfidentValue{"John", evidence.ConfidenceHigh},
				FamilyName: ConfidentValue{"Public", evidence.ConfidenceHigh},
			},
		},
		Applicants: []EnhancedApplicant{
			{
				OrgName:       ConfidentValue{"TechCorp Inc.", evidence.ConfidenceHigh},
				ApplicantType: ConfidentValue{"assignee", evidence.ConfidenceHigh},
			},
			{
				OrgName:       ConfidentValue{"Widget Holdings LLC", evidence.ConfidenceMedium},
				ApplicantType: ConfidentValue{"obligated-assignee", evidence.ConfidenceMedium},
			},
		},
		PriorityClaims: []EnhancedPriorityClaim{
			{
				ApplicationNumber: ConfidentValue{"63/111,222", evidence.ConfidenceHigh},
				FilingDate:        ConfidentValue{"2023-03-15", evidence.ConfidenceHigh},
				ClaimType:         ConfidentValue{"provisional", evidence.ConfidenceHigh},
			},
		},
	}
}

func TestToApplicationMetadataPreservesCoreFields(t *testing.T) {
	meta := enhancedFixture().ToApplicationMetadata()

	assert.Equal(t, "Quantum Widget", meta.Title)
	assert.Equal(t, ads.ApplicationTypeUtility, meta.ApplicationType)
	assert.Equal(t, "ACME-001.US", meta.AttorneyDocketNumber)
	require.Len(t, meta.Inventors, 2, "inventor count must survive conversion")
	assert.Equal(t, "Jane Doe", meta.Inventors[0].FullName())
	assert.Equal(t, "US", meta.Inventors[0].ResidenceCountry)
}

func TestToApplicationMetadataKeepsAllApplicants(t *testing.T) {
	meta := enhancedFixture().ToApplicationMetadata()

	require.Len(t, meta.Applicants, 2, "org names must survive conversion")
	assert.Equal(t, "TechCorp Inc.", meta.Applicants[0].OrgName)
	assert.Equal(t, "Widget Holdings LLC", meta.Applicants[1].OrgName)

	assert.Equal(t, "TechCorp Inc.", meta.ApplicantName, "flat fields mirror first applicant")
	assert.Equal(t, ads.ApplicantAssignee, meta.ApplicantTypeFlat)
	assert.NotEmpty(t, meta.ExtractionWarnings, "flattening of multiple applicants is recorded")
}

func TestToApplicationMetadataSingleApplicantNoWarning(t *testing.T) {
	r := enhancedFixture()
	r.Applicants = r.Applicants[:1]
	meta := r.ToApplicationMetadata()

	assert.Equal(t, "TechCorp Inc.", meta.ApplicantName)
	assert.Empty(t, meta.ExtractionWarnings)
}

func TestToApplicationMetadataPriorityClaims(t *testing.T) {
	meta := enhancedFixture().ToApplicationMetadata()

	require.Len(t, meta.PriorityClaims, 1)
	assert.Equal(t, "63/111,222", meta.PriorityClaims[0].ApplicationNumber)
	assert.Equal(t, ads.PriorityProvisional, meta.PriorityClaims[0].ClaimType)
}
