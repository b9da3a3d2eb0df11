// Package ads defines the canonical Application Data Sheet metadata shapes
// shared by the extraction pipeline, the persistence layer, and the XFA form
// builder.  These are the "legacy" flat types every consumer understands;
// the richer extraction-time types live in internal/extraction/structured.
package ads

import "time"

// ApplicationType enumerates the USPTO filing categories the ADS supports.
type ApplicationType string

const (
	ApplicationTypeUtility        ApplicationType = "utility"
	ApplicationTypeProvisional    ApplicationType = "provisional"
	ApplicationTypeDesign         ApplicationType = "design"
	ApplicationTypePlant          ApplicationType = "plant"
	ApplicationTypeReissue        ApplicationType = "reissue"
	ApplicationTypeNonProvisional ApplicationType = "nonprovisional"
)

// Inventor is one named inventor.  Inventor records carry only
// individual-person attributes; anything organization-shaped in these fields
// is a misclassification the entity separation validator flags.
type Inventor struct {
	GivenName  string `json:"given_name"`
	MiddleName string `json:"middle_name,omitempty"`
	FamilyName string `json:"family_name"`
	Suffix     string `json:"suffix,omitempty"`

	// Mailing address.
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`

	// Residence, which on the ADS may differ from the mailing address and
	// drives the US/non-US residency radio on the form.
	ResidenceCity    string `json:"residence_city,omitempty"`
	ResidenceState   string `json:"residence_state,omitempty"`
	ResidenceCountry string `json:"residence_country,omitempty"`

	Citizenship string `json:"citizenship,omitempty"`
}

// FullName renders the inventor's display name in given-middle-family order.
func (i Inventor) FullName() string {
	name := i.GivenName
	if i.MiddleName != "" {
		name += " " + i.MiddleName
	}
	if i.FamilyName != "" {
		name += " " + i.FamilyName
	}
	if i.Suffix != "" {
		name += " " + i.Suffix
	}
	return name
}

// ApplicantType enumerates the 37 CFR 1.46 applicant categories.
type ApplicantType string

const (
	ApplicantAssignee            ApplicantType = "assignee"
	ApplicantLegalRepresentative ApplicantType = "legal-representative"
	ApplicantObligatedAssignee   ApplicantType = "obligated-assignee"
	ApplicantSufficientInterest  ApplicantType = "applicant-under-37cfr1.46"
)

// Applicant is an organization (or legal entity) applying for the patent.
type Applicant struct {
	OrgName       string        `json:"org_name"`
	ApplicantType ApplicantType `json:"applicant_type,omitempty"`

	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Correspondence is the address the USPTO sends office actions to.
type Correspondence struct {
	Name           string `json:"name,omitempty"`
	CustomerNumber string `json:"customer_number,omitempty"`
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
	Country        string `json:"country,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// PriorityClaimType enumerates domestic benefit and foreign priority kinds.
type PriorityClaimType string

const (
	PriorityContinuation       PriorityClaimType = "continuation"
	PriorityContinuationInPart PriorityClaimType = "continuation-in-part"
	PriorityDivisional         PriorityClaimType = "divisional"
	PriorityProvisional        PriorityClaimType = "provisional"
	PriorityForeign            PriorityClaimType = "foreign"
)

// PriorityClaim is a single domestic-benefit or foreign-priority claim.
type PriorityClaim struct {
	ApplicationNumber string            `json:"application_number"`
	Country           string            `json:"country,omitempty"`
	FilingDate        string            `json:"filing_date,omitempty"` // ISO 8601
	ClaimType         PriorityClaimType `json:"claim_type"`
}

// PatentApplicationMetadata is the canonical persisted and exported shape.
// It is written to the applications table, returned by the REST API, and
// consumed by the XFA builder.
type PatentApplicationMetadata struct {
	Title                string          `json:"title"`
	ApplicationType      ApplicationType `json:"application_type,omitempty"`
	ApplicationNumber    string          `json:"application_number,omitempty"`
	AttorneyDocketNumber string          `json:"attorney_docket_number,omitempty"`

	Inventors  []Inventor  `json:"inventors"`
	Applicants []Applicant `json:"applicants,omitempty"`

	// ApplicantName/ApplicantType mirror the first applicant for consumers of
	// the older single-applicant layout.  Multi-applicant data is preserved in
	// Applicants; the flattening is recorded in ExtractionWarnings.
	ApplicantName     string        `json:"applicant_name,omitempty"`
	ApplicantTypeFlat ApplicantType `json:"applicant_type,omitempty"`

	Correspondence Correspondence  `json:"correspondence,omitempty"`
	PriorityClaims []PriorityClaim `json:"priority_claims,omitempty"`

	ExtractionWarnings []string `json:"extraction_warnings,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`

	ExtractedAt time.Time `json:"extracted_at,omitempty"`
}

// InventorCount returns the number of named inventors.
func (m PatentApplicationMetadata) InventorCount() int {
	return len(m.Inventors)
}

// HasApplicant reports whether at least one applicant organization is present.
func (m PatentApplicationMetadata) HasApplicant() bool {
	return len(m.Applicants) > 0 || m.ApplicantName != ""
}
