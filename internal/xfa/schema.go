// Package xfa builds the XML datasets packet for the USPTO Application Data
// Sheet form.  The form's schema is fixed and undocumented; the element names
// and structure here were verified empirically against forms produced by
// USPTO tooling, and several mappings are deliberate corrections to naive
// field mapping (residency derives from residence country, not citizenship;
// the inventor representative block must always be present even when empty).
package xfa

import "encoding/xml"

// datasets is the root of the XFA data packet.
type datasets struct {
	XMLName xml.Name `xml:"xfa:datasets"`
	Xmlns   string   `xml:"xmlns:xfa,attr"`
	Data    data     `xml:"xfa:data"`
}

type data struct {
	Form form1 `xml:"Form1"`
}

type form1 struct {
	ApplicationInfo  applicationInfo   `xml:"sfApplicationInfo"`
	Inventors        []inventorBlock   `xml:"sfInventorInfo"`
	InventorRepInfo  inventorRepInfo   `xml:"sfInventorRepInfo"`
	Applicants       []applicantBlock  `xml:"sfApplicantInfo"`
	Correspondence   correspondenceBlk `xml:"sfCorrespondenceInfo"`
	DomesticBenefits []priorityBlock   `xml:"sfDomesticBenefit"`
	ForeignPriority  []priorityBlock   `xml:"sfForeignPriority"`
}

type applicationInfo struct {
	TitleOfInvention     string `xml:"TitleOfInvention"`
	ApplicationType      string `xml:"ApplicationTypeDropDown"`
	ApplicationNumber    string `xml:"ApplicationNumber,omitempty"`
	AttorneyDocketNumber string `xml:"AttorneyDocketNumber,omitempty"`
}

type inventorBlock struct {
	LegalName   legalName      `xml:"sfLegalName"`
	Mailing     addressBlock   `xml:"sfMailingAddress"`
	Residence   residenceBlock `xml:"sfResidenceInfo"`
	Citizenship string         `xml:"CitizedDropDown,omitempty"`
}

type legalName struct {
	Prefix     string `xml:"PrefixDropDown,omitempty"`
	GivenName  string `xml:"FirstName"`
	MiddleName string `xml:"MiddleName,omitempty"`
	FamilyName string `xml:"LastName"`
	Suffix     string `xml:"SuffixDropDown,omitempty"`
}

type addressBlock struct {
	Street  string `xml:"AddressLineOne,omitempty"`
	City    string `xml:"City,omitempty"`
	State   string `xml:"StateDropDown,omitempty"`
	Zip     string `xml:"PostalCode,omitempty"`
	Country string `xml:"CountryDropDown,omitempty"`
}

// residenceBlock carries the US/non-US residency radio.  The radio value is
// derived from the residence country; citizenship has no bearing on it.
type residenceBlock struct {
	ResidencyRadio string `xml:"ResidencyRadio"` // "us" or "non-us"
	City           string `xml:"City,omitempty"`
	State          string `xml:"StateDropDown,omitempty"`
	Country        string `xml:"CountryDropDown,omitempty"`
}

// inventorRepInfo is emitted even when no representative is named; USPTO
// tooling rejects datasets missing the block entirely.
type inventorRepInfo struct {
	CustomerNumber string `xml:"CustomerNumber,omitempty"`
}

type applicantBlock struct {
	ApplicantType string       `xml:"ApplicantTypeDropDown"`
	OrgName       string       `xml:"OrganizationName"`
	Mailing       addressBlock `xml:"sfMailingAddress"`
}

type correspondenceBlk struct {
	CustomerNumber string       `xml:"CustomerNumber,omitempty"`
	Name           string       `xml:"NameLineOne,omitempty"`
	Mailing        addressBlock `xml:"sfMailingAddress"`
	Email          string       `xml:"EmailAddress,omitempty"`
	Phone          string       `xml:"PhoneNumber,omitempty"`
}

type priorityBlock struct {
	ApplicationNumber string `xml:"ApplicationNumber"`
	Country           string `xml:"CountryDropDown,omitempty"`
	FilingDate        string `xml:"FilingDate,omitempty"`
	ContinuityType    string `xml:"ContinuityTypeDropDown,omitempty"`
}

const xfaNamespace = "http://www.xfa.org/schema/xfa-data/1.0/"

// applicant type labels the form's dropdown accepts.
var applicantTypeLabels = map[string]string{
	"assignee":                  "assignee",
	"legal-representative":      "legal-representative",
	"obligated-assignee":        "obligated-assignee",
	"applicant-under-37cfr1.46": "applicant-under-rule-46",
}

// continuity type labels for the domestic-benefit dropdown.
var continuityTypeLabels = map[string]string{
	"continuation":         "Continuation of",
	"continuation-in-part": "Continuation in part of",
	"divisional":           "Division of",
	"provisional":          "Claims benefit of provisional",
}
