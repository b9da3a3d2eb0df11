package structured

import (
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// ToApplicationMetadata converts the extraction-time result to the canonical
// persisted shape.  The conversion is lossy by design (confidence tags and
// quality internals are dropped) but never loses the title, the inventor
// list, or applicant organization names.  Multi-applicant data stays in
// Applicants while the first applicant is also mirrored into the flat
// single-applicant fields, with a warning recorded.
func (r *EnhancedExtractionResult) ToApplicationMetadata() ads.PatentApplicationMetadata {
	meta := ads.PatentApplicationMetadata{
		Title:                r.Title.Value,
		ApplicationType:      ads.ApplicationType(r.ApplicationType.Value),
		ApplicationNumber:    r.ApplicationNumber.Value,
		AttorneyDocketNumber: r.AttorneyDocketNumber.Value,
		ExtractedAt:          r.ExtractedAt,
	}

	for _, inv := range r.Inventors {
		meta.Inventors = append(meta.Inventors, ads.Inventor{
			GivenName:  inv.GivenName.Value,
			MiddleName: inv.MiddleName.Value,
			FamilyName: inv.FamilyName.Value,
			Suffix:     inv.Suffix.Value,

			Street:  inv.Street.Value,
			City:    inv.City.Value,
			State:   inv.State.Value,
			Zip:     inv.Zip.Value,
			Country: inv.Country.Value,

			ResidenceCity:    inv.ResidenceCity.Value,
			ResidenceState:   inv.ResidenceState.Value,
			ResidenceCountry: inv.ResidenceCountry.Value,

			Citizenship: inv.Citizenship.Value,
		})
	}

	for _, app := range r.Applicants {
		meta.Applicants = append(meta.Applicants, ads.Applicant{
			OrgName:       app.OrgName.Value,
			ApplicantType: ads.ApplicantType(app.ApplicantType.Value),
			Street:        app.Street.Value,
			City:          app.City.Value,
			State:         app.State.Value,
			Zip:           app.Zip.Value,
			Country:       app.Country.Value,
		})
	}
	if len(meta.Applicants) > 0 {
		meta.ApplicantName = meta.Applicants[0].OrgName
		meta.ApplicantTypeFlat = meta.Applicants[0].ApplicantType
		if len(meta.Applicants) > 1 {
			meta.ExtractionWarnings = append(meta.ExtractionWarnings,
				"multiple applicants extracted; flat applicant fields mirror the first")
		}
	}

	co := r.Correspondence
	meta.Correspondence = ads.Correspondence{
		Name:           co.Name.Value,
		CustomerNumber: co.CustomerNumber.Value,
		Street:         co.Street.Value,
		City:           co.City.Value,
		State:          co.State.Value,
		Zip:            co.Zip.Value,
		Country:        co.Country.Value,
		Email:          co.Email.Value,
		Phone:          co.Phone.Value,
	}

	for _, pc := range r.PriorityClaims {
		meta.PriorityClaims = append(meta.PriorityClaims, ads.PriorityClaim{
			ApplicationNumber: pc.ApplicationNumber.Value,
			Country:           pc.Country.Value,
			FilingDate:        pc.FilingDate.Value,
			ClaimType:         ads.PriorityClaimType(pc.ClaimType.Value),
		})
	}

	meta.ExtractionWarnings = append(meta.ExtractionWarnings, r.Warnings...)
	meta.Recommendations = append(meta.Recommendations, r.Recommendations...)
	return meta
}
