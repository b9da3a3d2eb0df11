package xfa

import (
	"encoding/xml"
	"strings"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// Builder maps validated application metadata onto the ADS datasets XML.
type Builder struct {
	logger logging.Logger
}

// NewBuilder constructs the XFA builder.
func NewBuilder(logger logging.Logger) *Builder {
	return &Builder{logger: logger.Named("xfa")}
}

// Build emits the datasets XML for the given metadata.  At least a title or
// one inventor is required; the form is useless without either.
func (b *Builder) Build(meta ads.PatentApplicationMetadata) ([]byte, error) {
	if strings.TrimSpace(meta.Title) == "" && len(meta.Inventors) == 0 {
		return nil, errors.New(errors.ErrCodeXFABuildFailed, "metadata has neither title nor inventors")
	}

	form := form1{
		ApplicationInfo: applicationInfo{
			TitleOfInvention:     meta.Title,
			ApplicationType:      applicationTypeLabel(meta.ApplicationType),
			ApplicationNumber:    meta.ApplicationNumber,
			AttorneyDocketNumber: meta.AttorneyDocketNumber,
		},
		// The representative block is emitted unconditionally; see the
		// package comment.
		InventorRepInfo: inventorRepInfo{
			CustomerNumber: meta.Correspondence.CustomerNumber,
		},
	}

	for _, inv := range meta.Inventors {
		form.Inventors = append(form.Inventors, buildInventor(inv))
	}

	for _, app := range applicantsOf(meta) {
		form.Applicants = append(form.Applicants, applicantBlock{
			ApplicantType: applicantTypeLabel(app.ApplicantType),
			OrgName:       app.OrgName,
			Mailing: addressBlock{
				Street:  app.Street,
				City:    app.City,
				State:   app.State,
				Zip:     app.Zip,
				Country: app.Country,
			},
		})
	}

	form.Correspondence = correspondenceBlk{
		CustomerNumber: meta.Correspondence.CustomerNumber,
		Name:           meta.Correspondence.Name,
		Mailing: addressBlock{
			Street:  meta.Correspondence.Street,
			City:    meta.Correspondence.City,
			State:   meta.Correspondence.State,
			Zip:     meta.Correspondence.Zip,
			Country: meta.Correspondence.Country,
		},
		Email: meta.Correspondence.Email,
		Phone: meta.Correspondence.Phone,
	}

	for _, pc := range meta.PriorityClaims {
		block := priorityBlock{
			ApplicationNumber: pc.ApplicationNumber,
			Country:           pc.Country,
			FilingDate:        pc.FilingDate,
			ContinuityType:    continuityTypeLabels[string(pc.ClaimType)],
		}
		if pc.ClaimType == ads.PriorityForeign {
			form.ForeignPriority = append(form.ForeignPriority, block)
		} else {
			form.DomesticBenefits = append(form.DomesticBenefits, block)
		}
	}

	out, err := xml.MarshalIndent(datasets{
		Xmlns: xfaNamespace,
		Data:  data{Form: form},
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeXFABuildFailed, "datasets marshalling failed")
	}

	b.logger.Info("ads datasets built",
		logging.Int("inventors", len(form.Inventors)),
		logging.Int("applicants", len(form.Applicants)),
		logging.Int("bytes", len(out)),
	)
	return append([]byte(xml.Header), out...), nil
}

func buildInventor(inv ads.Inventor) inventorBlock {
	// Residence falls back to the mailing address when not separately stated.
	resCity, resState, resCountry := inv.ResidenceCity, inv.ResidenceState, inv.ResidenceCountry
	if resCountry == "" {
		resCity, resState, resCountry = inv.City, inv.State, inv.Country
	}

	return inventorBlock{
		LegalName: legalName{
			GivenName:  inv.GivenName,
			MiddleName: inv.MiddleName,
			FamilyName: inv.FamilyName,
			Suffix:     inv.Suffix,
		},
		Mailing: addressBlock{
			Street:  inv.Street,
			City:    inv.City,
			State:   inv.State,
			Zip:     inv.Zip,
			Country: inv.Country,
		},
		Residence: residenceBlock{
			ResidencyRadio: residencyRadio(resCountry),
			City:           resCity,
			State:          resState,
			Country:        resCountry,
		},
		Citizenship: inv.Citizenship,
	}
}

// residencyRadio derives the US/non-US radio from the residence country
// alone.  Deriving it from citizenship is a known field-mapping mistake: a
// non-US citizen living in the US is a US resident on this form.
func residencyRadio(residenceCountry string) string {
	switch strings.ToUpper(strings.TrimSpace(residenceCountry)) {
	case "US", "USA", "UNITED STATES", "UNITED STATES OF AMERICA", "":
		return "us"
	default:
		return "non-us"
	}
}

// applicantsOf returns the applicant list, reconstructing it from the flat
// single-applicant fields when only those were populated.
func applicantsOf(meta ads.PatentApplicationMetadata) []ads.Applicant {
	if len(meta.Applicants) > 0 {
		return meta.Applicants
	}
	if meta.ApplicantName != "" {
		return []ads.Applicant{{
			OrgName:       meta.ApplicantName,
			ApplicantType: meta.ApplicantTypeFlat,
		}}
	}
	return nil
}

func applicantTypeLabel(t ads.ApplicantType) string {
	if label, ok := applicantTypeLabels[string(t)]; ok {
		return label
	}
	if t == "" {
		return "assignee"
	}
	return string(t)
}

func applicationTypeLabel(t ads.ApplicationType) string {
	switch t {
	case ads.ApplicationTypeNonProvisional, "":
		return "Nonprovisional"
	case ads.ApplicationTypeUtility:
		return "Nonprovisional"
	case ads.ApplicationTypeProvisional:
		return "Provisional"
	case ads.ApplicationTypeDesign:
		return "Design"
	case ads.ApplicationTypePlant:
		return "Plant"
	case ads.ApplicationTypeReissue:
		return "Reissue"
	default:
		return string(t)
	}
}
