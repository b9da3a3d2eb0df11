package fields

import (
	"strconv"
	"strings"

	"github.com/adsforge/adsforge/pkg/types/ads"
)

// ApplyMetadata runs the field validators over canonical application
// metadata, normalizing valid values in place.  It serves reviewer edits and
// the CLI validate command, where there is no extraction-time structure to
// validate against.
func ApplyMetadata(meta *ads.PatentApplicationMetadata) Summary {
	var sum Summary

	check := func(field string, value *string, validate func(string) Result) {
		if value == nil || strings.TrimSpace(*value) == "" {
			return
		}
		res := validate(*value)
		if res.IsValid {
			*value = res.Normalized
		}
		if len(res.Errors) > 0 || len(res.Warnings) > 0 {
			sum.Issues = append(sum.Issues, FieldIssue{
				Field:    field,
				Value:    *value,
				Errors:   res.Errors,
				Warnings: res.Warnings,
			})
		}
	}

	if strings.TrimSpace(meta.Title) == "" {
		sum.Issues = append(sum.Issues, FieldIssue{
			Field:  "title",
			Errors: []string{"title is required"},
		})
	}
	check("attorney_docket_number", &meta.AttorneyDocketNumber, ValidateAttorneyDocketNumber)

	for idx := range meta.Inventors {
		inv := &meta.Inventors[idx]
		prefix := "inventors[" + strconv.Itoa(idx) + "]."
		check(prefix+"given_name", &inv.GivenName, ValidateName)
		check(prefix+"middle_name", &inv.MiddleName, ValidateName)
		check(prefix+"family_name", &inv.FamilyName, ValidateName)
		check(prefix+"country", &inv.Country, ValidateCountry)
		check(prefix+"residence_country", &inv.ResidenceCountry, ValidateCountry)
		check(prefix+"citizenship", &inv.Citizenship, ValidateCountry)
		check(prefix+"state", &inv.State, func(raw string) Result {
			return ValidateState(raw, inv.Country)
		})
		check(prefix+"residence_state", &inv.ResidenceState, func(raw string) Result {
			return ValidateState(raw, inv.ResidenceCountry)
		})
		check(prefix+"zip", &inv.Zip, func(raw string) Result {
			return ValidateZip(raw, inv.Country)
		})
	}

	for idx := range meta.Applicants {
		app := &meta.Applicants[idx]
		prefix := "applicants[" + strconv.Itoa(idx) + "]."
		if strings.TrimSpace(app.OrgName) == "" {
			sum.Issues = append(sum.Issues, FieldIssue{
				Field:  prefix + "org_name",
				Errors: []string{"organization name is required"},
			})
		}
		check(prefix+"country", &app.Country, ValidateCountry)
		check(prefix+"state", &app.State, func(raw string) Result {
			return ValidateState(raw, app.Country)
		})
		check(prefix+"zip", &app.Zip, func(raw string) Result {
			return ValidateZip(raw, app.Country)
		})
	}

	c := &meta.Correspondence
	check("correspondence.email", &c.Email, ValidateEmail)
	check("correspondence.phone", &c.Phone, ValidatePhone)
	check("correspondence.country", &c.Country, ValidateCountry)
	check("correspondence.state", &c.State, func(raw string) Result {
		return ValidateState(raw, c.Country)
	})
	check("correspondence.zip", &c.Zip, func(raw string) Result {
		return ValidateZip(raw, c.Country)
	})

	for idx := range meta.PriorityClaims {
		pc := &meta.PriorityClaims[idx]
		prefix := "priority_claims[" + strconv.Itoa(idx) + "]."
		check(prefix+"filing_date", &pc.FilingDate, ValidateDate)
		check(prefix+"country", &pc.Country, ValidateCountry)
		if strings.TrimSpace(pc.ApplicationNumber) == "" {
			sum.Issues = append(sum.Issues, FieldIssue{
				Field:  prefix + "application_number",
				Errors: []string{"application number is required"},
			})
		}
	}

	return sum
}
