package fields

import (
	"strconv"

	"github.com/adsforge/adsforge/internal/extraction/structured"
)

// FieldIssue ties a validation failure to the field it came from.
type FieldIssue struct {
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Summary aggregates the outcome of a full validation pass.
type Summary struct {
	Issues []FieldIssue `json:"issues,omitempty"`
}

// HasErrors reports whether any field failed outright.
func (s Summary) HasErrors() bool {
	for _, i := range s.Issues {
		if len(i.Errors) > 0 {
			return true
		}
	}
	return false
}

// Apply runs every applicable validator over the extraction result,
// normalizing values in place and collecting per-field issues.  Invalid
// values are left as extracted so the review UI can show what the model saw.
func Apply(result *structured.EnhancedExtractionResult) Summary {
	var sum Summary

	check := func(field string, value *structured.ConfidentValue, validate func(string) Result) {
		if value == nil || !value.IsSet() {
			return
		}
		res := validate(value.Value)
		if res.IsValid {
			value.Value = res.Normalized
		}
		if len(res.Errors) > 0 || len(res.Warnings) > 0 {
			sum.Issues = append(sum.Issues, FieldIssue{
				Field:    field,
				Value:    value.Value,
				Errors:   res.Errors,
				Warnings: res.Warnings,
			})
		}
	}

	for idx := range result.Inventors {
		inv := &result.Inventors[idx]
		prefix := "inventors[" + strconv.Itoa(idx) + "]."
		check(prefix+"given_name", &inv.GivenName, ValidateName)
		check(prefix+"middle_name", &inv.MiddleName, ValidateName)
		check(prefix+"family_name", &inv.FamilyName, ValidateName)
		check(prefix+"country", &inv.Country, ValidateCountry)
		check(prefix+"citizenship", &inv.Citizenship, ValidateCountry)
		check(prefix+"residence_country", &inv.ResidenceCountry, ValidateCountry)
		check(prefix+"state", &inv.State, func(raw string) Result {
			return ValidateState(raw, inv.Country.Value)
		})
		check(prefix+"residence_state", &inv.ResidenceState, func(raw string) Result {
			return ValidateState(raw, inv.ResidenceCountry.Value)
		})
		check(prefix+"zip", &inv.Zip, func(raw string) Result {
			return ValidateZip(raw, inv.Country.Value)
		})
	}

	for idx := range result.Applicants {
		app := &result.Applicants[idx]
		prefix := "applicants[" + strconv.Itoa(idx) + "]."
		check(prefix+"country", &app.Country, ValidateCountry)
		check(prefix+"state", &app.State, func(raw string) Result {
			return ValidateState(raw, app.Country.Value)
		})
		check(prefix+"zip", &app.Zip, func(raw string) Result {
			return ValidateZip(raw, app.Country.Value)
		})
	}

	corr := &result.Correspondence
	check("correspondence.email", &corr.Email, ValidateEmail)
	check("correspondence.phone", &corr.Phone, ValidatePhone)
	check("correspondence.country", &corr.Country, ValidateCountry)
	check("correspondence.state", &corr.State, func(raw string) Result {
		return ValidateState(raw, corr.Country.Value)
	})
	check("correspondence.zip", &corr.Zip, func(raw string) Result {
		return ValidateZip(raw, corr.Country.Value)
	})

	check("attorney_docket_number", &result.AttorneyDocketNumber, ValidateAttorneyDocketNumber)

	for idx := range result.PriorityClaims {
		pc := &result.PriorityClaims[idx]
		prefix := "priority_claims[" + strconv.Itoa(idx) + "]."
		check(prefix+"filing_date", &pc.FilingDate, ValidateDate)
		check(prefix+"country", &pc.Country, ValidateCountry)
	}

	return sum
}
