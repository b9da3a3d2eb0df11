// Package fields provides the pure per-field validators used after structured
// extraction.  Each validator takes a raw string as it came back from the
// language model and returns a Result carrying the normalized value plus any
// errors and warnings.  Validators never mutate their input and never touch
// I/O; callers decide what to do with failures.
package fields

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Result is the outcome of validating a single field.
type Result struct {
	IsValid    bool     `json:"is_valid"`
	Normalized string   `json:"normalized_value"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

func valid(normalized string, warnings ...string) Result {
	return Result{IsValid: true, Normalized: normalized, Warnings: warnings}
}

func invalid(raw string, errs ...string) Result {
	return Result{IsValid: false, Normalized: raw, Errors: errs}
}

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	docketRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-/_]{0,24}$`)
	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	digitsRe = regexp.MustCompile(`\D`)
)

// ValidateName checks a personal name component (given, middle, or family
// name).  Normalization collapses internal whitespace and title-cases fully
// lower- or upper-cased input; mixed-case input is preserved as provided since
// names like "McDonald" or "van der Berg" are deliberate.
func ValidateName(raw string) Result {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return invalid(raw, "name is empty")
	}
	if len(name) > 100 {
		return invalid(raw, "name exceeds 100 characters")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && !strings.ContainsRune("'-.,", r) {
			return invalid(raw, fmt.Sprintf("name contains invalid character %q", r))
		}
	}

	var warnings []string
	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		name = titleCase(name)
		warnings = append(warnings, "name case normalized")
	}
	if hasDigit(raw) {
		return invalid(raw, "name contains digits")
	}
	return valid(name, warnings...)
}

// SplitNameSuffix detaches a recognized generational or professional suffix
// from a family-name string ("Smith Jr." → "Smith", "Jr.").  Returns the name
// unchanged with an empty suffix when none is present.
func SplitNameSuffix(familyName string) (name, suffix string) {
	parts := strings.Fields(familyName)
	if len(parts) < 2 {
		return familyName, ""
	}
	last := strings.ToUpper(parts[len(parts)-1])
	if _, ok := nameSuffixes[last]; ok {
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
	return familyName, ""
}

// ValidateState validates a state/province value for the given ISO country
// code.  For US addresses the value must resolve to a two-letter USPS code,
// either directly ("CA") or via the spelled-out name ("California").
// Non-US states pass through with only a length check, since the ADS free-text
// province field is not enumerable.
func ValidateState(raw, country string) Result {
	state := strings.TrimSpace(raw)
	if state == "" {
		return invalid(raw, "state is empty")
	}

	if !strings.EqualFold(country, "US") && !strings.EqualFold(country, "USA") {
		if len(state) > 60 {
			return invalid(raw, "province exceeds 60 characters")
		}
		return valid(state)
	}

	code := strings.ToUpper(state)
	if _, ok := usStates[code]; ok {
		return valid(code)
	}
	if c, ok := usStateNames[strings.ToUpper(state)]; ok {
		return valid(c, "state name expanded to USPS code")
	}
	return invalid(raw, fmt.Sprintf("unknown US state %q", state))
}

// ValidateEmail checks basic RFC-5322-shaped address syntax.  The regex is
// intentionally conservative; the ADS form itself performs no verification
// beyond shape.
func ValidateEmail(raw string) Result {
	email := strings.TrimSpace(raw)
	if email == "" {
		return invalid(raw, "email is empty")
	}
	if !emailRe.MatchString(email) {
		return invalid(raw, fmt.Sprintf("malformed email address %q", email))
	}
	return valid(strings.ToLower(email))
}

// ValidateDate parses a date in any of the accepted source layouts and
// normalizes to ISO 8601 (YYYY-MM-DD).  Dates more than a year in the future
// produce a warning: filing documents routinely carry near-future dates but a
// far-future one is almost always an OCR artifact.
func ValidateDate(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(raw, "date is empty")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		var warnings []string
		if t.After(time.Now().AddDate(1, 0, 0)) {
			warnings = append(warnings, "date is more than a year in the future")
		}
		if t.Year() < 1900 {
			return invalid(raw, fmt.Sprintf("implausible year %d", t.Year()))
		}
		return valid(t.Format("2006-01-02"), warnings...)
	}
	return invalid(raw, fmt.Sprintf("unparseable date %q", s))
}

// ValidatePhone normalizes a phone number to a loose E.164 form: digits only,
// prefixed with "+" and a country code.  Ten-digit numbers are assumed US and
// gain a +1 prefix; 11-digit numbers beginning with 1 likewise.  Anything
// shorter than 7 or longer than 15 digits is rejected.
func ValidatePhone(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(raw, "phone number is empty")
	}
	hadPlus := strings.HasPrefix(s, "+")
	digits := digitsRe.ReplaceAllString(s, "")
	if len(digits) < 7 {
		return invalid(raw, "phone number has too few digits")
	}
	if len(digits) > 15 {
		return invalid(raw, "phone number has too many digits")
	}

	switch {
	case hadPlus:
		return valid("+" + digits)
	case len(digits) == 10:
		return valid("+1"+digits, "assumed US country code")
	case len(digits) == 11 && digits[0] == '1':
		return valid("+" + digits)
	default:
		return valid("+"+digits, "country code not verified")
	}
}

// ValidateAttorneyDocketNumber checks the docket reference format.  The USPTO
// caps docket numbers at 25 characters drawn from letters, digits, and a small
// punctuation set.
func ValidateAttorneyDocketNumber(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(raw, "docket number is empty")
	}
	if !docketRe.MatchString(s) {
		return invalid(raw, fmt.Sprintf("docket number %q has invalid format", s))
	}
	return valid(s)
}

// ValidateZip validates a US postal code (ZIP or ZIP+4).  For non-US
// countries it only length-checks, as foreign postal code formats vary.
func ValidateZip(raw, country string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(raw, "postal code is empty")
	}
	if strings.EqualFold(country, "US") || strings.EqualFold(country, "USA") {
		if !zipRe.MatchString(s) {
			return invalid(raw, fmt.Sprintf("malformed US ZIP code %q", s))
		}
		return valid(s)
	}
	if len(s) > 12 {
		return invalid(raw, "postal code exceeds 12 characters")
	}
	return valid(s)
}

// ValidateCountry normalizes a country value to an upper-cased two-letter
// code when the input already looks like one, and maps the handful of
// spellings that dominate cover sheets.  Unrecognized multi-word values pass
// through with a warning rather than an error: the ADS country dropdown is
// large and a hard failure here would block otherwise-valid extractions.
func ValidateCountry(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(raw, "country is empty")
	}
	u := strings.ToUpper(s)
	switch u {
	case "US", "USA", "UNITED STATES", "UNITED STATES OF AMERICA":
		return valid("US")
	case "UK", "GB", "UNITED KINGDOM", "GREAT BRITAIN":
		return valid("GB")
	case "DE", "GERMANY":
		return valid("DE")
	case "JP", "JAPAN":
		return valid("JP")
	case "CN", "CHINA":
		return valid("CN")
	case "KR", "SOUTH KOREA", "REPUBLIC OF KOREA":
		return valid("KR")
	case "CA", "CANADA":
		return valid("CA")
	case "FR", "FRANCE":
		return valid("FR")
	}
	if len(u) == 2 && isAlpha(u) {
		return valid(u)
	}
	return valid(s, fmt.Sprintf("country %q not normalized to ISO code", s))
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// titleCase upper-cases the first letter of each space- or hyphen-separated
// word and lower-cases the rest.  Good enough for normalizing shouting OCR
// output; deliberate mixed case never reaches this path.
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '\'':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
