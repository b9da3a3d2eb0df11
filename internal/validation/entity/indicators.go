// Package entity validates the separation between inventors (natural
// persons) and applicants (organizations) in an extraction result.  Models
// occasionally put a company name in an inventor slot or an individual in an
// applicant slot; this package detects the contamination and can repair it.
package entity

import "strings"

// corporateIndicators are tokens that mark a name as organization-shaped.
// Matching is token-wise and case-insensitive, so "Incline Village" does not
// trip on "inc".
var corporateIndicators = []string{
	"inc", "inc.", "incorporated",
	"llc", "l.l.c", "llp", "l.l.p",
	"corp", "corp.", "corporation",
	"co", "co.", "company",
	"ltd", "ltd.", "limited",
	"gmbh", "ag", "sa", "s.a", "bv", "b.v", "nv", "n.v",
	"plc", "pty", "kk", "k.k", "kabushiki", "kaisha",
	"university", "institute", "foundation", "laboratories", "labs",
	"technologies", "holdings", "ventures", "partners", "enterprises",
	"group", "industries", "systems", "solutions",
}

// businessAddressIndicators are address tokens that suggest a commercial
// rather than residential address.  They produce warnings, not errors,
// because people do live in buildings with suites.
var businessAddressIndicators = []string{
	"suite", "ste", "ste.",
	"floor", "fl", "fl.",
	"plaza", "tower", "towers",
	"building", "bldg", "bldg.",
	"office", "park", "campus",
	"dept", "department", "division",
	"c/o", "attn", "attention",
}

// personNameIndicators are tokens that mark an applicant name as a natural
// person rather than an organization, e.g. a bare "John Smith" in an
// applicant slot.
var personTitleIndicators = []string{
	"mr", "mr.", "mrs", "mrs.", "ms", "ms.", "dr", "dr.", "prof", "prof.",
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(strings.NewReplacer(",", " ", ";", " ", "(", " ", ")", " ").Replace(s)))
}

func containsToken(tokens []string, indicators []string) (string, bool) {
	for _, tok := range tokens {
		trimmed := strings.TrimRight(tok, ".")
		for _, ind := range indicators {
			if tok == ind || trimmed == strings.TrimRight(ind, ".") {
				return tok, true
			}
		}
	}
	return "", false
}

// LooksCorporate reports whether a name contains a corporate indicator token,
// returning the offending token.
func LooksCorporate(name string) (string, bool) {
	return containsToken(tokenize(name), corporateIndicators)
}

// LooksBusinessAddress reports whether an address line contains a
// business-address indicator token.
func LooksBusinessAddress(address string) (string, bool) {
	return containsToken(tokenize(address), businessAddressIndicators)
}

// LooksPersonal reports whether an organization name looks like a natural
// person: a personal title, or two-to-three capitalized words with no
// corporate indicator.
func LooksPersonal(orgName string) bool {
	tokens := tokenize(orgName)
	if _, ok := containsToken(tokens, personTitleIndicators); ok {
		return true
	}
	if _, corporate := containsToken(tokens, corporateIndicators); corporate {
		return false
	}
	if len(tokens) < 2 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		for _, r := range tok {
			if r >= '0' && r <= '9' {
				return false
			}
		}
	}
	return true
}
