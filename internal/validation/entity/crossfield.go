package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/extraction/structured"
)

// Contamination describes one cross-field problem found between the inventor
// and applicant sections.
type Contamination struct {
	Kind    string `json:"kind"` // "corporate_inventor", "duplicate_entity", "no_applicant"
	Message string `json:"message"`

	InventorIndex int `json:"inventor_index"` // -1 when not inventor-specific
}

// DetectCrossContamination looks for organization data leaked into inventor
// slots and related structural problems AutoFix knows how to repair.
func (s *Separator) DetectCrossContamination(ctx context.Context, result *structured.EnhancedExtractionResult) []Contamination {
	var found []Contamination

	for i, inv := range result.Inventors {
		name := inv.FullName()
		if name == "" {
			continue
		}
		if s.classify(ctx, name) == ClassOrganization {
			found = append(found, Contamination{
				Kind:          "corporate_inventor",
				Message:       fmt.Sprintf("inventor %q is organization-shaped", name),
				InventorIndex: i,
			})
		}
	}

	// An inventor whose name equals an applicant org is a duplicate entity,
	// not a second contamination of the same kind.
	for i, inv := range result.Inventors {
		name := normName(inv.FullName())
		if name == "" {
			continue
		}
		for _, app := range result.Applicants {
			if normName(app.OrgName.Value) == name {
				found = append(found, Contamination{
					Kind:          "duplicate_entity",
					Message:       fmt.Sprintf("%q appears as both inventor and applicant", inv.FullName()),
					InventorIndex: i,
				})
			}
		}
	}

	if len(result.Applicants) == 0 && len(result.Inventors) > 0 {
		hasCorporate := false
		for _, c := range found {
			if c.Kind == "corporate_inventor" {
				hasCorporate = true
				break
			}
		}
		if hasCorporate {
			found = append(found, Contamination{
				Kind:          "no_applicant",
				Message:       "no applicant extracted but a corporate name sits in the inventor list",
				InventorIndex: -1,
			})
		}
	}

	return found
}

// AutoFix repairs detected contamination in place and returns a description
// of each repair.  Corporate inventors are removed from the inventor list and
// synthesized into applicants (unless an applicant with that name already
// exists); duplicate entities are dropped from the inventor side only.
func (s *Separator) AutoFix(ctx context.Context, result *structured.EnhancedExtractionResult) []string {
	contaminations := s.DetectCrossContamination(ctx, result)
	if len(contaminations) == 0 {
		return nil
	}

	remove := map[int]bool{}
	var fixes []string

	for _, c := range contaminations {
		switch c.Kind {
		case "corporate_inventor":
			inv := result.Inventors[c.InventorIndex]
			orgName := strings.TrimSpace(inv.FullName())
			remove[c.InventorIndex] = true
			if !hasApplicantNamed(result, orgName) {
				result.Applicants = append(result.Applicants, synthesizeApplicant(inv, orgName))
				fixes = append(fixes, fmt.Sprintf("moved %q from inventors to applicants", orgName))
			} else {
				fixes = append(fixes, fmt.Sprintf("removed organization %q from inventors", orgName))
			}
		case "duplicate_entity":
			if !remove[c.InventorIndex] {
				remove[c.InventorIndex] = true
				fixes = append(fixes, fmt.Sprintf("removed duplicate entity %q from inventors", result.Inventors[c.InventorIndex].FullName()))
			}
		}
	}

	if len(remove) > 0 {
		kept := result.Inventors[:0]
		for i, inv := range result.Inventors {
			if !remove[i] {
				kept = append(kept, inv)
			}
		}
		result.Inventors = kept
	}

	result.Warnings = append(result.Warnings, fixes...)
	return fixes
}

// synthesizeApplicant builds an applicant from a misclassified inventor,
// carrying the address over.  The applicant type is left for the reviewer;
// assignee is the overwhelmingly common case.
func synthesizeApplicant(inv structured.EnhancedInventor, orgName string) structured.EnhancedApplicant {
	return structured.EnhancedApplicant{
		OrgName:       structured.ConfidentValue{Value: orgName, Confidence: evidence.ConfidenceMedium},
		ApplicantType: structured.ConfidentValue{Value: "assignee", Confidence: evidence.ConfidenceLow},
		Street:        inv.Street,
		City:          inv.City,
		State:         inv.State,
		Zip:           inv.Zip,
		Country:       inv.Country,
	}
}

func hasApplicantNamed(result *structured.EnhancedExtractionResult, name string) bool {
	want := normName(name)
	for _, app := range result.Applicants {
		if normName(app.OrgName.Value) == want {
			return true
		}
	}
	return false
}

func normName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
