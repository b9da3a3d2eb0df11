package entity

import (
	"context"
	"fmt"

	"github.com/adsforge/adsforge/internal/extraction/structured"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// Classification is a Classifier's verdict on a single name.
type Classification string

const (
	ClassPerson       Classification = "person"
	ClassOrganization Classification = "organization"
	ClassUnknown      Classification = "unknown"
)

// Classifier decides whether a name denotes a person or an organization.
// The default is the heuristic token classifier; an LLM-backed one can be
// plugged in where the heuristics are too blunt.
type Classifier interface {
	Classify(ctx context.Context, name string) (Classification, error)
}

// HeuristicClassifier classifies purely on indicator tokens.  It never
// returns an error.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Classify(_ context.Context, name string) (Classification, error) {
	if _, ok := LooksCorporate(name); ok {
		return ClassOrganization, nil
	}
	if LooksPersonal(name) {
		return ClassPerson, nil
	}
	return ClassUnknown, nil
}

// Issue is one detected entity-separation problem.
type Issue struct {
	Severity string `json:"severity"` // "error" or "warning"
	Field    string `json:"field"`
	Message  string `json:"message"`

	// InventorIndex / ApplicantIndex locate the offending record; -1 when
	// not applicable.
	InventorIndex  int `json:"inventor_index"`
	ApplicantIndex int `json:"applicant_index"`
}

// Report is the outcome of entity-separation validation.
type Report struct {
	Issues []Issue `json:"issues,omitempty"`

	// Confidence is the separation confidence after penalties:
	// 1.0 minus 0.5 per error and 0.1 per warning, floored at zero.
	Confidence float64 `json:"confidence"`
}

// Errors returns only error-severity issues.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == "error" {
			out = append(out, is)
		}
	}
	return out
}

// Warnings returns only warning-severity issues.
func (r Report) Warnings() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == "warning" {
			out = append(out, is)
		}
	}
	return out
}

// Clean reports whether no errors were found.
func (r Report) Clean() bool { return len(r.Errors()) == 0 }

// Separator runs entity-separation validation over an extraction result.
type Separator struct {
	classifier Classifier
	logger     logging.Logger
}

// NewSeparator constructs a Separator.  A nil classifier selects the
// heuristic one.
func NewSeparator(classifier Classifier, logger logging.Logger) *Separator {
	if classifier == nil {
		classifier = HeuristicClassifier{}
	}
	return &Separator{classifier: classifier, logger: logger.Named("entity")}
}

// Validate checks every inventor and applicant and scores the separation.
// Classifier failures degrade to the heuristic verdict rather than aborting.
func (s *Separator) Validate(ctx context.Context, result *structured.EnhancedExtractionResult) Report {
	var report Report

	for i, inv := range result.Inventors {
		name := inv.FullName()
		if name == "" {
			report.Issues = append(report.Issues, Issue{
				Severity: "error", Field: "inventors",
				Message:        fmt.Sprintf("inventor %d has no name", i+1),
				InventorIndex:  i,
				ApplicantIndex: -1,
			})
			continue
		}

		class := s.classify(ctx, name)
		if class == ClassOrganization {
			msg := fmt.Sprintf("inventor %q appears to be an organization", name)
			// The LLM classifier can flag names the heuristics would not, so
			// the indicator token is not always available.
			if tok, ok := LooksCorporate(name); ok {
				msg = fmt.Sprintf("inventor %q appears to be an organization (corporate indicator %q)", name, tok)
			}
			report.Issues = append(report.Issues, Issue{
				Severity: "error", Field: "inventors",
				Message:        msg,
				InventorIndex:  i,
				ApplicantIndex: -1,
			})
		}

		if tok, ok := LooksBusinessAddress(inv.Street.Value); ok {
			report.Issues = append(report.Issues, Issue{
				Severity: "warning", Field: "inventors",
				Message:        fmt.Sprintf("inventor %q address contains business indicator %q", name, tok),
				InventorIndex:  i,
				ApplicantIndex: -1,
			})
		}
	}

	for i, app := range result.Applicants {
		name := app.OrgName.Value
		if name == "" {
			continue
		}
		class := s.classify(ctx, name)
		if class == ClassPerson {
			report.Issues = append(report.Issues, Issue{
				Severity: "warning", Field: "applicants",
				Message:        fmt.Sprintf("applicant %q looks like an individual, not an organization", name),
				InventorIndex:  -1,
				ApplicantIndex: i,
			})
		}
	}

	report.Confidence = separationConfidence(len(report.Errors()), len(report.Warnings()))
	if !report.Clean() {
		s.logger.Warn("entity separation issues detected",
			logging.Int("errors", len(report.Errors())),
			logging.Int("warnings", len(report.Warnings())),
			logging.Float64("confidence", report.Confidence),
		)
	}
	return report
}

func (s *Separator) classify(ctx context.Context, name string) Classification {
	class, err := s.classifier.Classify(ctx, name)
	if err != nil {
		s.logger.Warn("classifier failed, using heuristics",
			logging.String("name", name), logging.Err(err))
		class, _ = HeuristicClassifier{}.Classify(ctx, name)
	}
	return class
}

func separationConfidence(errs, warns int) float64 {
	c := 1.0 - 0.5*float64(errs) - 0.1*float64(warns)
	if c < 0 {
		return 0
	}
	return c
}
