package reporting

import (
	"fmt"
	"time"

	"github.com/adsforge/adsforge/internal/application/extraction"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// Generator renders extraction results as review reports.
type Generator struct {
	log logging.Logger
}

// NewGenerator returns a report generator.
func NewGenerator(log logging.Logger) *Generator {
	return &Generator{log: log}
}

// ExtractionReport renders the full review document for one pipeline run.
func (g *Generator) ExtractionReport(filename string, result *extraction.Result) ([]byte, error) {
	if result == nil || result.Structured == nil {
		return nil, errors.New(errors.ErrCodeReportGenerationFailed, "no extraction result to report")
	}
	r := result.Structured
	b := &docBuilder{}

	b.Heading(1, "Patent Application Data Extraction Report")
	b.Paragraph("Source document: " + filename)
	b.Paragraph("Generated: " + time.Now().UTC().Format("January 2, 2006 15:04 UTC"))

	b.Heading(2, "Extraction Summary")
	b.Table(
		[]string{"Metric", "Value"},
		[][]string{
			{"Extraction method", string(r.Method)},
			{"Completeness", string(r.Quality.Completeness)},
			{"Overall confidence", fmt.Sprintf("%.0f%%", r.Quality.OverallConfidence*100)},
			{"Fields extracted", fmt.Sprintf("%d of %d", r.Quality.FieldsExtracted, r.Quality.FieldsExpected)},
			{"Inventors found", fmt.Sprintf("%d", len(r.Inventors))},
			{"Applicants found", fmt.Sprintf("%d", len(r.Applicants))},
		},
	)

	b.Heading(2, "Application")
	appRows := [][]string{
		{"Title", r.Title.Value, string(r.Title.Confidence)},
	}
	if r.ApplicationType.IsSet() {
		appRows = append(appRows, []string{"Application type", r.ApplicationType.Value, string(r.ApplicationType.Confidence)})
	}
	if r.ApplicationNumber.IsSet() {
		appRows = append(appRows, []string{"Application number", r.ApplicationNumber.Value, string(r.ApplicationNumber.Confidence)})
	}
	if r.AttorneyDocketNumber.IsSet() {
		appRows = append(appRows, []string{"Attorney docket number", r.AttorneyDocketNumber.Value, string(r.AttorneyDocketNumber.Confidence)})
	}
	b.Table([]string{"Field", "Value", "Confidence"}, appRows)

	if len(r.Inventors) > 0 {
		b.Heading(2, "Inventors")
		var rows [][]string
		for _, inv := range r.Inventors {
			residence := joinNonEmpty(inv.ResidenceCity.Value, inv.ResidenceState.Value, inv.ResidenceCountry.Value)
			address := joinNonEmpty(inv.Street.Value, inv.City.Value, inv.State.Value, inv.Zip.Value, inv.Country.Value)
			rows = append(rows, []string{inv.FullName(), residence, inv.Citizenship.Value, address})
		}
		b.Table([]string{"Name", "Residence", "Citizenship", "Mailing Address"}, rows)
	}

	if len(r.Applicants) > 0 {
		b.Heading(2, "Applicants")
		var rows [][]string
		for _, app := range r.Applicants {
			address := joinNonEmpty(app.Street.Value, app.City.Value, app.State.Value, app.Zip.Value, app.Country.Value)
			rows = append(rows, []string{app.OrgName.Value, app.ApplicantType.Value, address})
		}
		b.Table([]string{"Organization", "Type", "Address"}, rows)
	}

	if r.Correspondence.Name.IsSet() || r.Correspondence.Email.IsSet() || r.Correspondence.CustomerNumber.IsSet() {
		b.Heading(2, "Correspondence")
		c := r.Correspondence
		var rows [][]string
		addRow := func(label, value string) {
			if value != "" {
				rows = append(rows, []string{label, value})
			}
		}
		addRow("Name", c.Name.Value)
		addRow("Customer number", c.CustomerNumber.Value)
		addRow("Address", joinNonEmpty(c.Street.Value, c.City.Value, c.State.Value, c.Zip.Value, c.Country.Value))
		addRow("Email", c.Email.Value)
		addRow("Phone", c.Phone.Value)
		b.Table([]string{"Field", "Value"}, rows)
	}

	if len(r.PriorityClaims) > 0 {
		b.Heading(2, "Priority and Benefit Claims")
		var rows [][]string
		for _, pc := range r.PriorityClaims {
			rows = append(rows, []string{pc.ApplicationNumber.Value, pc.Country.Value, pc.FilingDate.Value, pc.ClaimType.Value})
		}
		b.Table([]string{"Application Number", "Country", "Filing Date", "Claim Type"}, rows)
	}

	g.writeIssues(b, result)

	data, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportGenerationFailed, "failed to assemble report document")
	}
	g.log.Info("extraction report generated",
		logging.String("filename", filename),
		logging.Int("report_bytes", len(data)),
	)
	return data, nil
}

func (g *Generator) writeIssues(b *docBuilder, result *extraction.Result) {
	hasIssues := len(result.FieldIssues.Issues) > 0 ||
		len(result.EntityReport.Issues) > 0 ||
		len(result.AppliedFixes) > 0 ||
		len(result.Structured.Warnings) > 0 ||
		len(result.Structured.Recommendations) > 0
	if !hasIssues {
		return
	}

	b.Heading(2, "Review Items")

	for _, issue := range result.FieldIssues.Issues {
		for _, e := range issue.Errors {
			b.Bullet("Error in " + issue.Field + ": " + e)
		}
		for _, w := range issue.Warnings {
			b.Bullet("Check " + issue.Field + ": " + w)
		}
	}
	for _, issue := range result.EntityReport.Issues {
		b.Bullet(issue.Severity + ": " + issue.Message)
	}
	for _, fix := range result.AppliedFixes {
		b.Bullet("Applied: " + fix)
	}
	for _, w := range result.Structured.Warnings {
		b.Bullet(w)
	}
	for _, rec := range result.Structured.Recommendations {
		b.Bullet("Recommended: " + rec)
	}
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
