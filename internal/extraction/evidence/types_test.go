package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryNumbersEntriesAndPages(t *testing.T) {
	d := DocumentEvidence{
		Title: FieldEvidence{RawText: "Quantum Widget", Source: SourceLocation{Page: 3}, Confidence: ConfidenceHigh},
		Inventors: []InventorEvidence{
			{Name: FieldEvidence{RawText: "Jane Doe", Confidence: ConfidenceHigh}},
			{Name: FieldEvidence{RawText: "John Roe", Confidence: ConfidenceMedium}},
		},
		PriorityClaims: []FieldEvidence{{Field: "priority", RawText: "US 63/111,222"}},
	}

	s := d.Summary()
	assert.Contains(t, s, "TITLE: Quantum Widget [page 3] (confidence: high)")
	assert.Contains(t, s, "INVENTOR 1 NAME: Jane Doe")
	assert.Contains(t, s, "INVENTOR 2 NAME: John Roe")
	assert.Contains(t, s, "PRIORITY CLAIM 1: US 63/111,222")
	assert.True(t, strings.Index(s, "INVENTOR 1") < strings.Index(s, "INVENTOR 2"))
}

func TestSummaryOmitsEmptyFields(t *testing.T) {
	d := DocumentEvidence{Title: FieldEvidence{RawText: "   "}}
	assert.Empty(t, d.Summary())
}

func TestVisionPromptNamesPageRange(t *testing.T) {
	p := visionPrompt(10, 5)
	assert.Contains(t, p, "pages 11 through 15")
}
