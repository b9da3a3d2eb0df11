package reporting

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/application/extraction"
	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/extraction/structured"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

func sampleResult(title string) *extraction.Result {
	r := &structured.EnhancedExtractionResult{
		Title:  structured.ConfidentValue{Value: title, Confidence: evidence.ConfidenceHigh},
		Method: evidence.MethodText,
		Inventors: []structured.EnhancedInventor{{
			GivenName:  structured.ConfidentValue{Value: "Jane", Confidence: evidence.ConfidenceHigh},
			FamilyName: structured.ConfidentValue{Value: "Doe", Confidence: evidence.ConfidenceHigh},
			Country:    structured.ConfidentValue{Value: "US", Confidence: evidence.ConfidenceMedium},
		}},
	}
	r.ComputeQuality()
	return &extraction.Result{Structured: r}
}

func readDocumentXML(t *testing.T, docx []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatal("word/document.xml not found in archive")
	return ""
}

func TestExtractionReportIsReadableDocx(t *testing.T) {
	g := NewGenerator(logging.NewNop())

	docx, err := g.ExtractionReport("disclosure.pdf", sampleResult("Widget Frobnicator"))
	require.NoError(t, err)

	doc := readDocumentXML(t, docx)
	assert.Contains(t, doc, "Patent Application Data Extraction Report")
	assert.Contains(t, doc, "disclosure.pdf")
	assert.Contains(t, doc, "Widget Frobnicator")
	assert.Contains(t, doc, "Jane")
	assert.Contains(t, doc, "Doe")
}

func TestExtractionReportHasRequiredParts(t *testing.T) {
	g := NewGenerator(logging.NewNop())

	docx, err := g.ExtractionReport("disclosure.pdf", sampleResult("Widget Frobnicator"))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])
}

func TestExtractionReportEscapesXML(t *testing.T) {
	g := NewGenerator(logging.NewNop())

	docx, err := g.ExtractionReport("disclosure.pdf", sampleResult(`Widgets & "Gadgets" <v2>`))
	require.NoError(t, err)

	doc := readDocumentXML(t, docx)
	assert.Contains(t, doc, "Widgets &amp;")
	assert.NotContains(t, doc, "<v2>")
}

func TestExtractionReportNilResult(t *testing.T) {
	g := NewGenerator(logging.NewNop())

	_, err := g.ExtractionReport("disclosure.pdf", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportGenerationFailed))

	_, err = g.ExtractionReport("disclosure.pdf", &extraction.Result{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportGenerationFailed))
}
