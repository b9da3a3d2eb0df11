package pdfform

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// templateFixture is a minimal XFA-carrying PDF skeleton in the layout the
// real ADS template uses: an /AcroForm with an /XFA packet array where
// (datasets) points at an uncompressed stream object.
func templateFixture() []byte {
	return []byte(`%PDF-1.7
1 0 obj
<< /Type /Catalog /AcroForm 2 0 R >>
endobj
2 0 obj
<< /XFA [ (preamble) 3 0 R (datasets) 4 0 R (postamble) 5 0 R ] >>
endobj
4 0 obj
<< /Length 52 >>
stream
<xfa:datasets><xfa:data>old</xfa:data></xfa:datasets>
endstream
endobj
xref
0 6
trailer
<< /Size 6 /Root 1 0 R >>
startxref
301
%%EOF
`)
}

func TestInjectReplacesDatasets(t *testing.T) {
	inj := NewInjector(logging.NewNop())
	payload := []byte(`<xfa:datasets><xfa:data><Form1/></xfa:data></xfa:datasets>`)

	out, err := inj.Inject(templateFixture(), payload)
	require.NoError(t, err)

	assert.True(t, bytes.Contains(out, payload), "new datasets XML present")
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.7")), "original header intact")
	assert.True(t, bytes.Contains(out, []byte("/Prev 301")), "incremental update chains to old xref")
	assert.True(t, bytes.Contains(out, []byte("/Root 1 0 R")), "trailer repeats /Root")
	assert.Equal(t, 2, bytes.Count(out, []byte("4 0 obj")), "replacement object appended, original untouched")
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(out), []byte("%%EOF")))
}

func TestInjectOriginalNotModified(t *testing.T) {
	template := templateFixture()
	orig := append([]byte(nil), template...)

	_, err := NewInjector(logging.NewNop()).Inject(template, []byte("<xfa:datasets/>"))
	require.NoError(t, err)
	assert.Equal(t, orig, template)
}

func TestInjectMissingDatasets(t *testing.T) {
	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\nstartxref\n9\n%%EOF\n")
	_, err := NewInjector(logging.NewNop()).Inject(pdf, []byte("<xfa:datasets/>"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeXFADatasetsNotFound))
}

func TestInjectManualFallback(t *testing.T) {
	// No /XFA array in reach of the primary pass, but a (datasets) reference
	// exists elsewhere in the body.
	pdf := []byte(`%PDF-1.7
2 0 obj
<< /SomeDict (datasets) 4 0 R >>
endobj
4 0 obj
<< /Length 10 >>
stream
old-stream
endstream
endobj
trailer
<< /Size 5 /Root 1 0 R >>
startxref
120
%%EOF
`)
	out, err := NewInjector(logging.NewNop()).Inject(pdf, []byte("<xfa:datasets/>"))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("<xfa:datasets/>")))
}

func TestInjectDatasetsObjectMissingBody(t *testing.T) {
	// The XFA array names object 9 but no such object exists.
	pdf := []byte(`%PDF-1.7
2 0 obj
<< /XFA [ (datasets) 9 0 R ] >>
endobj
trailer
<< /Size 3 /Root 1 0 R >>
startxref
60
%%EOF
`)
	_, err := NewInjector(logging.NewNop()).Inject(pdf, []byte("<xfa:datasets/>"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePDFInjectionFailed))
}

func TestInjectUpdatedLength(t *testing.T) {
	payload := []byte(strings.Repeat("x", 123))
	out, err := NewInjector(logging.NewNop()).Inject(templateFixture(), payload)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("/Length 123")))
}
