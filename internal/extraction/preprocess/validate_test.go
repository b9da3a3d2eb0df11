package preprocess

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/pkg/errors"
)

func minimalPDF(extra string) []byte {
	return []byte("%PDF-1.7\n" + extra + "\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func minimalDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(bodyXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestValidateFilePDF(t *testing.T) {
	ft, err := ValidateFile("spec.pdf", minimalPDF(""))
	require.NoError(t, err)
	assert.Equal(t, FileTypePDF, ft)
}

func TestValidateFileDOCX(t *testing.T) {
	data := minimalDOCX(t, `<w:document/>`)
	ft, err := ValidateFile("spec.docx", data)
	require.NoError(t, err)
	assert.Equal(t, FileTypeDOCX, ft)
}

func TestValidateFileEmpty(t *testing.T) {
	_, err := ValidateFile("spec.pdf", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileEmpty))
}

func TestValidateFileTooLarge(t *testing.T) {
	data := append([]byte("%PDF-"), make([]byte, MaxFileSize)...)
	_, err := ValidateFile("spec.pdf", data)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileTooLarge))
}

func TestValidateFileUnsupportedType(t *testing.T) {
	_, err := ValidateFile("spec.txt", []byte("hello world"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileTypeUnsupported))
}

func TestValidateFileExtensionMismatch(t *testing.T) {
	_, err := ValidateFile("spec.pdf", []byte("this is not a pdf at all"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileCorrupted))
}

func TestValidateFileEncryptedPDF(t *testing.T) {
	data := []byte("%PDF-1.7\ntrailer\n<< /Encrypt 5 0 R /Root 1 0 R >>\n%%EOF\n")
	_, err := ValidateFile("spec.pdf", data)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileEncrypted))
}

func TestValidateFileTruncatedPDF(t *testing.T) {
	_, err := ValidateFile("spec.pdf", []byte("%PDF-1.7\n1 0 obj\n<< >>"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileCorrupted))
}

func TestExtractFormFields(t *testing.T) {
	pdf := minimalPDF(`1 0 obj
<< /T (InventorName\[0\]) /FT /Tx /V (Jane Doe) >>
endobj
2 0 obj
<< /T (Title) /V (Quantum Widget) /FT /Tx >>
endobj
3 0 obj
<< /T (EmptyField) /V () >>
endobj`)
	fields := ExtractFormFields(pdf)
	assert.Equal(t, "Jane Doe", fields["InventorName[0]"])
	assert.Equal(t, "Quantum Widget", fields["Title"])
	_, ok := fields["EmptyField"]
	assert.False(t, ok, "blank values are dropped")
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, "line\nnext", decodePDFString([]byte(`line\nnext`)))
}

func TestExtractXFADatasets(t *testing.T) {
	pdf := minimalPDF(`<xfa:datasets xmlns:xfa="http://www.xfa.org/schema/xfa-data/1.0/"><xfa:data><Form1/></xfa:data></xfa:datasets>`)
	ds := ExtractXFADatasets(pdf)
	require.NotNil(t, ds)
	assert.True(t, bytes.HasPrefix(ds, []byte("<xfa:datasets")))
	assert.Nil(t, ExtractXFADatasets(minimalPDF("")))
}

func TestExtractXFAFieldValues(t *testing.T) {
	pdf := minimalPDF(`<xfa:datasets xmlns:xfa="http://www.xfa.org/schema/xfa-data/1.0/">
<xfa:data><form1>
  <TitleofInvention>Quantum Widget</TitleofInvention>
  <sfInventors>
    <InventorGivenName>Jane</InventorGivenName>
    <InventorFamilyName>Doe</InventorFamilyName>
    <Blank>   </Blank>
  </sfInventors>
</form1></xfa:data>
</xfa:datasets>`)

	fields := ExtractXFAFieldValues(pdf)
	assert.Equal(t, "Quantum Widget", fields["TitleofInvention"])
	assert.Equal(t, "Jane", fields["InventorGivenName"])
	assert.Equal(t, "Doe", fields["InventorFamilyName"])
	_, ok := fields["Blank"]
	assert.False(t, ok, "whitespace-only values are dropped")
	_, ok = fields["sfInventors"]
	assert.False(t, ok, "container elements are not fields")

	assert.Nil(t, ExtractXFAFieldValues(minimalPDF("")))
}

func TestExtractDOCXText(t *testing.T) {
	body := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Quantum Widget</w:t></w:r></w:p>
    <w:p><w:r><w:t>Inventor: Jane</w:t><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
  </w:body>
</w:document>`
	text, err := ExtractDOCXText(minimalDOCX(t, body))
	require.NoError(t, err)
	assert.Contains(t, text, "Quantum Widget")
	assert.Contains(t, text, "Inventor: Jane Doe")
	assert.True(t, strings.Index(text, "Quantum") < strings.Index(text, "Inventor"), "paragraph order preserved")
}

func TestExtractDOCXTextNoBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	_, _ = w.Write([]byte("<styles/>"))
	_ = zw.Close()

	_, err := ExtractDOCXText(buf.Bytes())
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileCorrupted))
}
