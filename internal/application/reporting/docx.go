// Package reporting generates the extraction review report as a .docx file.
// The document is built directly as WordprocessingML inside a zip container;
// the markup needed for paragraphs and simple tables is small enough that no
// template library earns its keep here.
package reporting

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`

// docBuilder accumulates WordprocessingML body content.
type docBuilder struct {
	body strings.Builder
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Heading writes a bold paragraph; level 1 is the document title.
func (b *docBuilder) Heading(level int, text string) {
	size := "24"
	if level == 1 {
		size = "32"
	}
	b.body.WriteString(`<w:p><w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr>`)
	b.body.WriteString(`<w:r><w:rPr><w:b/><w:sz w:val="` + size + `"/></w:rPr><w:t xml:space="preserve">`)
	b.body.WriteString(escape(text))
	b.body.WriteString(`</w:t></w:r></w:p>`)
}

// Paragraph writes a plain text paragraph.
func (b *docBuilder) Paragraph(text string) {
	b.body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	b.body.WriteString(escape(text))
	b.body.WriteString(`</w:t></w:r></w:p>`)
}

// Bullet writes a dash-prefixed paragraph.  Proper list numbering needs a
// numbering part; a literal dash keeps the package to a single document part.
func (b *docBuilder) Bullet(text string) {
	b.Paragraph("  – " + text)
}

// Table writes a bordered table with a bold header row.
func (b *docBuilder) Table(header []string, rows [][]string) {
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/>` +
		`<w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)

	b.tableRow(header, true)
	for _, row := range rows {
		b.tableRow(row, false)
	}
	b.body.WriteString(`</w:tbl><w:p/>`)
}

func (b *docBuilder) tableRow(cells []string, bold bool) {
	b.body.WriteString(`<w:tr>`)
	for _, cell := range cells {
		b.body.WriteString(`<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr><w:p><w:r>`)
		if bold {
			b.body.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		b.body.WriteString(`<w:t xml:space="preserve">`)
		b.body.WriteString(escape(cell))
		b.body.WriteString(`</w:t></w:r></w:p></w:tc>`)
	}
	b.body.WriteString(`</w:tr>`)
}

// Bytes assembles the final .docx archive.
func (b *docBuilder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentHeader + b.body.String() + documentFooter},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
