package preprocess

import (
	"bytes"
	"context"
	"encoding/xml"
	"image/jpeg"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/adsforge/adsforge/pkg/errors"
)

// jpegQuality for vision page renders.  High enough for the model to read
// 10-point type, low enough to keep request payloads reasonable.
const jpegQuality = 85

// ExtractPDFText concatenates the machine text of every page.
func ExtractPDFText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeFileCorrupted, "cannot open pdf")
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// RenderPDFPages rasterizes every page to JPEG for the vision fallback.
func RenderPDFPages(ctx context.Context, data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileCorrupted, "cannot open pdf")
	}
	defer doc.Close()

	pages := make([][]byte, 0, doc.NumPage())
	for page := 0; page < doc.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.Image(page)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileCorrupted, "cannot render pdf page")
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "jpeg encoding failed")
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

// AcroForm field entries appear in the raw PDF as dictionaries carrying
// /T (name) and /V (value) string entries.  A full object-model parse is not
// needed to read filled values out of the uncompressed object streams USPTO
// forms use.
var acroFieldRe = regexp.MustCompile(`/T\s*\(([^)]*)\)[^>]*?/V\s*\(([^)]*)\)`)

// ExtractFormFields pulls filled AcroForm field values from a fillable PDF.
// Returns an empty map for flat documents.
func ExtractFormFields(data []byte) map[string]string {
	fields := make(map[string]string)
	for _, m := range acroFieldRe.FindAllSubmatch(data, -1) {
		name := decodePDFString(m[1])
		value := decodePDFString(m[2])
		if name != "" && strings.TrimSpace(value) != "" {
			fields[name] = value
		}
	}
	return fields
}

// decodePDFString handles the escape sequences PDF literal strings use.
func decodePDFString(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c != '\\' || i+1 >= len(b) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch b[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '(', ')', '\\':
			sb.WriteByte(b[i])
		default:
			sb.WriteByte(b[i])
		}
	}
	return sb.String()
}

// xfaDatasetsRe locates the XFA datasets packet inside an ADS form.  The
// datasets XML carries previously filled values worth harvesting as form
// field evidence.
var xfaDatasetsRe = regexp.MustCompile(`(?s)<xfa:datasets.*?</xfa:datasets>`)

// ExtractXFADatasets returns the raw datasets XML from an XFA form, or nil
// when the document carries none.
func ExtractXFADatasets(data []byte) []byte {
	return xfaDatasetsRe.Find(data)
}

// ExtractXFAFieldValues flattens the datasets packet of an XFA form into
// leaf-element name/value pairs.  Returns nil when the document carries no
// datasets.
func ExtractXFAFieldValues(data []byte) map[string]string {
	datasets := ExtractXFADatasets(data)
	if datasets == nil {
		return nil
	}

	fields := make(map[string]string)
	dec := xml.NewDecoder(bytes.NewReader(datasets))
	var leaf string
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			leaf = t.Name.Local
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			// Only elements closing the name they opened are leaves;
			// container elements see leaf reset by their children.
			if t.Name.Local == leaf {
				if v := strings.TrimSpace(text.String()); v != "" {
					fields[leaf] = v
				}
			}
			leaf = ""
		}
	}
	return fields
}
