// Package pdfform writes generated XFA datasets XML into the ADS PDF
// template.  The template's /AcroForm dictionary carries an /XFA array of
// alternating packet-name strings and stream references; the injection
// replaces the stream object the "datasets" name points at.  This leans on
// the stable internal layout of the USPTO template, which ships with
// uncompressed object streams and a classic cross-reference table.
package pdfform

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// Injector writes datasets XML into a PDF template.
type Injector struct {
	logger logging.Logger
}

// NewInjector constructs an Injector.
func NewInjector(logger logging.Logger) *Injector {
	return &Injector{logger: logger.Named("pdfform")}
}

var (
	xfaArrayRe = regexp.MustCompile(`(?s)/XFA\s*\[(.*?)\]`)
	// (datasets) followed by an indirect reference "N G R".
	datasetsRefRe = regexp.MustCompile(`\(datasets\)\s*(\d+)\s+(\d+)\s+R`)
)

// Inject returns a copy of the template with the datasets stream replaced by
// datasetsXML.  The original template bytes are not modified.
func (inj *Injector) Inject(template []byte, datasetsXML []byte) ([]byte, error) {
	objNum, err := locateDatasetsObject(template)
	if err != nil {
		return nil, err
	}

	out, err := replaceStreamObject(template, objNum, datasetsXML)
	if err != nil {
		return nil, err
	}

	inj.logger.Info("datasets injected",
		logging.Int("object", objNum),
		logging.Int("xml_bytes", len(datasetsXML)),
		logging.Int("pdf_bytes", len(out)),
	)
	return out, nil
}

// locateDatasetsObject finds the object number of the datasets packet via the
// /AcroForm /XFA array, falling back to scanning for any (datasets) reference
// when the array is split across an object the first pass misses.
func locateDatasetsObject(pdf []byte) (int, error) {
	if m := xfaArrayRe.FindSubmatch(pdf); m != nil {
		if ref := datasetsRefRe.FindSubmatch(m[1]); ref != nil {
			return atoi(ref[1])
		}
	}
	// Manual fallback: the (datasets) name and its reference may sit outside
	// the slice the array regexp captured.
	if ref := datasetsRefRe.FindSubmatch(pdf); ref != nil {
		return atoi(ref[1])
	}
	return 0, errors.New(errors.ErrCodeXFADatasetsNotFound,
		"template has no /XFA datasets entry")
}

// replaceStreamObject rewrites object objNum's stream payload, updates its
// /Length, and appends an incremental update so existing cross-reference
// offsets stay valid.
func replaceStreamObject(pdf []byte, objNum int, payload []byte) ([]byte, error) {
	// Leading newline avoids matching "14 0 obj" when looking for object 4.
	header := []byte(fmt.Sprintf("\n%d 0 obj", objNum))
	start := bytes.Index(pdf, header)
	if start < 0 {
		return nil, errors.New(errors.ErrCodePDFInjectionFailed,
			fmt.Sprintf("datasets object %d not found in template body", objNum))
	}
	end := bytes.Index(pdf[start:], []byte("endobj"))
	if end < 0 {
		return nil, errors.New(errors.ErrCodePDFInjectionFailed,
			fmt.Sprintf("datasets object %d is not terminated", objNum))
	}
	end += start + len("endobj")

	newObj := fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj",
		objNum, len(payload), payload)

	// Incremental update: original bytes stay put, the replacement object and
	// a new xref section are appended.  Readers resolve the newest offset for
	// the object via the appended trailer.
	trailerOffset := bytes.LastIndex(pdf, []byte("trailer"))
	startxref := bytes.LastIndex(pdf, []byte("startxref"))
	if startxref < 0 {
		return nil, errors.New(errors.ErrCodePDFInjectionFailed, "template has no startxref")
	}
	prevXref, err := previousXrefOffset(pdf[startxref:])
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(pdf)
	if pdf[len(pdf)-1] != '\n' {
		out.WriteByte('\n')
	}

	objOffset := out.Len()
	out.WriteString(newObj)
	out.WriteString("\n")

	xrefOffset := out.Len()
	fmt.Fprintf(&out, "xref\n%d 1\n%010d 00000 n \n", objNum, objOffset)
	out.WriteString("trailer\n")
	fmt.Fprintf(&out, "<< /Prev %d%s >>\n", prevXref, trailerRootEntry(pdf, trailerOffset))
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return out.Bytes(), nil
}

var startxrefRe = regexp.MustCompile(`startxref\s+(\d+)`)

func previousXrefOffset(tail []byte) (int, error) {
	m := startxrefRe.FindSubmatch(tail)
	if m == nil {
		return 0, errors.New(errors.ErrCodePDFInjectionFailed, "cannot read previous xref offset")
	}
	return atoi(m[1])
}

var rootRe = regexp.MustCompile(`/Root\s+\d+\s+\d+\s+R`)
var sizeRe = regexp.MustCompile(`/Size\s+(\d+)`)

// trailerRootEntry copies the /Root and /Size entries from the original
// trailer; an incremental-update trailer must repeat them.
func trailerRootEntry(pdf []byte, trailerOffset int) string {
	region := pdf
	if trailerOffset >= 0 {
		region = pdf[trailerOffset:]
	}
	var out string
	if m := rootRe.Find(region); m != nil {
		out += " " + string(m)
	}
	if m := sizeRe.FindSubmatch(region); m != nil {
		out += " /Size " + string(m[1])
	}
	return out
}

func atoi(b []byte) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodePDFInjectionFailed, "malformed object number")
	}
	return n, nil
}
