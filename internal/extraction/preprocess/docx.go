package preprocess

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/adsforge/adsforge/pkg/errors"
)

// ExtractDOCXText reads the visible text from a DOCX body.  A DOCX is a ZIP
// archive; the document body lives in word/document.xml as WordprocessingML,
// where text runs are <w:t> elements and paragraphs are <w:p>.
func ExtractDOCXText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeFileCorrupted, "docx is not a readable zip archive")
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return "", errors.Wrap(err, errors.ErrCodeFileCorrupted, "cannot open docx body")
			}
			break
		}
	}
	if body == nil {
		return "", errors.New(errors.ErrCodeFileCorrupted, "docx has no document body")
	}
	defer body.Close()

	text, err := wordMLText(body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeFileCorrupted, "docx body is not valid xml")
	}
	return text, nil
}

func wordMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br", "cr":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
