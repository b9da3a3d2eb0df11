// Package preprocess turns uploaded documents into the raw material the
// extraction pipeline consumes: validated bytes, extracted text, PDF form
// field values, and rendered page images for the vision fallback.
package preprocess

import (
	"bytes"
	"strings"

	"github.com/adsforge/adsforge/pkg/errors"
)

// FileType is the recognized document kind.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// MaxFileSize is the upload ceiling.  USPTO filings are rarely over a few
// megabytes; anything bigger is almost certainly the wrong file.
const MaxFileSize = 50 << 20

var (
	pdfMagic   = []byte("%PDF-")
	zipMagic   = []byte("PK\x03\x04")
	docxMarker = []byte("word/document.xml")
)

// ValidateFile checks the upload before any expensive work: non-empty, under
// the size cap, a recognized format, not encrypted, not corrupted.  The
// returned FileType drives which extractor runs.
func ValidateFile(filename string, data []byte) (FileType, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeFileEmpty, "uploaded file is empty")
	}
	if len(data) > MaxFileSize {
		return "", errors.New(errors.ErrCodeFileTooLarge, "uploaded file exceeds the size limit").
			WithDetail("limit_bytes: 52428800")
	}

	ft, err := sniffType(filename, data)
	if err != nil {
		return "", err
	}

	if ft == FileTypePDF {
		if isEncryptedPDF(data) {
			return "", errors.New(errors.ErrCodeFileEncrypted, "pdf is password protected")
		}
		if !bytes.Contains(tail(data, 2048), []byte("%%EOF")) {
			return "", errors.New(errors.ErrCodeFileCorrupted, "pdf is truncated or corrupted")
		}
	}
	return ft, nil
}

func sniffType(filename string, data []byte) (FileType, error) {
	ext := strings.ToLower(filename)
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FileTypePDF, nil
	case bytes.HasPrefix(data, zipMagic):
		// A DOCX is a ZIP containing word/document.xml.  Checking the raw
		// bytes avoids unzipping just to classify.
		if bytes.Contains(data, docxMarker) {
			return FileTypeDOCX, nil
		}
		return "", errors.New(errors.ErrCodeFileTypeUnsupported, "zip archive is not a docx document")
	case strings.HasSuffix(ext, ".pdf") || strings.HasSuffix(ext, ".docx"):
		return "", errors.New(errors.ErrCodeFileCorrupted, "file content does not match its extension")
	default:
		return "", errors.New(errors.ErrCodeFileTypeUnsupported, "only pdf and docx documents are supported")
	}
}

// isEncryptedPDF looks for an /Encrypt entry in the trailer region.  False
// negatives fall through to go-fitz, which fails with its own error.
func isEncryptedPDF(data []byte) bool {
	return bytes.Contains(tail(data, 4096), []byte("/Encrypt"))
}

func tail(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}
