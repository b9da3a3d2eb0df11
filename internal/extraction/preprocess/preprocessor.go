package preprocess

import (
	"context"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// Preprocessor validates uploads and prepares extraction input.
type Preprocessor struct {
	logger logging.Logger
}

// NewPreprocessor constructs a Preprocessor.
func NewPreprocessor(logger logging.Logger) *Preprocessor {
	return &Preprocessor{logger: logger.Named("preprocess")}
}

// Prepare validates the document and assembles the evidence-gathering input:
// text and form fields eagerly, page rendering lazily.
func (p *Preprocessor) Prepare(ctx context.Context, filename string, data []byte) (evidence.Input, error) {
	ft, err := ValidateFile(filename, data)
	if err != nil {
		return evidence.Input{}, err
	}

	var in evidence.Input
	switch ft {
	case FileTypePDF:
		text, err := ExtractPDFText(data)
		if err != nil {
			return evidence.Input{}, err
		}
		in.Text = text
		in.FormFields = ExtractFormFields(data)
		// Previously filled XFA forms keep their values in the datasets
		// packet, not in AcroForm /V entries.
		for name, value := range ExtractXFAFieldValues(data) {
			if _, ok := in.FormFields[name]; !ok {
				in.FormFields[name] = value
			}
		}
		in.PageImages = func(ctx context.Context) ([][]byte, error) {
			return RenderPDFPages(ctx, data)
		}
	case FileTypeDOCX:
		text, err := ExtractDOCXText(data)
		if err != nil {
			return evidence.Input{}, err
		}
		in.Text = text
	}

	p.logger.Info("document preprocessed",
		logging.String("file_type", string(ft)),
		logging.Int("text_bytes", len(in.Text)),
		logging.Int("form_fields", len(in.FormFields)),
	)
	return in, nil
}
