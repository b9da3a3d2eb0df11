package evidence

import (
	"context"
	"strings"

	"github.com/adsforge/adsforge/internal/infrastructure/llm"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// Input is the preprocessed document material the gatherer chooses among.
// Text and FormFields come from the preprocessor; PageImages is rendered
// lazily because rasterizing is expensive and usually unnecessary.
type Input struct {
	Text       string
	FormFields map[string]string

	// PageImages renders the document pages as JPEG for the vision fallback.
	// Nil when the source cannot be rasterized (e.g. DOCX).
	PageImages func(ctx context.Context) ([][]byte, error)
}

// minTextLength below which extracted text is considered garbage (scanned
// documents often yield a few stray OCR artifacts rather than nothing).
const minTextLength = 100

// maxVisionPages caps how many page images a single vision call carries
// before the gatherer switches to chunking.
const maxVisionPages = 8

// visionChunkSize is the pages-per-call batch in chunked vision mode.
const visionChunkSize = 4

// Gatherer runs the evidence stage: pick an extraction strategy, call the
// model, parse the response.  Strategies are tried in a fixed fallback order
// (text, form fields, vision, chunked vision) and the first success wins.
type Gatherer struct {
	client llm.Client
	logger logging.Logger
}

// NewGatherer constructs the evidence gatherer.
func NewGatherer(client llm.Client, logger logging.Logger) *Gatherer {
	return &Gatherer{client: client, logger: logger.Named("evidence")}
}

// Gather extracts document evidence using the best available strategy.
// Every failed strategy is logged and the next one attempted; the returned
// error reflects the final strategy's failure only when all are exhausted.
func (g *Gatherer) Gather(ctx context.Context, in Input) (DocumentEvidence, error) {
	type strategy struct {
		method Method
		run    func(ctx context.Context) (DocumentEvidence, error)
		usable bool
	}

	strategies := []strategy{
		{MethodText, func(ctx context.Context) (DocumentEvidence, error) {
			return g.gatherFromText(ctx, in.Text)
		}, len(in.Text) >= minTextLength},
		{MethodFormFields, func(ctx context.Context) (DocumentEvidence, error) {
			return g.gatherFromFormFields(ctx, in.FormFields)
		}, len(in.FormFields) > 0},
		{MethodVision, func(ctx context.Context) (DocumentEvidence, error) {
			return g.gatherFromVision(ctx, in.PageImages, false)
		}, in.PageImages != nil},
		{MethodChunkedVision, func(ctx context.Context) (DocumentEvidence, error) {
			return g.gatherFromVision(ctx, in.PageImages, true)
		}, in.PageImages != nil},
	}

	var lastErr error
	attempted := false
	for _, s := range strategies {
		if !s.usable {
			continue
		}
		attempted = true
		ev, err := s.run(ctx)
		if err == nil {
			if ev.usable() {
				g.logger.Info("evidence gathered",
					logging.String("method", string(s.method)),
					logging.Int("inventors", len(ev.Inventors)),
					logging.Int("applicants", len(ev.Applicants)),
				)
				return ev, nil
			}
			err = errors.New(errors.ErrCodeEvidenceGatherFailed, "strategy produced no usable evidence")
		}
		lastErr = err
		g.logger.Warn("extraction strategy failed, falling back",
			logging.String("method", string(s.method)),
			logging.Err(err),
		)
		if ctx.Err() != nil {
			return DocumentEvidence{}, errors.Wrap(ctx.Err(), errors.ErrCodeEvidenceGatherFailed, "evidence gathering cancelled")
		}
	}

	if !attempted {
		return DocumentEvidence{}, errors.New(errors.ErrCodeNoTextExtractable,
			"document has no extractable text, form fields, or renderable pages")
	}
	return DocumentEvidence{}, errors.Wrap(lastErr, errors.ErrCodeVisionFallbackExhausted,
		"all extraction strategies failed")
}

// usable reports whether the evidence is worth structuring: at minimum a
// title or one inventor.
func (d DocumentEvidence) usable() bool {
	return !d.Title.IsEmpty() || len(d.Inventors) > 0
}

func (g *Gatherer) gatherFromText(ctx context.Context, text string) (DocumentEvidence, error) {
	raw, err := g.client.GenerateJSON(ctx, systemPrompt, textPrompt(text))
	if err != nil {
		return DocumentEvidence{}, err
	}
	return ParseResponse(raw, MethodText, g.logger)
}

func (g *Gatherer) gatherFromFormFields(ctx context.Context, fields map[string]string) (DocumentEvidence, error) {
	raw, err := g.client.GenerateJSON(ctx, systemPrompt, formFieldsPrompt(fields))
	if err != nil {
		return DocumentEvidence{}, err
	}
	return ParseResponse(raw, MethodFormFields, g.logger)
}

func (g *Gatherer) gatherFromVision(ctx context.Context, render func(ctx context.Context) ([][]byte, error), chunked bool) (DocumentEvidence, error) {
	images, err := render(ctx)
	if err != nil {
		return DocumentEvidence{}, errors.Wrap(err, errors.ErrCodeEvidenceGatherFailed, "page rendering failed")
	}
	if len(images) == 0 {
		return DocumentEvidence{}, errors.New(errors.ErrCodeEvidenceGatherFailed, "document rendered zero pages")
	}

	if !chunked {
		if len(images) > maxVisionPages {
			images = images[:maxVisionPages]
		}
		raw, err := g.client.GenerateVisionJSON(ctx, systemPrompt, visionPrompt(0, len(images)), images)
		if err != nil {
			return DocumentEvidence{}, err
		}
		return ParseResponse(raw, MethodVision, g.logger)
	}

	// Chunked mode walks the whole document a few pages at a time and merges,
	// for long scans where the front matter alone was not enough.
	var merged DocumentEvidence
	merged.Method = MethodChunkedVision
	for offset := 0; offset < len(images); offset += visionChunkSize {
		end := offset + visionChunkSize
		if end > len(images) {
			end = len(images)
		}
		raw, err := g.client.GenerateVisionJSON(ctx, systemPrompt, visionPrompt(offset, end-offset), images[offset:end])
		if err != nil {
			return DocumentEvidence{}, err
		}
		chunk, err := ParseResponse(raw, MethodChunkedVision, g.logger)
		if err != nil {
			return DocumentEvidence{}, err
		}
		merged = mergeEvidence(merged, chunk)
	}
	return merged, nil
}

// mergeEvidence folds a later chunk into the accumulated evidence.  Scalar
// fields keep the higher-confidence value; person lists deduplicate on the
// quoted name text.
func mergeEvidence(acc, next DocumentEvidence) DocumentEvidence {
	acc.Title = betterField(acc.Title, next.Title)
	acc.ApplicationNumber = betterField(acc.ApplicationNumber, next.ApplicationNumber)
	acc.DocketNumber = betterField(acc.DocketNumber, next.DocketNumber)
	acc.ApplicationType = betterField(acc.ApplicationType, next.ApplicationType)

	seen := make(map[string]bool, len(acc.Inventors))
	for _, inv := range acc.Inventors {
		seen[normKey(inv.Name.RawText)] = true
	}
	for _, inv := range next.Inventors {
		if key := normKey(inv.Name.RawText); key != "" && !seen[key] {
			seen[key] = true
			acc.Inventors = append(acc.Inventors, inv)
		}
	}

	seenApp := make(map[string]bool, len(acc.Applicants))
	for _, app := range acc.Applicants {
		seenApp[normKey(app.OrgName.RawText)] = true
	}
	for _, app := range next.Applicants {
		if key := normKey(app.OrgName.RawText); key != "" && !seenApp[key] {
			seenApp[key] = true
			acc.Applicants = append(acc.Applicants, app)
		}
	}

	acc.Correspondence = append(acc.Correspondence, next.Correspondence...)
	acc.PriorityClaims = append(acc.PriorityClaims, next.PriorityClaims...)
	return acc
}

func betterField(a, b FieldEvidence) FieldEvidence {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	if b.Confidence.Score() > a.Confidence.Score() {
		return b
	}
	return a
}

func normKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
