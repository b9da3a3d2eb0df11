// Package extraction orchestrates the document-to-metadata pipeline:
// preprocess, evidence gathering, structured build, field validation, and
// entity separation.
package extraction

import (
	"context"
	"time"

	"github.com/adsforge/adsforge/internal/extraction/evidence"
	"github.com/adsforge/adsforge/internal/extraction/preprocess"
	"github.com/adsforge/adsforge/internal/extraction/structured"
	"github.com/adsforge/adsforge/internal/infrastructure/llm"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/validation/entity"
	"github.com/adsforge/adsforge/internal/validation/fields"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// Result is the complete outcome of one pipeline run.
type Result struct {
	Structured *structured.EnhancedExtractionResult `json:"structured"`
	Metadata   ads.PatentApplicationMetadata        `json:"metadata"`

	FieldIssues    fields.Summary         `json:"field_issues"`
	EntityReport   entity.Report          `json:"entity_report"`
	Contaminations []entity.Contamination `json:"contaminations,omitempty"`
	AppliedFixes   []string               `json:"applied_fixes,omitempty"`

	Duration time.Duration `json:"duration"`
}

// Options tunes pipeline behavior.
type Options struct {
	// AutoFix applies entity-separation fixes (synthesized applicants,
	// removed corporate inventors) instead of only reporting them.
	AutoFix bool
}

// Service runs the extraction pipeline.
type Service struct {
	pre       *preprocess.Preprocessor
	gatherer  *evidence.Gatherer
	builder   *structured.Builder
	separator *entity.Separator
	opts      Options
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// NewService wires the pipeline stages.  classifier may be nil to use the
// heuristic entity classifier; metrics may be nil in tests.
func NewService(client llm.Client, classifier entity.Classifier, opts Options, metrics *prometheus.AppMetrics, log logging.Logger) *Service {
	return &Service{
		pre:       preprocess.NewPreprocessor(log),
		gatherer:  evidence.NewGatherer(client, log),
		builder:   structured.NewBuilder(client, log),
		separator: entity.NewSeparator(classifier, log),
		opts:      opts,
		metrics:   metrics,
		log:       log,
	}
}

// Extract runs the full pipeline over one document.
func (s *Service) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	start := time.Now()

	input, err := s.pre.Prepare(ctx, filename, data)
	if err != nil {
		s.recordExtraction("", "failed", "", 0, time.Since(start))
		return nil, err
	}

	ev, err := s.gatherer.Gather(ctx, input)
	if err != nil {
		s.recordExtraction("", "failed", "", 0, time.Since(start))
		return nil, err
	}

	enhanced, err := s.builder.Build(ctx, ev)
	if err != nil {
		s.recordExtraction(string(ev.Method), "failed", "", 0, time.Since(start))
		return nil, err
	}

	fieldSummary := fields.Apply(enhanced)
	for _, issue := range fieldSummary.Issues {
		sev := "warning"
		if len(issue.Errors) > 0 {
			sev = "error"
		}
		s.countValidationIssue(sev, "field")
	}

	report := s.separator.Validate(ctx, enhanced)
	for range report.Errors() {
		s.countValidationIssue("error", "entity")
	}
	for range report.Warnings() {
		s.countValidationIssue("warning", "entity")
	}

	contaminations := s.separator.DetectCrossContamination(ctx, enhanced)
	var fixes []string
	if s.opts.AutoFix && len(contaminations) > 0 {
		fixes = s.separator.AutoFix(ctx, enhanced)
		// Re-validate after fixing so the report reflects the final state.
		report = s.separator.Validate(ctx, enhanced)
		contaminations = s.separator.DetectCrossContamination(ctx, enhanced)
	}

	enhanced.ComputeQuality()
	// Entity problems cap the confidence the caller sees.
	if report.Confidence < enhanced.Quality.OverallConfidence {
		enhanced.Quality.OverallConfidence = report.Confidence
	}

	result := &Result{
		Structured:     enhanced,
		Metadata:       enhanced.ToApplicationMetadata(),
		FieldIssues:    fieldSummary,
		EntityReport:   report,
		Contaminations: contaminations,
		AppliedFixes:   fixes,
		Duration:       time.Since(start),
	}

	s.recordExtraction(string(ev.Method), "success", string(enhanced.Quality.Completeness),
		enhanced.Quality.OverallConfidence, result.Duration)

	s.log.Info("extraction pipeline finished",
		logging.String("filename", filename),
		logging.String("method", string(ev.Method)),
		logging.String("completeness", string(enhanced.Quality.Completeness)),
		logging.Float64("confidence", enhanced.Quality.OverallConfidence),
		logging.Int("inventors", len(enhanced.Inventors)),
		logging.Int("applicants", len(enhanced.Applicants)),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *Service) recordExtraction(method, status, completeness string, confidence float64, d time.Duration) {
	if s.metrics == nil {
		return
	}
	if method == "" {
		method = "none"
	}
	s.metrics.RecordExtraction(method, status, completeness, confidence, d)
}

func (s *Service) countValidationIssue(severity, kind string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ValidationIssuesTotal.WithLabelValues(severity, kind).Inc()
}
