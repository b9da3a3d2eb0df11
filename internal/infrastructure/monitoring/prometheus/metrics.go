package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the platform emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Auth
	AuthAttemptsTotal CounterVec

	// Extraction pipeline
	ExtractionsTotal      CounterVec
	ExtractionDuration    HistogramVec
	ExtractionConfidence  HistogramVec
	ExtractionMethodTotal CounterVec
	ValidationIssuesTotal CounterVec

	// LLM
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec
	LLMTokensUsed      CounterVec

	// ADS generation
	ADSGeneratedTotal   CounterVec
	ADSBuildDuration    HistogramVec
	InventorCountDeltas CounterVec

	// Jobs and queue
	JobsTotal     CounterVec
	JobDuration   HistogramVec
	JobRetries    CounterVec
	QueueDepth    GaugeVec
	ActiveWorkers GaugeVec

	// Infrastructure
	DBQueryDuration   HistogramVec
	EventsPublished   CounterVec
	HealthCheckStatus GaugeVec
}

var (
	httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	// Extraction involves multiple LLM round trips.
	pipelineDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	llmDurationBuckets      = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	confidenceBuckets       = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
	dbDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers every metric on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.AuthAttemptsTotal = collector.RegisterCounter("auth_attempts_total", "Authentication attempts", "result")

	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "Extraction runs", "status", "completeness")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "End-to-end extraction duration", pipelineDurationBuckets, "method")
	m.ExtractionConfidence = collector.RegisterHistogram("extraction_confidence", "Overall extraction confidence", confidenceBuckets, "method")
	m.ExtractionMethodTotal = collector.RegisterCounter("extraction_method_total", "Extraction strategy used", "method")
	m.ValidationIssuesTotal = collector.RegisterCounter("validation_issues_total", "Validation issues found", "severity", "kind")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "LLM API calls", "operation", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "LLM API call duration", llmDurationBuckets, "operation")
	m.LLMTokensUsed = collector.RegisterCounter("llm_tokens_total", "LLM tokens consumed", "direction")

	m.ADSGeneratedTotal = collector.RegisterCounter("ads_generated_total", "ADS PDFs produced", "status")
	m.ADSBuildDuration = collector.RegisterHistogram("ads_build_duration_seconds", "XFA build plus PDF injection duration", httpDurationBuckets, "stage")
	m.InventorCountDeltas = collector.RegisterCounter("inventor_count_deltas_total", "Inventor count mismatches at generation time", "action")

	m.JobsTotal = collector.RegisterCounter("jobs_total", "Background jobs processed", "type", "status")
	m.JobDuration = collector.RegisterHistogram("job_duration_seconds", "Background job duration", pipelineDurationBuckets, "type")
	m.JobRetries = collector.RegisterCounter("job_retries_total", "Background job retries", "type")
	m.QueueDepth = collector.RegisterGauge("queue_depth", "Pending jobs in queue", "queue")
	m.ActiveWorkers = collector.RegisterGauge("active_workers", "Workers currently processing", "queue")

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", dbDurationBuckets, "operation")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "status")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")

	return m
}

// RecordHTTPRequest observes one completed request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordExtraction observes one pipeline run.
func (m *AppMetrics) RecordExtraction(method, status, completeness string, confidence float64, duration time.Duration) {
	m.ExtractionsTotal.WithLabelValues(status, completeness).Inc()
	m.ExtractionDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == "success" {
		m.ExtractionConfidence.WithLabelValues(method).Observe(confidence)
		m.ExtractionMethodTotal.WithLabelValues(method).Inc()
	}
}

// RecordLLMCall observes one model invocation.
func (m *AppMetrics) RecordLLMCall(operation string, success bool, duration time.Duration, inputTokens, outputTokens int) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	m.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.LLMTokensUsed.WithLabelValues("input").Add(float64(inputTokens))
	m.LLMTokensUsed.WithLabelValues("output").Add(float64(outputTokens))
}

// RecordJob observes one finished job attempt.
func (m *AppMetrics) RecordJob(jobType, status string, duration time.Duration) {
	m.JobsTotal.WithLabelValues(jobType, status).Inc()
	m.JobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// SetComponentHealth flips a component's health gauge.
func (m *AppMetrics) SetComponentHealth(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}
