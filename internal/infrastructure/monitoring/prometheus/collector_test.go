package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

func testCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "adsforge_test"}, logging.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNop())
	assert.Error(t, err)
}

func TestCounterAppearsOnScrapeEndpoint(t *testing.T) {
	c := testCollector(t)
	counter := c.RegisterCounter("widgets_total", "Widgets", "kind")
	counter.WithLabelValues("round").Inc()
	counter.WithLabelValues("round").Add(2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "adsforge_test_widgets_total")
	assert.Contains(t, body, `kind="round"`)
	assert.Contains(t, body, "3")
}

func TestDuplicateRegistrationReturnsSameMetric(t *testing.T) {
	c := testCollector(t)
	first := c.RegisterCounter("dups_total", "Dups")
	second := c.RegisterCounter("dups_total", "Dups")

	first.WithLabelValues().Inc()
	second.WithLabelValues().Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "adsforge_test_dups_total 2")
}

func TestAppMetricsHelpers(t *testing.T) {
	c := testCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest(http.MethodGet, "/api/v1/documents", 200, 25*time.Millisecond)
	m.RecordExtraction("text", "success", "complete", 0.92, 40*time.Second)
	m.RecordLLMCall("evidence", true, 3*time.Second, 1200, 400)
	m.RecordJob("extraction", "succeeded", time.Minute)
	m.SetComponentHealth("postgres", true)
	m.SetComponentHealth("redis", false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		"adsforge_test_http_requests_total",
		"adsforge_test_extractions_total",
		"adsforge_test_llm_tokens_total",
		"adsforge_test_jobs_total",
		`adsforge_test_health_check_status{component="postgres"} 1`,
		`adsforge_test_health_check_status{component="redis"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
