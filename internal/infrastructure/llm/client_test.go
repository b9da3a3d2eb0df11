package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

type fakeMessager struct {
	calls     int
	responses []string
	errs      []error
	usage     anthropic.Usage
}

func (f *fakeMessager) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	text := ""
	if idx < len(f.responses) {
		text = f.responses[idx]
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
		Usage:   f.usage,
	}, nil
}

func testMetrics(t *testing.T) (*prometheus.AppMetrics, func() string) {
	t.Helper()
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "adsforge_test"}, logging.NewNop())
	require.NoError(t, err)
	scrape := func() string {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return rec.Body.String()
	}
	return prometheus.NewAppMetrics(c), scrape
}

func testConfig() Config {
	return Config{
		APIKey:     "test",
		MaxRetries: 3,
		RetryBase:  time.Millisecond,
	}
}

func TestGenerateJSONReturnsText(t *testing.T) {
	fake := &fakeMessager{responses: []string{`{"ok":true}`}}
	c := newWithMessager(fake, testConfig(), nil, logging.NewNop())

	out, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, 1, fake.calls)
}

func TestRetriesOnServerError(t *testing.T) {
	fake := &fakeMessager{
		errs:      []error{fmt.Errorf("api error 529: overloaded"), nil},
		responses: []string{"", `{"ok":true}`},
	}
	c := newWithMessager(fake, testConfig(), nil, logging.NewNop())

	out, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, 2, fake.calls)
}

func TestNoRetryOnAuthError(t *testing.T) {
	fake := &fakeMessager{
		errs: []error{fmt.Errorf("api error 401: invalid x-api-key")},
	}
	c := newWithMessager(fake, testConfig(), nil, logging.NewNop())

	_, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls, "terminal errors must not be retried")
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMCallFailed))
}

func TestRetryBoundIsFixed(t *testing.T) {
	fake := &fakeMessager{
		errs: []error{
			fmt.Errorf("api error 503"),
			fmt.Errorf("api error 503"),
			fmt.Errorf("api error 503"),
			fmt.Errorf("api error 503"),
		},
	}
	c := newWithMessager(fake, testConfig(), nil, logging.NewNop())

	_, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.Equal(t, 3, fake.calls, "exactly MaxRetries attempts, no adaptive policy")
}

func TestEmptyResponseRetriedThenFails(t *testing.T) {
	fake := &fakeMessager{responses: []string{"", "", ""}}
	c := newWithMessager(fake, testConfig(), nil, logging.NewNop())

	_, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMResponseMalformed))
}

func TestCallRecordsRequestMetrics(t *testing.T) {
	fake := &fakeMessager{
		errs:      []error{fmt.Errorf("api error 503"), nil},
		responses: []string{"", `{"ok":true}`},
		usage:     anthropic.Usage{InputTokens: 120, OutputTokens: 40},
	}
	metrics, scrape := testMetrics(t)
	c := newWithMessager(fake, testConfig(), metrics, logging.NewNop())

	_, err := c.GenerateJSON(context.Background(), "system", "prompt")
	require.NoError(t, err)

	body := scrape()
	assert.Contains(t, body, `llm_requests_total{operation="text",status="failure"} 1`)
	assert.Contains(t, body, `llm_requests_total{operation="text",status="success"} 1`)
	assert.Contains(t, body, `llm_request_duration_seconds_count{operation="text"} 2`)
	// The transport-error attempt carries no usage, so tokens come from the
	// successful attempt only.
	assert.Contains(t, body, `llm_tokens_total{direction="input"} 120`)
	assert.Contains(t, body, `llm_tokens_total{direction="output"} 40`)
}

func TestVisionCallsUseVisionOperationLabel(t *testing.T) {
	fake := &fakeMessager{responses: []string{`{"ok":true}`}}
	metrics, scrape := testMetrics(t)
	c := newWithMessager(fake, testConfig(), metrics, logging.NewNop())

	_, err := c.GenerateVisionJSON(context.Background(), "system", "prompt", [][]byte{[]byte("jpeg")})
	require.NoError(t, err)
	assert.Contains(t, scrape(), `llm_requests_total{operation="vision",status="success"} 1`)
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                     `{"a":1}`,
		"```json\n{\"a\":1}\n```":       `{"a":1}`,
		"```\n{\"a\":1}\n```":           `{"a":1}`,
		"  ```json\n{\"a\":1}\n```\n  ": `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in))
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, nil, logging.NewNop())
	require.Error(t, err)
}
