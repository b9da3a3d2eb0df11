package kafka

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

type fakeWriter struct {
	messages []segkafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...segkafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func producerTestMetrics(t *testing.T) (*prometheus.AppMetrics, func() string) {
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

func TestPublishWrapsPayloadInEnvelope(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, "adsforge", "apiserver", nil, logging.NewNop())

	err := p.Publish(context.Background(), TopicADSGenerated, "app-1", ADSGeneratedPayload{
		ApplicationID: "app-1",
		StorageKey:    "reports/app-1.pdf",
	})
	require.NoError(t, err)
	require.Len(t, fw.messages, 1)

	msg := fw.messages[0]
	assert.Equal(t, "adsforge.ads.generated", msg.Topic)
	assert.Equal(t, "app-1", string(msg.Key))

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, TopicADSGenerated, envelope.EventType)
	assert.Equal(t, "apiserver", envelope.Source)
	assert.Equal(t, "v1", envelope.SchemaVersion)
	assert.NotEmpty(t, envelope.EventID)

	var payload ADSGeneratedPayload
	require.NoError(t, envelope.DecodePayload(&payload))
	assert.Equal(t, "reports/app-1.pdf", payload.StorageKey)
}

func TestPublishCountsOutcomes(t *testing.T) {
	fw := &fakeWriter{}
	metrics, scrape := producerTestMetrics(t)
	p := NewProducerWithWriter(fw, "", "worker", metrics, logging.NewNop())

	require.NoError(t, p.Publish(context.Background(), TopicExtractionCompleted, "doc-1", ExtractionCompletedPayload{DocumentID: "doc-1"}))
	assert.Contains(t, scrape(), `events_published_total{status="success",topic="extraction.completed"} 1`)

	fw.writeErr = errors.New(errors.ErrCodeInternal, "broker unavailable")
	require.Error(t, p.Publish(context.Background(), TopicExtractionCompleted, "doc-2", ExtractionCompletedPayload{DocumentID: "doc-2"}))
	assert.Contains(t, scrape(), `events_published_total{status="failure",topic="extraction.completed"} 1`)
}

func TestPublishAfterCloseFails(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, "", "worker", nil, logging.NewNop())

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), TopicADSGenerated, "k", struct{}{}), ErrProducerClosed)
	assert.NoError(t, p.Close(), "second close is a no-op")
}
