package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

type stubQueue struct {
	depth int64
	err   error
}

func (q *stubQueue) Enqueue(ctx context.Context, payload string) error { return nil }

func (q *stubQueue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	return "", nil
}

func (q *stubQueue) Length(ctx context.Context) (int64, error) { return q.depth, q.err }

func workerTestMetrics(t *testing.T) (*prometheus.AppMetrics, func() string) {
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

func queueDepthWorker(queue JobQueue, metrics *prometheus.AppMetrics) *Worker {
	cfg := config.WorkerConfig{QueueName: "extraction"}
	return New(cfg, nil, nil, nil, nil, nil, nil, queue, nil, nil, metrics, logging.NewNop())
}

func TestObserveQueueDepthSetsGauge(t *testing.T) {
	metrics, scrape := workerTestMetrics(t)
	q := &stubQueue{depth: 7}
	w := queueDepthWorker(q, metrics)

	w.observeQueueDepth(context.Background())
	assert.Contains(t, scrape(), `queue_depth{queue="extraction"} 7`)

	q.depth = 0
	w.observeQueueDepth(context.Background())
	assert.Contains(t, scrape(), `queue_depth{queue="extraction"} 0`)
}

func TestObserveQueueDepthKeepsLastValueOnError(t *testing.T) {
	metrics, scrape := workerTestMetrics(t)
	q := &stubQueue{depth: 3}
	w := queueDepthWorker(q, metrics)

	w.observeQueueDepth(context.Background())
	q.err = errors.New(errors.ErrCodeCacheError, "redis down")
	w.observeQueueDepth(context.Background())

	assert.Contains(t, scrape(), `queue_depth{queue="extraction"} 3`)
}

func TestObserveQueueDepthNilMetricsIsNoop(t *testing.T) {
	w := queueDepthWorker(&stubQueue{depth: 1}, nil)
	w.observeQueueDepth(context.Background())
}

type stubLock struct {
	mu      sync.Mutex
	extends int
	ok      bool
	err     error
}

func (l *stubLock) Extend(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.extends++
	return l.ok, l.err
}

func (l *stubLock) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.extends
}

func TestKeepLockAliveExtendsUntilStopped(t *testing.T) {
	cfg := config.WorkerConfig{LockTTL: 20 * time.Millisecond}
	w := New(cfg, nil, nil, nil, nil, nil, nil, &stubQueue{}, nil, nil, nil, logging.NewNop())
	lock := &stubLock{ok: true}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.keepLockAlive(context.Background(), lock, stop)
	}()

	require.Eventually(t, func() bool { return lock.count() >= 2 },
		time.Second, 5*time.Millisecond, "lock must be re-extended while the job runs")
	close(stop)
	<-done
}

func TestKeepLockAliveStopsWhenLockIsLost(t *testing.T) {
	cfg := config.WorkerConfig{LockTTL: 20 * time.Millisecond}
	w := New(cfg, nil, nil, nil, nil, nil, nil, &stubQueue{}, nil, nil, nil, logging.NewNop())
	lock := &stubLock{ok: false}

	stop := make(chan struct{})
	defer close(stop)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.keepLockAlive(context.Background(), lock, stop)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepalive must give up once the lock is no longer held")
	}
	assert.Equal(t, 1, lock.count())
}

func TestKeepLockAliveZeroTTLIsNoop(t *testing.T) {
	w := New(config.WorkerConfig{}, nil, nil, nil, nil, nil, nil, &stubQueue{}, nil, nil, nil, logging.NewNop())
	stop := make(chan struct{})
	defer close(stop)
	w.keepLockAlive(context.Background(), &stubLock{ok: true}, stop)
}
