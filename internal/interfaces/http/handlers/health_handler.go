package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/adsforge/adsforge/internal/infrastructure/database/postgres"
	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/internal/infrastructure/storage/minio"
)

// checkTimeout bounds each dependency probe.
const checkTimeout = 3 * time.Second

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db      *postgres.Connection
	cache   *redis.Client
	storage *minio.Client
	metrics *prometheus.AppMetrics
	log     logging.Logger

	// probes collapses concurrent readiness requests into one round of
	// dependency checks.
	probes singleflight.Group
}

// readiness is the shared result of one probe round.
type readiness struct {
	healthy    bool
	components map[string]string
}

// NewHealthHandler wires the dependencies to probe.  Any of them may be nil
// (the worker binary has no reason to probe MinIO through HTTP, for example);
// nil components are skipped.
func NewHealthHandler(
	db *postgres.Connection,
	cache *redis.Client,
	storage *minio.Client,
	metrics *prometheus.AppMetrics,
	log logging.Logger,
) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, storage: storage, metrics: metrics, log: log}
}

// Liveness handles GET /healthz.  It only proves the process is serving.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz, probing every wired dependency.  Any
// failure returns 503 with the per-component breakdown.  Concurrent probes
// share one round of checks so orchestrator probe storms never pile load
// onto a struggling dependency.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	v, _, _ := h.probes.Do("readyz", func() (any, error) {
		return h.probe(), nil
	})
	res := v.(readiness)

	status := http.StatusOK
	overall := "ready"
	if !res.healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":     overall,
		"components": res.components,
	})
}

func (h *HealthHandler) probe() readiness {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	res := readiness{healthy: true, components: map[string]string{}}

	check := func(name string, probe func(context.Context) error) {
		err := probe(ctx)
		if err != nil {
			res.healthy = false
			res.components[name] = "unavailable"
			h.log.Warn("readiness probe failed", logging.String("component", name), logging.Err(err))
		} else {
			res.components[name] = "ok"
		}
		if h.metrics != nil {
			h.metrics.SetComponentHealth(name, err == nil)
		}
	}

	if h.db != nil {
		check("postgres", h.db.HealthCheck)
	}
	if h.cache != nil {
		check("redis", h.cache.Ping)
	}
	if h.storage != nil {
		check("minio", h.storage.HealthCheck)
	}
	return res
}
