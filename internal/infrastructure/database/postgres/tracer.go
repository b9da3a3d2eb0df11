package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
)

type queryTraceKey struct{}

type queryTrace struct {
	start     time.Time
	operation string
}

// metricsTracer implements pgx.QueryTracer, feeding every query through the
// db_query_duration histogram labelled by leading SQL verb.
type metricsTracer struct {
	metrics *prometheus.AppMetrics
}

func (t *metricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryTraceKey{}, queryTrace{
		start:     time.Now(),
		operation: sqlOperation(data.SQL),
	})
}

func (t *metricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	trace, ok := ctx.Value(queryTraceKey{}).(queryTrace)
	if !ok {
		return
	}
	t.metrics.DBQueryDuration.WithLabelValues(trace.operation).Observe(time.Since(trace.start).Seconds())
}

// sqlOperation reduces a statement to its leading verb so the label set stays
// bounded.
func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete":
		return op
	default:
		return "other"
	}
}
